package service

import (
	"strings"

	"recipehub/internal/middleware/auth"
	"recipehub/internal/shared"
)

func (s *storeSuite) register(email, username string) shared.Viewer {
	user, err := s.users.Register(s.ctx, RegisterInput{
		Email:     email,
		Username:  username,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "correct-horse",
	})
	s.Require().NoError(err)
	return shared.Viewer{UserID: user.ID, Role: user.Role}
}

func (s *storeSuite) TestRegister() {
	user, err := s.users.Register(s.ctx, RegisterInput{
		Email:     "  Ada@Example.com ",
		Username:  "ada",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "correct-horse",
	})
	s.Require().NoError(err)
	s.NotEmpty(user.ID)
	s.Equal("ada@example.com", user.Email)
	s.Equal("user", user.Role)
	s.NotEqual("correct-horse", user.Password)
	s.NoError(auth.VerifyPassword(user.Password, "correct-horse"))
}

func (s *storeSuite) TestRegister_Duplicates() {
	s.register("ada@example.com", "ada")

	_, err := s.users.Register(s.ctx, RegisterInput{Email: "ADA@example.com", Username: "other", Password: "correct-horse"})
	s.ErrorIs(err, shared.ErrConflict)

	_, err = s.users.Register(s.ctx, RegisterInput{Email: "new@example.com", Username: "ada", Password: "correct-horse"})
	s.ErrorIs(err, shared.ErrConflict)
}

func (s *storeSuite) TestRegister_WeakPassword() {
	_, err := s.users.Register(s.ctx, RegisterInput{Email: "a@example.com", Username: "a", Password: "short"})
	var appErr *shared.Error
	s.Require().ErrorAs(err, &appErr)
	s.Equal(shared.KindValidation, appErr.Kind)
	s.Equal("password", appErr.Field)
}

func (s *storeSuite) TestGetUser_Projection() {
	author := s.register("author@example.com", "author")
	fan := s.register("fan@example.com", "fan")
	s.newRecipe(author, "Gumbo")

	_, err := s.subscriptions.Subscribe(s.ctx, fan, author.UserID, 1)
	s.Require().NoError(err)

	seenByFan, err := s.users.Get(s.ctx, fan, author.UserID)
	s.Require().NoError(err)
	s.True(seenByFan.IsSubscribed)
	s.Equal(int64(1), seenByFan.User.RecipesCount)

	seenByAnon, err := s.users.Get(s.ctx, shared.Viewer{}, author.UserID)
	s.Require().NoError(err)
	s.False(seenByAnon.IsSubscribed)

	me, err := s.users.Me(s.ctx, author)
	s.Require().NoError(err)
	s.Equal(author.UserID, me.User.ID)
	s.False(me.IsSubscribed)

	_, err = s.users.Me(s.ctx, shared.Viewer{})
	s.ErrorIs(err, shared.ErrUnauthorized)

	_, err = s.users.Get(s.ctx, fan, "missing")
	s.ErrorIs(err, shared.ErrNotFound)
}

func (s *storeSuite) TestGetUser_MalformedID() {
	author := s.register("author@example.com", "author")

	s.queries.reset()
	_, err := s.users.Get(s.ctx, author, "abc")
	s.ErrorIs(err, shared.ErrNotFound)
	_, err = s.users.Get(s.ctx, shared.Viewer{}, "1; drop table users")
	s.ErrorIs(err, shared.ErrNotFound)
	s.Zero(s.queries.total.Load(), "malformed ids never reach the database")

	got, err := s.users.Get(s.ctx, shared.Viewer{}, strings.ToUpper(author.UserID))
	s.Require().NoError(err)
	s.Equal(author.UserID, got.User.ID)
}

func (s *storeSuite) TestListUsers() {
	first := s.register("first@example.com", "first")
	second := s.register("second@example.com", "second")
	_, err := s.subscriptions.Subscribe(s.ctx, first, second.UserID, 1)
	s.Require().NoError(err)

	views, total, err := s.users.List(s.ctx, first, PageRequest{})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(views, 2)

	flags := map[string]bool{}
	for _, v := range views {
		flags[v.User.ID] = v.IsSubscribed
	}
	s.Equal(map[string]bool{first.UserID: false, second.UserID: true}, flags)
}

func (s *storeSuite) TestSetPassword() {
	me := s.register("me@example.com", "me")

	err := s.users.SetPassword(s.ctx, me, "wrong-password", "brand-new-pass")
	s.ErrorIs(err, shared.ErrValidation)

	err = s.users.SetPassword(s.ctx, me, "correct-horse", "short")
	s.ErrorIs(err, shared.ErrValidation)

	s.Require().NoError(s.users.SetPassword(s.ctx, me, "correct-horse", "brand-new-pass"))

	stored, err := s.store.Users.FindByID(s.ctx, me.UserID)
	s.Require().NoError(err)
	s.NoError(auth.VerifyPassword(stored.Password, "brand-new-pass"))
	s.Error(auth.VerifyPassword(stored.Password, "correct-horse"))
}
