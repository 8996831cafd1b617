package service

import (
	"sync"

	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/shared"
)

func (s *storeSuite) TestSubscribe_ReturnsAuthorWithPreview() {
	author := s.newUser("author")
	fan := s.newUser("fan")
	oldest := s.newRecipe(author, "one")
	middle := s.newRecipe(author, "two")
	newest := s.newRecipe(author, "three")

	view, err := s.subscriptions.Subscribe(s.ctx, fan, author.UserID, 2)
	s.Require().NoError(err)

	s.Equal(author.UserID, view.User.ID)
	s.True(view.IsSubscribed)
	s.Equal(int64(3), view.RecipesCount)
	s.Require().Len(view.Recipes, 2)
	s.Equal(newest, view.Recipes[0].ID)
	s.Equal(middle, view.Recipes[1].ID)
	s.NotContains([]int64{view.Recipes[0].ID, view.Recipes[1].ID}, oldest)
}

func (s *storeSuite) TestSubscribe_SelfIsAlwaysRejected() {
	me := s.newUser("me")

	for range 2 {
		_, err := s.subscriptions.Subscribe(s.ctx, me, me.UserID, DefaultRecipesLimit)
		var appErr *shared.Error
		s.Require().ErrorAs(err, &appErr)
		s.Equal(shared.KindValidation, appErr.Kind)
		s.Equal("author", appErr.Field)
	}
	s.Zero(s.count(&models.Subscription{}, ""))
}

func (s *storeSuite) TestSubscriptionRepository_CheckBackstop() {
	me := s.newUser("me")

	err := s.store.Subscriptions.Add(s.ctx, me.UserID, me.UserID)
	s.ErrorIs(err, repository.ErrCheckViolation)
	s.Zero(s.count(&models.Subscription{}, ""))
}

func (s *storeSuite) TestSubscribe_TwiceConflicts() {
	author := s.newUser("author")
	fan := s.newUser("fan")

	_, err := s.subscriptions.Subscribe(s.ctx, fan, author.UserID, 1)
	s.Require().NoError(err)
	_, err = s.subscriptions.Subscribe(s.ctx, fan, author.UserID, 1)
	s.ErrorIs(err, shared.ErrConflict)
	s.Equal(int64(1), s.count(&models.Subscription{}, ""))
}

func (s *storeSuite) TestSubscribe_UnknownAuthor() {
	fan := s.newUser("fan")

	_, err := s.subscriptions.Subscribe(s.ctx, fan, "00000000-0000-0000-0000-000000000000", 1)
	s.ErrorIs(err, shared.ErrNotFound)
}

func (s *storeSuite) TestSubscription_MalformedAuthorID() {
	fan := s.newUser("fan")

	s.queries.reset()
	_, err := s.subscriptions.Subscribe(s.ctx, fan, "abc", 1)
	s.ErrorIs(err, shared.ErrNotFound)
	s.ErrorIs(s.subscriptions.Unsubscribe(s.ctx, fan, "abc"), shared.ErrNotFound)
	s.Zero(s.queries.total.Load(), "malformed ids never reach the database")
	s.Zero(s.count(&models.Subscription{}, ""))
}

func (s *storeSuite) TestUnsubscribe() {
	author := s.newUser("author")
	fan := s.newUser("fan")

	s.ErrorIs(s.subscriptions.Unsubscribe(s.ctx, fan, author.UserID), shared.ErrConflict)

	_, err := s.subscriptions.Subscribe(s.ctx, fan, author.UserID, 1)
	s.Require().NoError(err)
	s.Require().NoError(s.subscriptions.Unsubscribe(s.ctx, fan, author.UserID))
	s.Zero(s.count(&models.Subscription{}, ""))

	got, err := s.users.Get(s.ctx, fan, author.UserID)
	s.Require().NoError(err)
	s.False(got.IsSubscribed)
}

func (s *storeSuite) TestSubscribe_ConcurrentInsertOnce() {
	author := s.newUser("author")
	fan := s.newUser("fan")

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.subscriptions.Subscribe(s.ctx, fan, author.UserID, 1)
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		if err == nil {
			ok++
		} else if shared.KindOf(err) == shared.KindConflict {
			conflicts++
		}
	}
	s.Equal(1, ok)
	s.Equal(1, conflicts)
	s.Equal(int64(1), s.count(&models.Subscription{}, ""))
}

func (s *storeSuite) TestListSubscriptions_PaginatedWithPreviews() {
	fan := s.newUser("fan")
	first := s.newUser("first")
	second := s.newUser("second")
	quiet := s.newUser("quiet")
	stranger := s.newUser("stranger")

	for _, name := range []string{"a", "b", "c"} {
		s.newRecipe(first, name)
	}
	s.newRecipe(second, "d")
	s.newRecipe(stranger, "e")

	for _, author := range []shared.Viewer{first, second, quiet} {
		_, err := s.subscriptions.Subscribe(s.ctx, fan, author.UserID, 1)
		s.Require().NoError(err)
	}

	views, total, err := s.subscriptions.List(s.ctx, fan, PageRequest{}, 2)
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(views, 3)

	byID := map[string]AuthorView{}
	for _, v := range views {
		s.True(v.IsSubscribed)
		byID[v.User.ID] = v
	}
	s.NotContains(byID, stranger.UserID)

	s.Equal(int64(3), byID[first.UserID].RecipesCount)
	s.Len(byID[first.UserID].Recipes, 2)
	s.Equal(int64(1), byID[second.UserID].RecipesCount)
	s.Len(byID[second.UserID].Recipes, 1)
	s.Zero(byID[quiet.UserID].RecipesCount)
	s.NotNil(byID[quiet.UserID].Recipes)
	s.Empty(byID[quiet.UserID].Recipes)

	page, total, err := s.subscriptions.List(s.ctx, fan, PageRequest{Page: 2, Limit: 2}, 2)
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(page, 1)

	_, _, err = s.subscriptions.List(s.ctx, shared.Viewer{}, PageRequest{}, 2)
	s.ErrorIs(err, shared.ErrUnauthorized)
}
