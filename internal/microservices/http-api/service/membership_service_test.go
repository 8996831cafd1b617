package service

import (
	"sync"

	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/shared"
)

func (s *storeSuite) TestFavorite_AddReturnsProjectedRecipe() {
	author := s.newUser("author")
	fan := s.newUser("fan")
	id := s.newRecipe(author, "Tart")

	view, err := s.favorites.Add(s.ctx, fan, id)
	s.Require().NoError(err)
	s.Equal(id, view.Recipe.ID)
	s.True(view.Flags.IsFavorited)
	s.False(view.Flags.IsInShoppingCart)

	view, err = s.cart.Add(s.ctx, fan, id)
	s.Require().NoError(err)
	s.True(view.Flags.IsFavorited)
	s.True(view.Flags.IsInShoppingCart)
}

func (s *storeSuite) TestFavorite_DoubleAddConflicts() {
	author := s.newUser("author")
	fan := s.newUser("fan")
	id := s.newRecipe(author, "Tart")

	_, err := s.favorites.Add(s.ctx, fan, id)
	s.Require().NoError(err)

	_, err = s.favorites.Add(s.ctx, fan, id)
	s.ErrorIs(err, shared.ErrConflict)
	s.EqualError(err, "recipe is already in favorites")
	s.Equal(int64(1), s.count(&models.Favorite{}, "user_id = ? AND recipe_id = ?", fan.UserID, id))
}

func (s *storeSuite) TestShoppingCart_RemoveWithoutAddConflicts() {
	author := s.newUser("author")
	fan := s.newUser("fan")
	id := s.newRecipe(author, "Tart")

	err := s.cart.Remove(s.ctx, fan, id)
	s.ErrorIs(err, shared.ErrConflict)
	s.EqualError(err, "recipe is not in shopping cart")
	s.Zero(s.count(&models.BasketItem{}, ""))

	_, err = s.cart.Add(s.ctx, fan, id)
	s.Require().NoError(err)
	s.Require().NoError(s.cart.Remove(s.ctx, fan, id))
	s.Zero(s.count(&models.BasketItem{}, ""))
}

func (s *storeSuite) TestMembership_UnknownRecipe() {
	fan := s.newUser("fan")

	_, err := s.favorites.Add(s.ctx, fan, 777)
	s.ErrorIs(err, shared.ErrNotFound)
	s.ErrorIs(s.favorites.Remove(s.ctx, fan, 777), shared.ErrNotFound)
	s.ErrorIs(s.cart.Remove(s.ctx, fan, 777), shared.ErrNotFound)
}

func (s *storeSuite) TestMembership_AnonymousRejected() {
	author := s.newUser("author")
	id := s.newRecipe(author, "Tart")

	_, err := s.favorites.Add(s.ctx, shared.Viewer{}, id)
	s.ErrorIs(err, shared.ErrUnauthorized)
	s.ErrorIs(s.cart.Remove(s.ctx, shared.Viewer{}, id), shared.ErrUnauthorized)
}

func (s *storeSuite) TestMembership_SetsAreIndependentPerUser() {
	author := s.newUser("author")
	a := s.newUser("a")
	b := s.newUser("b")
	id := s.newRecipe(author, "Tart")

	_, err := s.favorites.Add(s.ctx, a, id)
	s.Require().NoError(err)
	_, err = s.favorites.Add(s.ctx, b, id)
	s.Require().NoError(err)
	s.Require().NoError(s.favorites.Remove(s.ctx, a, id))

	viewA, err := s.recipes.Get(s.ctx, a, id)
	s.Require().NoError(err)
	s.False(viewA.Flags.IsFavorited)

	viewB, err := s.recipes.Get(s.ctx, b, id)
	s.Require().NoError(err)
	s.True(viewB.Flags.IsFavorited)
}

func (s *storeSuite) TestFavorite_ConcurrentAddsInsertOnce() {
	author := s.newUser("author")
	fan := s.newUser("fan")
	id := s.newRecipe(author, "Tart")

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.favorites.Add(s.ctx, fan, id)
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case shared.KindOf(err) == shared.KindConflict:
			conflicts++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, ok)
	s.Equal(1, conflicts)
	s.Equal(int64(1), s.count(&models.Favorite{}, ""))
}

func (s *storeSuite) TestMembershipRepository_UniquePairBackstop() {
	author := s.newUser("author")
	fan := s.newUser("fan")
	id := s.newRecipe(author, "Tart")

	s.Require().NoError(s.store.Basket.Add(s.ctx, fan.UserID, id))
	err := s.store.Basket.Add(s.ctx, fan.UserID, id)
	s.ErrorIs(err, repository.ErrDuplicate)

	n, err := s.store.Basket.CountByRecipe(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}
