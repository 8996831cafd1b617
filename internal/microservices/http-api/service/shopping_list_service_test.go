package service

import (
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/shared"
)

func (s *storeSuite) TestShoppingList_SumsAmountsPerProduct() {
	author := s.newUser("author")
	buyer := s.newUser("buyer")
	sugar := s.newProduct("sugar", "g")
	flour := s.newProduct("flour", "g")
	salt := s.newProduct("salt", "pinch")

	cake := s.newRecipe(author, "Cake",
		IngredientInput{ProductID: flour, Amount: 200},
		IngredientInput{ProductID: sugar, Amount: 50},
	)
	bread := s.newRecipe(author, "Bread", IngredientInput{ProductID: flour, Amount: 300})
	s.newRecipe(author, "Soup", IngredientInput{ProductID: salt, Amount: 2})

	for _, id := range []int64{cake, bread} {
		_, err := s.cart.Add(s.ctx, buyer, id)
		s.Require().NoError(err)
	}

	items, err := s.shopping.Aggregate(s.ctx, buyer)
	s.Require().NoError(err)
	s.Equal([]repository.ShoppingListItem{
		{ProductID: flour, Name: "flour", Unit: "g", TotalAmount: 500},
		{ProductID: sugar, Name: "sugar", Unit: "g", TotalAmount: 50},
	}, items)
}

func (s *storeSuite) TestShoppingList_EmptyBasket() {
	buyer := s.newUser("buyer")

	items, err := s.shopping.Aggregate(s.ctx, buyer)
	s.Require().NoError(err)
	s.NotNil(items)
	s.Empty(items)
}

func (s *storeSuite) TestShoppingList_OtherBasketsIgnored() {
	author := s.newUser("author")
	buyer := s.newUser("buyer")
	other := s.newUser("other")
	flour := s.newProduct("flour", "g")
	id := s.newRecipe(author, "Bread", IngredientInput{ProductID: flour, Amount: 300})

	_, err := s.cart.Add(s.ctx, other, id)
	s.Require().NoError(err)

	items, err := s.shopping.Aggregate(s.ctx, buyer)
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *storeSuite) TestShoppingList_Anonymous() {
	_, err := s.shopping.Aggregate(s.ctx, shared.Viewer{})
	s.ErrorIs(err, shared.ErrUnauthorized)
}
