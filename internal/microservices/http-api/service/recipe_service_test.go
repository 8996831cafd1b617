package service

import (
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/shared"
)

func (s *storeSuite) TestCreateRecipe_RoundTrip() {
	author := s.newUser("author")
	flour := s.newProduct("flour", "g")
	sugar := s.newProduct("sugar", "g")
	breakfast := s.newTag("Breakfast", "#E26C2D", "breakfast")
	dinner := s.newTag("Dinner", "#49B64E", "dinner")

	in := s.recipeInput("Pancakes", []IngredientInput{
		{ProductID: flour, Amount: 200},
		{ProductID: sugar, Amount: 50},
	}, []int64{dinner, breakfast})

	created, err := s.recipes.Create(s.ctx, author, in)
	s.Require().NoError(err)

	got, err := s.recipes.Get(s.ctx, author, created.Recipe.ID)
	s.Require().NoError(err)

	r := got.Recipe
	s.Equal("Pancakes", r.Name)
	s.Equal("Mix and bake.", r.Text)
	s.Equal(30, r.CookingTime)
	s.Equal(author.UserID, r.AuthorID)
	s.Require().NotNil(r.Author)
	s.Equal(author.UserID, r.Author.ID)
	s.Contains(r.Image, "recipes/")

	s.Require().Len(r.Ingredients, 2)
	amounts := map[string]int{}
	for _, line := range r.Ingredients {
		s.Require().NotNil(line.Product)
		amounts[line.Product.Name] = line.Amount
	}
	s.Equal(map[string]int{"flour": 200, "sugar": 50}, amounts)

	s.Require().Len(r.Tags, 2)
	s.ElementsMatch([]string{"breakfast", "dinner"}, []string{r.Tags[0].Slug, r.Tags[1].Slug})

	s.Equal(RecipeFlags{}, got.Flags)
	s.False(got.AuthorSubscribed)
}

func (s *storeSuite) TestCreateRecipe_DuplicateProductRejectedWithoutWrites() {
	author := s.newUser("author")
	flour := s.newProduct("flour", "g")

	in := s.recipeInput("Bread", []IngredientInput{
		{ProductID: flour, Amount: 100},
		{ProductID: flour, Amount: 300},
	}, nil)

	_, err := s.recipes.Create(s.ctx, author, in)
	s.Require().Error(err)
	s.ErrorIs(err, shared.ErrValidation)

	var appErr *shared.Error
	s.Require().ErrorAs(err, &appErr)
	s.Equal("ingredients", appErr.Field)
	s.Equal("duplicate ingredient in recipe", appErr.Message)

	s.Zero(s.count(&models.Recipe{}, ""))
	s.Zero(s.count(&models.IngredientLine{}, ""))
}

func (s *storeSuite) TestCreateRecipe_Validation() {
	author := s.newUser("author")
	flour := s.newProduct("flour", "g")
	valid := []IngredientInput{{ProductID: flour, Amount: 1}}

	tests := []struct {
		name  string
		edit  func(in *RecipeInput)
		field string
	}{
		{"blank name", func(in *RecipeInput) { in.Name = ptr("  ") }, "name"},
		{"missing text", func(in *RecipeInput) { in.Text = nil }, "text"},
		{"zero cooking time", func(in *RecipeInput) { in.CookingTime = ptr(0) }, "cooking_time"},
		{"no ingredients", func(in *RecipeInput) { in.Ingredients = nil }, "ingredients"},
		{"zero amount", func(in *RecipeInput) { in.Ingredients = []IngredientInput{{ProductID: flour, Amount: 0}} }, "ingredients"},
		{"duplicate tag", func(in *RecipeInput) { in.TagIDs = []int64{1, 1} }, "tags"},
		{"bad image", func(in *RecipeInput) { in.Image = ptr("not-an-image") }, "image"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			in := s.recipeInput("Soup", valid, nil)
			tt.edit(&in)

			_, err := s.recipes.Create(s.ctx, author, in)
			var appErr *shared.Error
			s.Require().ErrorAs(err, &appErr)
			s.Equal(shared.KindValidation, appErr.Kind)
			s.Equal(tt.field, appErr.Field)
		})
	}
	s.Zero(s.count(&models.Recipe{}, ""))
}

func (s *storeSuite) TestCreateRecipe_UnknownReferencesRollBack() {
	author := s.newUser("author")
	flour := s.newProduct("flour", "g")

	_, err := s.recipes.Create(s.ctx, author, s.recipeInput("Ghost", []IngredientInput{
		{ProductID: flour, Amount: 1},
		{ProductID: 9999, Amount: 1},
	}, nil))
	s.ErrorIs(err, shared.ErrNotFound)

	_, err = s.recipes.Create(s.ctx, author, s.recipeInput("Ghost", []IngredientInput{
		{ProductID: flour, Amount: 1},
	}, []int64{4242}))
	s.ErrorIs(err, shared.ErrNotFound)

	s.Zero(s.count(&models.Recipe{}, ""))
	s.Zero(s.count(&models.IngredientLine{}, ""))
}

func (s *storeSuite) TestCreateRecipe_AnonymousRejected() {
	_, err := s.recipes.Create(s.ctx, shared.Viewer{}, RecipeInput{})
	s.ErrorIs(err, shared.ErrUnauthorized)
}

func (s *storeSuite) TestUpdateRecipe_FullyReplacesLinesAndTags() {
	author := s.newUser("author")
	flour := s.newProduct("flour", "g")
	sugar := s.newProduct("sugar", "g")
	milk := s.newProduct("milk", "ml")
	breakfast := s.newTag("Breakfast", "#E26C2D", "breakfast")
	dinner := s.newTag("Dinner", "#49B64E", "dinner")

	created, err := s.recipes.Create(s.ctx, author, s.recipeInput("Crepes", []IngredientInput{
		{ProductID: flour, Amount: 100},
		{ProductID: sugar, Amount: 20},
	}, []int64{breakfast}))
	s.Require().NoError(err)
	id := created.Recipe.ID

	updated, err := s.recipes.Update(s.ctx, author, id, RecipeInput{
		CookingTime: ptr(15),
		Ingredients: []IngredientInput{{ProductID: milk, Amount: 250}},
		TagIDs:      []int64{dinner},
	})
	s.Require().NoError(err)

	r := updated.Recipe
	s.Equal("Crepes", r.Name, "omitted scalar fields keep their value")
	s.Equal(15, r.CookingTime)
	s.Require().Len(r.Ingredients, 1)
	s.Equal(milk, r.Ingredients[0].ProductID)
	s.Equal(250, r.Ingredients[0].Amount)
	s.Require().Len(r.Tags, 1)
	s.Equal("dinner", r.Tags[0].Slug)

	s.Equal(int64(1), s.count(&models.IngredientLine{}, "recipe_id = ?", id))
	s.Equal(int64(1), s.count(&models.RecipeTag{}, "recipe_id = ?", id))
}

func (s *storeSuite) TestUpdateRecipe_EmptyTagsClearSet() {
	author := s.newUser("author")
	flour := s.newProduct("flour", "g")
	tag := s.newTag("Lunch", "#111111", "lunch")

	created, err := s.recipes.Create(s.ctx, author, s.recipeInput("Toast", []IngredientInput{{ProductID: flour, Amount: 1}}, []int64{tag}))
	s.Require().NoError(err)

	updated, err := s.recipes.Update(s.ctx, author, created.Recipe.ID, RecipeInput{
		Ingredients: []IngredientInput{{ProductID: flour, Amount: 2}},
		TagIDs:      []int64{},
	})
	s.Require().NoError(err)
	s.Empty(updated.Recipe.Tags)
}

func (s *storeSuite) TestUpdateRecipe_OnlyAuthor() {
	author := s.newUser("author")
	other := s.newUser("other")
	flour := s.newProduct("flour", "g")
	id := s.newRecipe(author, "Scones", IngredientInput{ProductID: flour, Amount: 10})

	_, err := s.recipes.Update(s.ctx, other, id, RecipeInput{
		Name:        ptr("Stolen"),
		Ingredients: []IngredientInput{{ProductID: flour, Amount: 99}},
	})
	s.ErrorIs(err, shared.ErrForbidden)

	got, err := s.recipes.Get(s.ctx, author, id)
	s.Require().NoError(err)
	s.Equal("Scones", got.Recipe.Name)
	s.Equal(10, got.Recipe.Ingredients[0].Amount)
}

func (s *storeSuite) TestUpdateRecipe_DuplicateKeepsOldLines() {
	author := s.newUser("author")
	flour := s.newProduct("flour", "g")
	id := s.newRecipe(author, "Rolls", IngredientInput{ProductID: flour, Amount: 10})

	_, err := s.recipes.Update(s.ctx, author, id, RecipeInput{
		Ingredients: []IngredientInput{{ProductID: flour, Amount: 1}, {ProductID: flour, Amount: 2}},
	})
	s.ErrorIs(err, shared.ErrValidation)
	s.Equal(int64(1), s.count(&models.IngredientLine{}, "recipe_id = ? AND amount = 10", id))
}

func (s *storeSuite) TestUpdateRecipe_NotFound() {
	author := s.newUser("author")
	_, err := s.recipes.Update(s.ctx, author, 12345, RecipeInput{})
	s.ErrorIs(err, shared.ErrNotFound)
}

func (s *storeSuite) TestDeleteRecipe_RemovesRelations() {
	author := s.newUser("author")
	fan := s.newUser("fan")
	id := s.newRecipe(author, "Pie")

	_, err := s.favorites.Add(s.ctx, fan, id)
	s.Require().NoError(err)
	_, err = s.cart.Add(s.ctx, fan, id)
	s.Require().NoError(err)

	s.ErrorIs(s.recipes.Delete(s.ctx, fan, id), shared.ErrForbidden)
	s.Require().NoError(s.recipes.Delete(s.ctx, author, id))

	s.Zero(s.count(&models.Recipe{}, ""))
	s.Zero(s.count(&models.IngredientLine{}, ""))
	s.Zero(s.count(&models.Favorite{}, ""))
	s.Zero(s.count(&models.BasketItem{}, ""))

	_, err = s.recipes.Get(s.ctx, author, id)
	s.ErrorIs(err, shared.ErrNotFound)
}

func (s *storeSuite) TestListRecipes_FiltersAndOrder() {
	alice := s.newUser("alice")
	bob := s.newUser("bob")
	viewer := s.newUser("viewer")
	flour := s.newProduct("flour", "g")
	breakfast := s.newTag("Breakfast", "#E26C2D", "breakfast")
	dinner := s.newTag("Dinner", "#49B64E", "dinner")
	lunch := s.newTag("Lunch", "#8775D2", "lunch")

	mk := func(author shared.Viewer, name string, tags ...int64) int64 {
		v, err := s.recipes.Create(s.ctx, author, s.recipeInput(name, []IngredientInput{{ProductID: flour, Amount: 1}}, tags))
		s.Require().NoError(err)
		return v.Recipe.ID
	}
	first := mk(alice, "first", breakfast)
	second := mk(bob, "second", dinner)
	third := mk(alice, "third", lunch, breakfast)

	all, total, err := s.recipes.List(s.ctx, viewer, RecipeQuery{})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Equal([]int64{third, second, first}, recipeIDs(all), "newest first")

	byAuthor, total, err := s.recipes.List(s.ctx, viewer, RecipeQuery{AuthorID: alice.UserID})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal([]int64{third, first}, recipeIDs(byAuthor))

	byTags, _, err := s.recipes.List(s.ctx, viewer, RecipeQuery{TagSlugs: []string{"breakfast", "dinner"}})
	s.Require().NoError(err)
	s.Equal([]int64{third, second, first}, recipeIDs(byTags), "tags are OR-ed without duplicates")

	_, err = s.favorites.Add(s.ctx, viewer, second)
	s.Require().NoError(err)
	_, err = s.cart.Add(s.ctx, viewer, first)
	s.Require().NoError(err)

	favorited, total, err := s.recipes.List(s.ctx, viewer, RecipeQuery{OnlyFavorited: true})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal([]int64{second}, recipeIDs(favorited))
	s.True(favorited[0].Flags.IsFavorited)

	inCart, _, err := s.recipes.List(s.ctx, viewer, RecipeQuery{OnlyInShoppingCart: true})
	s.Require().NoError(err)
	s.Equal([]int64{first}, recipeIDs(inCart))
	s.True(inCart[0].Flags.IsInShoppingCart)

	anon, total, err := s.recipes.List(s.ctx, shared.Viewer{}, RecipeQuery{OnlyFavorited: true})
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(anon)

	page, total, err := s.recipes.List(s.ctx, viewer, RecipeQuery{PageRequest: PageRequest{Page: 2, Limit: 2}})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Equal([]int64{first}, recipeIDs(page))
}

func (s *storeSuite) TestListRecipes_MalformedAuthorIgnored() {
	alice := s.newUser("alice")
	bob := s.newUser("bob")
	first := s.newRecipe(alice, "first")
	second := s.newRecipe(bob, "second")

	all, total, err := s.recipes.List(s.ctx, shared.Viewer{}, RecipeQuery{AuthorID: "abc"})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal([]int64{second, first}, recipeIDs(all))
}

func (s *storeSuite) TestListRecipes_AnonymousIssuesNoMembershipQueries() {
	author := s.newUser("author")
	fan := s.newUser("fan")
	id := s.newRecipe(author, "Stew")
	s.newRecipe(author, "Salad")
	_, err := s.favorites.Add(s.ctx, fan, id)
	s.Require().NoError(err)
	_, err = s.subscriptions.Subscribe(s.ctx, fan, author.UserID, 1)
	s.Require().NoError(err)

	s.queries.reset()
	views, _, err := s.recipes.List(s.ctx, shared.Viewer{}, RecipeQuery{})
	s.Require().NoError(err)
	s.Require().Len(views, 2)
	for _, v := range views {
		s.Equal(RecipeFlags{}, v.Flags)
		s.False(v.AuthorSubscribed)
	}
	s.Zero(s.queries.membership.Load())

	got, err := s.recipes.Get(s.ctx, shared.Viewer{}, id)
	s.Require().NoError(err)
	s.False(got.Flags.IsFavorited)
	s.Zero(s.queries.membership.Load())
}

func (s *storeSuite) TestListRecipes_AnnotatedForViewer() {
	author := s.newUser("author")
	fan := s.newUser("fan")
	id := s.newRecipe(author, "Curry")
	_, err := s.favorites.Add(s.ctx, fan, id)
	s.Require().NoError(err)
	_, err = s.subscriptions.Subscribe(s.ctx, fan, author.UserID, 1)
	s.Require().NoError(err)

	views, _, err := s.recipes.List(s.ctx, fan, RecipeQuery{})
	s.Require().NoError(err)
	s.Require().Len(views, 1)
	s.True(views[0].Flags.IsFavorited)
	s.False(views[0].Flags.IsInShoppingCart)
	s.True(views[0].AuthorSubscribed)

	// the author never follows themselves
	own, err := s.recipes.Get(s.ctx, author, id)
	s.Require().NoError(err)
	s.False(own.AuthorSubscribed)
	s.False(own.Flags.IsFavorited)
}

func recipeIDs(views []RecipeView) []int64 {
	ids := make([]int64, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.Recipe.ID)
	}
	return ids
}
