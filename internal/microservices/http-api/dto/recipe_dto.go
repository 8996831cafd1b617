package dto

import (
	"recipehub/internal/media"
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/service"
)

// IngredientAmountRequest is one line of a recipe write payload; id is a product id.
type IngredientAmountRequest struct {
	ID     int64 `json:"id" binding:"required"`
	Amount int   `json:"amount" binding:"required,min=1"`
}

// RecipeWriteRequest is the body of POST and PATCH /api/recipes. Ingredients and tags are
// always required and replace the stored sets; the scalar fields may be omitted on PATCH.
type RecipeWriteRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients" binding:"required,min=1,dive"`
	Tags        []int64                   `json:"tags" binding:"required"`
	Image       *string                   `json:"image"`
	Name        *string                   `json:"name" binding:"omitempty,max=200"`
	Text        *string                   `json:"text"`
	CookingTime *int                      `json:"cooking_time" binding:"omitempty,min=1"`
}

func (r RecipeWriteRequest) ToInput() service.RecipeInput {
	lines := make([]service.IngredientInput, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		lines = append(lines, service.IngredientInput{ProductID: ing.ID, Amount: ing.Amount})
	}
	return service.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		Image:       r.Image,
		Ingredients: lines,
		TagIDs:      r.Tags,
	}
}

type IngredientAmountResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full read representation of a recipe.
type RecipeResponse struct {
	ID               int64                      `json:"id"`
	Tags             []TagResponse              `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []IngredientAmountResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// RecipeShortResponse is the compact recipe of author previews.
type RecipeShortResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// RecipeToggleResponse answers a favorite or shopping cart add with the recipe's
// state after the change.
type RecipeToggleResponse struct {
	RecipeShortResponse
	IsFavorited      bool `json:"is_favorited"`
	IsInShoppingCart bool `json:"is_in_shopping_cart"`
}

func FromModelToRecipeToggleResponse(v service.RecipeView, mediaURL string) RecipeToggleResponse {
	return RecipeToggleResponse{
		RecipeShortResponse: FromModelToRecipeShortResponse(*v.Recipe, mediaURL),
		IsFavorited:         v.Flags.IsFavorited,
		IsInShoppingCart:    v.Flags.IsInShoppingCart,
	}
}

func FromModelToRecipeResponse(v service.RecipeView, mediaURL string) RecipeResponse {
	r := v.Recipe
	resp := RecipeResponse{
		ID:               r.ID,
		Tags:             make([]TagResponse, 0, len(r.Tags)),
		Ingredients:      make([]IngredientAmountResponse, 0, len(r.Ingredients)),
		IsFavorited:      v.Flags.IsFavorited,
		IsInShoppingCart: v.Flags.IsInShoppingCart,
		Name:             r.Name,
		Image:            media.URL(mediaURL, r.Image),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
	if r.Author != nil {
		resp.Author = FromModelToUserResponse(r.Author, v.AuthorSubscribed)
	}
	for _, t := range r.Tags {
		resp.Tags = append(resp.Tags, FromModelToTagResponse(t))
	}
	for _, line := range r.Ingredients {
		item := IngredientAmountResponse{ID: line.ProductID, Amount: line.Amount}
		if line.Product != nil {
			item.Name = line.Product.Name
			item.MeasurementUnit = line.Product.Unit
		}
		resp.Ingredients = append(resp.Ingredients, item)
	}
	return resp
}

func FromModelToRecipeShortResponse(r models.Recipe, mediaURL string) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       media.URL(mediaURL, r.Image),
		CookingTime: r.CookingTime,
	}
}
