package dto

import (
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/service"
)

// RegisterRequest: payload of POST /api/users
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

func (r RegisterRequest) ToInput() service.RegisterInput {
	return service.RegisterInput{
		Email:     r.Email,
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Password:  r.Password,
	}
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// RegisterResponse echoes the created account without viewer-relative state.
type RegisterResponse struct {
	Email     string `json:"email"`
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type UserResponse struct {
	Email        string `json:"email"`
	ID           string `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// AuthorWithRecipesResponse is a followed author with a newest-first recipe preview.
type AuthorWithRecipesResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

func FromModelToRegisterResponse(u *models.User) RegisterResponse {
	return RegisterResponse{
		Email:     u.Email,
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func FromModelToUserResponse(u *models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

func FromViewToUserResponse(v service.UserView) UserResponse {
	return FromModelToUserResponse(v.User, v.IsSubscribed)
}

func FromViewToAuthorResponse(v service.AuthorView, mediaURL string) AuthorWithRecipesResponse {
	recipes := make([]RecipeShortResponse, 0, len(v.Recipes))
	for _, r := range v.Recipes {
		recipes = append(recipes, FromModelToRecipeShortResponse(r, mediaURL))
	}
	return AuthorWithRecipesResponse{
		UserResponse: FromModelToUserResponse(v.User, v.IsSubscribed),
		Recipes:      recipes,
		RecipesCount: v.RecipesCount,
	}
}
