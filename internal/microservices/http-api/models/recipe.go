package models

import "time"

type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID    string    `json:"author_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"not null;size:200"`
	Text        string    `json:"text" gorm:"not null;type:text"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1"`
	Image       string    `json:"image" gorm:"not null;size:255"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime;index"`

	// associations
	Author      *User            `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Tags        []Tag            `json:"tags,omitempty" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE;"`
	Ingredients []IngredientLine `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;"`

	// viewer-relative flags, filled only by list queries annotated for a viewer
	IsFavorited        bool `json:"-" gorm:"->;-:migration"`
	IsInShoppingCart   bool `json:"-" gorm:"->;-:migration"`
	IsAuthorSubscribed bool `json:"-" gorm:"->;-:migration"`
}

func (Recipe) TableName() string {
	return "recipes"
}
