package models

// IngredientLine is one product with its amount inside one recipe.
// A recipe lists every product at most once.
type IngredientLine struct {
	ID        int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	RecipeID  int64 `json:"recipe_id" gorm:"not null;uniqueIndex:idx_ingredient_lines_recipe_product"`
	ProductID int64 `json:"product_id" gorm:"not null;uniqueIndex:idx_ingredient_lines_recipe_product"`
	Amount    int   `json:"amount" gorm:"not null;check:chk_ingredient_lines_amount,amount >= 1"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT;"`
}

func (IngredientLine) TableName() string {
	return "ingredient_lines"
}
