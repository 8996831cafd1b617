package models

// RecipeTag is the join row behind Recipe.Tags. The table itself is created by the
// many2many relation; this model is used to write the links in bulk.
type RecipeTag struct {
	RecipeID int64 `json:"recipe_id" gorm:"primaryKey;autoIncrement:false"`
	TagID    int64 `json:"tag_id" gorm:"primaryKey;autoIncrement:false"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
