package models

type Tag struct {
	ID    int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name  string `json:"name" gorm:"uniqueIndex;not null;size:200"`
	Color string `json:"color" gorm:"uniqueIndex;not null;size:7"`
	Slug  string `json:"slug" gorm:"uniqueIndex;not null;size:200"`
}

func (Tag) TableName() string {
	return "tags"
}
