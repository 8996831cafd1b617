package models

// Product is an entry of the ingredient catalog. Rows are reference data and cannot be
// deleted while any ingredient line points at them.
type Product struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:200"`
	Unit string `json:"measurement_unit" gorm:"not null;size:200"`
}

func (Product) TableName() string {
	return "products"
}
