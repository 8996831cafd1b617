package models

import "time"

// Subscription is a follow edge from a subscriber to a recipe author.
type Subscription struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	SubscriberID string    `json:"subscriber_id" gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair;check:chk_subscriptions_not_self,subscriber_id <> author_id"`
	AuthorID     string    `json:"author_id" gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	Subscriber *User `json:"subscriber,omitempty" gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE;"`
	Author     *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// All returns every table model in dependency order.
func All() []any {
	return []any{
		&User{},
		&Product{},
		&Tag{},
		&Recipe{},
		&IngredientLine{},
		&Favorite{},
		&BasketItem{},
		&Subscription{},
	}
}
