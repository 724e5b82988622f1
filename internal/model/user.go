package model

import "time"

type User struct {
	ID          string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	Name        string    `json:"name" bson:"name" gorm:"uniqueIndex;not null;size:13"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	ImageURL    string    `json:"imageURL,omitempty" bson:"imageURL,omitempty" gorm:"column:image_url"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// UserPatch holds the fields of a partial user update. Nil fields are left untouched.
type UserPatch struct {
	Name        *string
	Description *string
	ImageURL    *string
}

func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.ImageURL == nil
}
