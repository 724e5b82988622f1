package model

import "time"

type Tag struct {
	ID        string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	Name      string    `json:"name" bson:"name" gorm:"not null"`
	Color     string    `json:"color,omitempty" bson:"color,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type TagPatch struct {
	Name  *string
	Color *string
}

func (p TagPatch) Empty() bool {
	return p.Name == nil && p.Color == nil
}
