package model

import "time"

type Column struct {
	ID        string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	Name      string    `json:"name" bson:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type ColumnPatch struct {
	Name *string
}

func (p ColumnPatch) Empty() bool {
	return p.Name == nil
}
