package model

import "time"

// Credential is a login with its bcrypt password hash and the access token
// handed out on signup and signin.
type Credential struct {
	ID           string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	Login        string    `json:"login" bson:"login" gorm:"uniqueIndex;not null;size:20"`
	PasswordHash string    `json:"-" bson:"password" gorm:"column:password_hash;not null"`
	AccessToken  string    `json:"accessToken" bson:"accessToken" gorm:"uniqueIndex;not null"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}
