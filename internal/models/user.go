package models

import (
	"time"
)

// Account is the credential record owned by the identity provider, kept in
// the local relational store. UID is the opaque identity handle everything
// else keys on.
type Account struct {
	ID           uint   `gorm:"primaryKey"`
	UID          string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
	Role         string `gorm:"default:'customer'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// User is the profile document stored in the users collection, keyed by the
// identity id and mutated via partial merge.
type User struct {
	UID             string    `json:"uid" bson:"uid"`
	Name            string    `json:"name" bson:"name"`
	Email           string    `json:"email" bson:"email"`
	Role            string    `json:"role" bson:"role"`
	Phone           string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Address         string    `json:"address,omitempty" bson:"address,omitempty"`
	Bio             string    `json:"bio,omitempty" bson:"bio,omitempty"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty" bson:"profileImageUrl,omitempty"`
	Favorites       []int     `json:"favorites" bson:"favorites"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
}

// Feedback is a user-submitted rating and comment. Stored remotely when an
// identity is present, locally otherwise.
type Feedback struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"userId,omitempty" bson:"userId,omitempty"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
