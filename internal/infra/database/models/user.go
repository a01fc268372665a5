package models

import (
	"time"
)

type User struct {
	ID              string    `json:"id" gorm:"primaryKey;type:text"`
	Username        string    `json:"username" gorm:"type:text;not null;uniqueIndex:uniq_user_username"`
	FullName        string    `json:"fullName" gorm:"type:text;not null"`
	Email           string    `json:"email" gorm:"type:text;not null;uniqueIndex:uniq_user_email"`
	Password        string    `json:"-" gorm:"type:text;not null"`
	PhotoProfile    *string   `json:"photoProfile" gorm:"type:text"`
	BackgroundPhoto *string   `json:"backgroundPhoto" gorm:"type:text"`
	Bio             *string   `json:"bio" gorm:"type:text"`
	CreatedAt       time.Time `json:"createdAt" gorm:"not null;autoCreateTime"`
}
