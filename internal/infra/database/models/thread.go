package models

import (
	"time"
)

type Thread struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Image     *string   `json:"image" gorm:"type:text"`
	CreatedBy string    `json:"createdBy" gorm:"type:text;not null;index"`
	Author    User      `json:"-" gorm:"foreignKey:CreatedBy;references:ID;constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;index"`
}

type Reply struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text"`
	ThreadID  string    `json:"threadID" gorm:"type:text;not null;index"`
	Thread    Thread    `json:"-" gorm:"foreignKey:ThreadID;references:ID;constraint:OnDelete:CASCADE;"`
	UserID    string    `json:"userID" gorm:"type:text;not null"`
	User      User      `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Image     *string   `json:"image" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}
