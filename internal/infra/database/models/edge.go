package models

import (
	"time"
)

// Like is unique per (user, thread).
type Like struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text"`
	UserID    string    `json:"userID" gorm:"type:text;not null;uniqueIndex:uniq_like_user_thread"`
	User      User      `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
	ThreadID  string    `json:"threadID" gorm:"type:text;not null;uniqueIndex:uniq_like_user_thread;index"`
	Thread    Thread    `json:"-" gorm:"foreignKey:ThreadID;references:ID;constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;autoCreateTime"`
}

// Following is keyed by the (follower, followed) pair.
type Following struct {
	FollowerID  string    `json:"followerID" gorm:"primaryKey;type:text"`
	Follower    User      `json:"-" gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE;"`
	FollowingID string    `json:"followingID" gorm:"primaryKey;type:text;index"`
	Followed    User      `json:"-" gorm:"foreignKey:FollowingID;references:ID;constraint:OnDelete:CASCADE;"`
	CreatedAt   time.Time `json:"createdAt" gorm:"not null;autoCreateTime"`
}
