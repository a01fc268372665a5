package domain

import "time"

// User is an account as stored.
type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	PhotoProfile    *string   `json:"photo_profile"`
	BackgroundPhoto *string   `json:"backgroundPhoto"`
	Bio             *string   `json:"bio"`
	CreatedAt       time.Time `json:"created_at"`
}

// Identity is the trusted caller for the lifetime of one request.
type Identity struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Username    string  `json:"username"`
	DisplayName string  `json:"full_name"`
	AvatarRef   *string `json:"photo_profile"`
	CoverRef    *string `json:"backgroundPhoto"`
	Bio         *string `json:"bio"`
}

func (u User) Identity() Identity {
	return Identity{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		DisplayName: u.FullName,
		AvatarRef:   u.PhotoProfile,
		CoverRef:    u.BackgroundPhoto,
		Bio:         u.Bio,
	}
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		Name:           u.FullName,
		ProfilePicture: u.PhotoProfile,
	}
}

// UserSummary is the author block embedded in threads and replies.
type UserSummary struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	Name           string  `json:"name"`
	ProfilePicture *string `json:"profile_picture"`
}

// ProfileUpdate holds the fields a profile edit may change; nil means keep.
type ProfileUpdate struct {
	FullName        *string
	Username        *string
	Email           *string
	Bio             *string
	PhotoProfile    *string
	BackgroundPhoto *string
}

func (p ProfileUpdate) Empty() bool {
	return p.FullName == nil && p.Username == nil && p.Email == nil &&
		p.Bio == nil && p.PhotoProfile == nil && p.BackgroundPhoto == nil
}

// PublicProfile is what other users see of an account.
type PublicProfile struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	FullName        string    `json:"full_name"`
	Bio             *string   `json:"bio"`
	PhotoProfile    *string   `json:"photo_profile"`
	BackgroundPhoto *string   `json:"backgroundPhoto"`
	CreatedAt       time.Time `json:"created_at"`
	FollowersCount  int64     `json:"followers_count"`
	FollowingCount  int64     `json:"following_count"`
}

// UserListing is one row of a search, suggestion or follow list.
type UserListing struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	FullName       string  `json:"full_name"`
	ProfilePicture *string `json:"profile_picture"`
	IsFollowing    bool    `json:"isFollowing"`
}
