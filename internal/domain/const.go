package domain

import "time"

const (
	// CredentialCookie carries the signed credential between requests.
	CredentialCookie = "user_token"
	// CredentialMaxAge bounds the cookie lifetime; the token expiry matches it.
	CredentialMaxAge = 24 * time.Hour
)

// Upload folders on the blob store.
const (
	FolderProfile    = "profile"
	FolderBackground = "background"
	FolderThread     = "thread"
	FolderReply      = "reply"
)

// Follow list selectors.
const (
	FollowListFollowers = "followers"
	FollowListFollowing = "following"
)
