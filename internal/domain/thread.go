package domain

import "time"

// Thread is a top-level post.
type Thread struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Image     *string   `json:"image"`
	CreatedBy string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Reply is a post attached to exactly one thread.
type Reply struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// ThreadView is a thread with its author and engagement counters as seen by
// one viewer.
type ThreadView struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	Image     *string     `json:"image"`
	CreatedAt time.Time   `json:"created_at"`
	User      UserSummary `json:"user"`
	Likes     int64       `json:"likes"`
	Replies   int64       `json:"reply"`
	IsLiked   bool        `json:"isLiked"`
}

type ReplyView struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	Image     *string     `json:"image"`
	CreatedAt time.Time   `json:"created_at"`
	User      UserSummary `json:"user"`
}

// ThreadDetail is a thread together with its replies, newest first.
type ThreadDetail struct {
	ThreadView
	ReplyList []ReplyView `json:"replies"`
}

// ThreadFilter narrows a thread listing. Zero values mean no restriction.
type ThreadFilter struct {
	AuthorID string
	Limit    int
	Offset   int
}

// ToggleResult is the outcome of flipping a like or follow edge.
type ToggleResult struct {
	Exists bool
	Count  int64
}
