package usecase

import (
	"context"
	"io"

	"github.com/circle-app/circle-server/internal/domain"
)

// UserRepository defines persistence/lookup for accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	// FindByIdentifier matches either the email or the username.
	FindByIdentifier(ctx context.Context, identifier string) (domain.User, error)
	Update(ctx context.Context, id string, update domain.ProfileUpdate) (domain.User, error)
	Search(ctx context.Context, keyword, excludeID string, limit int) ([]domain.User, error)
	// Suggest returns random users that followerID neither is nor follows.
	Suggest(ctx context.Context, followerID string, limit int) ([]domain.User, error)
}

// ThreadRepository defines persistence/lookup for threads.
type ThreadRepository interface {
	Create(ctx context.Context, thread domain.Thread) error
	FindByID(ctx context.Context, id string) (domain.Thread, error)
	View(ctx context.Context, id, viewerID string) (domain.ThreadView, error)
	List(ctx context.Context, viewerID string, filter domain.ThreadFilter) ([]domain.ThreadView, error)
}

// ReplyRepository defines persistence/lookup for replies.
type ReplyRepository interface {
	Create(ctx context.Context, reply domain.Reply) error
	ListByThread(ctx context.Context, threadID string) ([]domain.ReplyView, error)
}

// EdgeStore is the store contract the toggle algorithm runs against.
// Create must fail with domain.ErrConflict when the edge already exists.
type EdgeStore interface {
	Find(ctx context.Context, actorID, targetID string) (bool, error)
	Create(ctx context.Context, actorID, targetID string) error
	Delete(ctx context.Context, actorID, targetID string) error
	CountByTarget(ctx context.Context, targetID string) (int64, error)
}

// LikeRepository stores (user, thread) like edges.
type LikeRepository interface {
	EdgeStore
}

// FollowRepository stores (follower, followed) edges.
type FollowRepository interface {
	EdgeStore
	CountByActor(ctx context.Context, followerID string) (int64, error)
	Followers(ctx context.Context, userID string) ([]domain.User, error)
	Following(ctx context.Context, userID string) ([]domain.User, error)
	// FollowedAmong reports which of candidates followerID follows.
	FollowedAmong(ctx context.Context, followerID string, candidates []string) (map[string]bool, error)
}

// BlobStore keeps uploaded binaries and hands back a public path.
type BlobStore interface {
	Put(ctx context.Context, folder, filename string, body io.Reader) (string, error)
}

// Notifier fans an event out to connected observers.
type Notifier interface {
	Publish(ctx context.Context, event string, payload any) error
}

// Limiter throttles repeated login failures per key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Failure(ctx context.Context, key string) error
	Success(ctx context.Context, key string) error
}

// TokenIssuer signs credentials for an account.
type TokenIssuer interface {
	Issue(user domain.User) (string, error)
}

// Upload is a user-supplied file waiting to be stored.
type Upload struct {
	Filename string
	Body     io.Reader
}
