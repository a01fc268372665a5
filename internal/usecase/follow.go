package usecase

import (
	"context"
	"strings"

	"github.com/circle-app/circle-server/internal/domain"
)

type FollowUsecase struct {
	follows         FollowRepository
	users           UserRepository
	allowSelfFollow bool
}

func NewFollowUsecase(follows FollowRepository, users UserRepository, allowSelfFollow bool) *FollowUsecase {
	return &FollowUsecase{
		follows:         follows,
		users:           users,
		allowSelfFollow: allowSelfFollow,
	}
}

// Toggle follows targetID for me, or unfollows when already following.
// The count in the result is targetID's follower count.
func (uc *FollowUsecase) Toggle(ctx context.Context, me domain.Identity, targetID string) (domain.ToggleResult, error) {
	ctx, span := tracer.Start(ctx, "Follow.Usecase.Toggle")
	defer span.End()

	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return domain.ToggleResult{}, domain.Validation("target id is required")
	}
	if targetID == me.ID && !uc.allowSelfFollow {
		return domain.ToggleResult{}, domain.Validation("cannot follow yourself")
	}

	if _, err := uc.users.FindByID(ctx, targetID); err != nil {
		span.RecordError(err)
		return domain.ToggleResult{}, err
	}

	result, err := toggleEdge(ctx, uc.follows, me.ID, targetID)
	if err != nil {
		span.RecordError(err)
		return domain.ToggleResult{}, err
	}
	return result, nil
}

// List returns the followers or the followings of ownerID, each flagged with
// whether viewerID follows that user.
func (uc *FollowUsecase) List(ctx context.Context, viewerID, ownerID, kind string) ([]domain.UserListing, error) {
	ctx, span := tracer.Start(ctx, "Follow.Usecase.List")
	defer span.End()

	if strings.TrimSpace(ownerID) == "" {
		return nil, domain.Validation("user id is required")
	}

	var (
		users []domain.User
		err   error
	)
	switch kind {
	case domain.FollowListFollowers:
		users, err = uc.follows.Followers(ctx, ownerID)
	case domain.FollowListFollowing:
		users, err = uc.follows.Following(ctx, ownerID)
	case "":
		return nil, domain.Validation("missing type query parameter")
	default:
		return nil, domain.Validation("invalid type query parameter")
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return annotateFollowing(ctx, uc.follows, viewerID, users)
}

func annotateFollowing(ctx context.Context, follows FollowRepository, viewerID string, users []domain.User) ([]domain.UserListing, error) {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	followed := map[string]bool{}
	if viewerID != "" && len(ids) > 0 {
		var err error
		followed, err = follows.FollowedAmong(ctx, viewerID, ids)
		if err != nil {
			return nil, err
		}
	}

	listing := make([]domain.UserListing, 0, len(users))
	for _, u := range users {
		listing = append(listing, domain.UserListing{
			ID:             u.ID,
			Username:       u.Username,
			FullName:       u.FullName,
			ProfilePicture: u.PhotoProfile,
			IsFollowing:    followed[u.ID],
		})
	}
	return listing, nil
}
