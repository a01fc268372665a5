package usecase

import (
	"context"
	"strings"

	"github.com/circle-app/circle-server/internal/domain"
)

type SearchUsecase struct {
	users          UserRepository
	follows        FollowRepository
	searchLimit    int
	suggestedLimit int
}

func NewSearchUsecase(users UserRepository, follows FollowRepository, searchLimit, suggestedLimit int) *SearchUsecase {
	return &SearchUsecase{
		users:          users,
		follows:        follows,
		searchLimit:    searchLimit,
		suggestedLimit: suggestedLimit,
	}
}

// Search matches keyword against usernames and full names, case-insensitively,
// leaving me out of the results.
func (uc *SearchUsecase) Search(ctx context.Context, me domain.Identity, keyword string) ([]domain.UserListing, error) {
	ctx, span := tracer.Start(ctx, "Search.Usecase.Search")
	defer span.End()

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, domain.Validation("keyword is required")
	}

	users, err := uc.users.Search(ctx, keyword, me.ID, uc.searchLimit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return annotateFollowing(ctx, uc.follows, me.ID, users)
}

// Suggested picks random users that me does not follow yet.
func (uc *SearchUsecase) Suggested(ctx context.Context, me domain.Identity) ([]domain.UserListing, error) {
	ctx, span := tracer.Start(ctx, "Search.Usecase.Suggested")
	defer span.End()

	users, err := uc.users.Suggest(ctx, me.ID, uc.suggestedLimit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	listing := make([]domain.UserListing, 0, len(users))
	for _, u := range users {
		listing = append(listing, domain.UserListing{
			ID:             u.ID,
			Username:       u.Username,
			FullName:       u.FullName,
			ProfilePicture: u.PhotoProfile,
		})
	}
	return listing, nil
}

// Profile returns the public profile of username with follow counters.
func (uc *SearchUsecase) Profile(ctx context.Context, username string) (domain.PublicProfile, error) {
	ctx, span := tracer.Start(ctx, "Search.Usecase.Profile")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" {
		return domain.PublicProfile{}, domain.Validation("username is required")
	}

	user, err := uc.users.FindByUsername(ctx, username)
	if err != nil {
		return domain.PublicProfile{}, err
	}

	followers, err := uc.follows.CountByTarget(ctx, user.ID)
	if err != nil {
		return domain.PublicProfile{}, err
	}
	following, err := uc.follows.CountByActor(ctx, user.ID)
	if err != nil {
		return domain.PublicProfile{}, err
	}

	return domain.PublicProfile{
		ID:              user.ID,
		Email:           user.Email,
		Username:        user.Username,
		FullName:        user.FullName,
		Bio:             user.Bio,
		PhotoProfile:    user.PhotoProfile,
		BackgroundPhoto: user.BackgroundPhoto,
		CreatedAt:       user.CreatedAt,
		FollowersCount:  followers,
		FollowingCount:  following,
	}, nil
}
