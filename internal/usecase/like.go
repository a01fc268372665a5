package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/circle-app/circle-server/internal/domain"
)

var tracer = otel.Tracer("usecase")

type LikeUsecase struct {
	likes   LikeRepository
	threads ThreadRepository
}

func NewLikeUsecase(likes LikeRepository, threads ThreadRepository) *LikeUsecase {
	return &LikeUsecase{likes: likes, threads: threads}
}

// Toggle likes threadID for me, or removes the like if it is already there.
func (uc *LikeUsecase) Toggle(ctx context.Context, me domain.Identity, threadID string) (domain.ToggleResult, error) {
	ctx, span := tracer.Start(ctx, "Like.Usecase.Toggle")
	defer span.End()

	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return domain.ToggleResult{}, domain.Validation("thread id is required")
	}

	if _, err := uc.threads.FindByID(ctx, threadID); err != nil {
		span.RecordError(err)
		return domain.ToggleResult{}, err
	}

	result, err := toggleEdge(ctx, uc.likes, me.ID, threadID)
	if err != nil {
		span.RecordError(err)
		return domain.ToggleResult{}, err
	}

	span.SetAttributes(
		attribute.String("ThreadID", threadID),
		attribute.Bool("Liked", result.Exists),
	)
	return result, nil
}
