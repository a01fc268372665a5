package usecase

import (
	"context"
	"errors"

	"github.com/circle-app/circle-server/internal/domain"
)

// toggleEdge flips the (actorID, targetID) edge and reports whether it now
// exists together with the number of edges on targetID counted after the
// flip. The count is not isolated from concurrent toggles by other actors.
func toggleEdge(ctx context.Context, store EdgeStore, actorID, targetID string) (domain.ToggleResult, error) {
	exists, err := store.Find(ctx, actorID, targetID)
	if err != nil {
		return domain.ToggleResult{}, domain.Dependency(err, "failed to look up edge")
	}

	if exists {
		if err := store.Delete(ctx, actorID, targetID); err != nil {
			return domain.ToggleResult{}, domain.Dependency(err, "failed to delete edge")
		}
	} else {
		if err := store.Create(ctx, actorID, targetID); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				// a concurrent toggle from the same actor won the race
				return domain.ToggleResult{}, err
			}
			return domain.ToggleResult{}, domain.Dependency(err, "failed to create edge")
		}
	}

	count, err := store.CountByTarget(ctx, targetID)
	if err != nil {
		return domain.ToggleResult{}, domain.Dependency(err, "failed to count edges")
	}

	return domain.ToggleResult{Exists: !exists, Count: count}, nil
}
