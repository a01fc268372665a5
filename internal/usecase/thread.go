package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/circle-app/circle-server"
	"github.com/circle-app/circle-server/internal/domain"
)

// PostInput is the body of a new thread or reply.
type PostInput struct {
	Content string
	Image   *Upload
}

func (in PostInput) validate() (string, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && in.Image == nil {
		return "", domain.Validation("content or image is required")
	}
	return content, nil
}

type ThreadUsecase struct {
	threads  ThreadRepository
	replies  ReplyRepository
	users    UserRepository
	blobs    BlobStore
	notifier Notifier
	now      func() time.Time
}

func NewThreadUsecase(
	threads ThreadRepository,
	replies ReplyRepository,
	users UserRepository,
	blobs BlobStore,
	notifier Notifier,
) *ThreadUsecase {
	return &ThreadUsecase{
		threads:  threads,
		replies:  replies,
		users:    users,
		blobs:    blobs,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create stores a new thread by me and announces it as new-thread once the
// write has succeeded.
func (uc *ThreadUsecase) Create(ctx context.Context, me domain.Identity, input PostInput) (domain.Thread, error) {
	ctx, span := tracer.Start(ctx, "Thread.Usecase.Create")
	defer span.End()

	content, err := input.validate()
	if err != nil {
		return domain.Thread{}, err
	}

	image, err := storeUpload(ctx, uc.blobs, domain.FolderThread, input.Image)
	if err != nil {
		span.RecordError(err)
		return domain.Thread{}, err
	}

	thread := domain.Thread{
		ID:        uuid.NewString(),
		Content:   content,
		Image:     image,
		CreatedBy: me.ID,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.threads.Create(ctx, thread); err != nil {
		// blobs are content-addressed and may back other posts; a failed
		// insert leaves the stored image in place.
		span.RecordError(err)
		return domain.Thread{}, domain.Dependency(err, "failed to create thread")
	}

	publish(ctx, uc.notifier, circle.EventNewThread, domain.ThreadView{
		ID:        thread.ID,
		Content:   thread.Content,
		Image:     thread.Image,
		CreatedAt: thread.CreatedAt,
		User: domain.UserSummary{
			ID:             me.ID,
			Username:       me.Username,
			Name:           me.DisplayName,
			ProfilePicture: me.AvatarRef,
		},
	})

	return thread, nil
}

// List returns threads newest first, with viewerID's like state.
func (uc *ThreadUsecase) List(ctx context.Context, viewerID string, filter domain.ThreadFilter) ([]domain.ThreadView, error) {
	ctx, span := tracer.Start(ctx, "Thread.Usecase.List")
	defer span.End()

	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, domain.Validation("limit and offset must not be negative")
	}
	return uc.threads.List(ctx, viewerID, filter)
}

// ListByUsername returns the threads authored by username.
func (uc *ThreadUsecase) ListByUsername(ctx context.Context, viewerID, username string) ([]domain.ThreadView, error) {
	ctx, span := tracer.Start(ctx, "Thread.Usecase.ListByUsername")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.Validation("username is required")
	}

	user, err := uc.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return uc.threads.List(ctx, viewerID, domain.ThreadFilter{AuthorID: user.ID})
}

// Get returns one thread with its replies. viewer may be nil.
func (uc *ThreadUsecase) Get(ctx context.Context, id string, viewer *domain.Identity) (domain.ThreadDetail, error) {
	ctx, span := tracer.Start(ctx, "Thread.Usecase.Get")
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ThreadDetail{}, domain.Validation("thread id is required")
	}

	var viewerID string
	if viewer != nil {
		viewerID = viewer.ID
	}

	view, err := uc.threads.View(ctx, id, viewerID)
	if err != nil {
		return domain.ThreadDetail{}, err
	}

	replies, err := uc.replies.ListByThread(ctx, id)
	if err != nil {
		return domain.ThreadDetail{}, err
	}

	return domain.ThreadDetail{ThreadView: view, ReplyList: replies}, nil
}

// Reply stores a reply by me on threadID and announces it as new-reply.
func (uc *ThreadUsecase) Reply(ctx context.Context, me domain.Identity, threadID string, input PostInput) (domain.Reply, error) {
	ctx, span := tracer.Start(ctx, "Thread.Usecase.Reply")
	defer span.End()

	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return domain.Reply{}, domain.Validation("thread id is required")
	}
	content, err := input.validate()
	if err != nil {
		return domain.Reply{}, err
	}

	if _, err := uc.threads.FindByID(ctx, threadID); err != nil {
		return domain.Reply{}, err
	}

	image, err := storeUpload(ctx, uc.blobs, domain.FolderReply, input.Image)
	if err != nil {
		span.RecordError(err)
		return domain.Reply{}, err
	}

	reply := domain.Reply{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		UserID:    me.ID,
		Content:   content,
		Image:     image,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.replies.Create(ctx, reply); err != nil {
		// see Create: the stored image is kept.
		span.RecordError(err)
		return domain.Reply{}, domain.Dependency(err, "failed to create reply")
	}

	publish(ctx, uc.notifier, circle.EventNewReply, map[string]any{
		"thread_id": threadID,
		"reply": domain.ReplyView{
			ID:        reply.ID,
			Content:   reply.Content,
			Image:     reply.Image,
			CreatedAt: reply.CreatedAt,
			User: domain.UserSummary{
				ID:             me.ID,
				Username:       me.Username,
				Name:           me.DisplayName,
				ProfilePicture: me.AvatarRef,
			},
		},
	})

	return reply, nil
}

func storeUpload(ctx context.Context, blobs BlobStore, folder string, upload *Upload) (*string, error) {
	if upload == nil {
		return nil, nil
	}
	path, err := blobs.Put(ctx, folder, upload.Filename, upload.Body)
	if err != nil {
		return nil, domain.Dependency(err, "failed to store upload")
	}
	return &path, nil
}

// publish never fails the caller: the write it follows is already durable.
func publish(ctx context.Context, notifier Notifier, event string, payload any) {
	if notifier == nil {
		return
	}
	if err := notifier.Publish(ctx, event, payload); err != nil {
		slog.WarnContext(
			ctx, "failed to publish event",
			slog.String("event", event),
			slog.String("error", err.Error()),
			slog.String("module", "notifier"),
		)
	}
}
