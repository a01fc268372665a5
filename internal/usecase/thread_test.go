package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/circle-app/circle-server"
	"github.com/circle-app/circle-server/internal/domain"
)

var alice = domain.Identity{ID: "alice", Username: "alice", DisplayName: "Alice"}

func newThreadFixture() (*ThreadUsecase, *mockThreadRepo, *mockReplyRepo, *mockBlobStore, *mockNotifier) {
	threads := newMockThreadRepo()
	replies := &mockReplyRepo{}
	blobs := &mockBlobStore{}
	notifier := &mockNotifier{}
	users := newMockUserRepo(domain.User{ID: "alice", Username: "alice"})
	return NewThreadUsecase(threads, replies, users, blobs, notifier), threads, replies, blobs, notifier
}

func TestThreadCreatePublishesAfterWrite(t *testing.T) {
	uc, threads, _, _, notifier := newThreadFixture()

	thread, err := uc.Create(context.Background(), alice, PostInput{Content: "  hello  "})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if thread.Content != "hello" || thread.CreatedBy != "alice" {
		t.Fatalf("unexpected thread %+v", thread)
	}
	if len(threads.created) != 1 {
		t.Fatalf("expected one stored thread got %d", len(threads.created))
	}
	if len(notifier.events) != 1 || notifier.events[0].event != circle.EventNewThread {
		t.Fatalf("expected one new-thread event got %+v", notifier.events)
	}
	view, ok := notifier.events[0].payload.(domain.ThreadView)
	if !ok || view.ID != thread.ID || view.User.Username != "alice" {
		t.Fatalf("unexpected payload %+v", notifier.events[0].payload)
	}
}

func TestThreadCreateRejectsEmptyPost(t *testing.T) {
	uc, threads, _, blobs, notifier := newThreadFixture()

	_, err := uc.Create(context.Background(), alice, PostInput{Content: "   "})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation got %v", err)
	}
	if len(threads.created) != 0 || len(blobs.puts) != 0 || len(notifier.events) != 0 {
		t.Fatalf("nothing should be written or published")
	}
}

func TestThreadCreateImageOnly(t *testing.T) {
	uc, _, _, blobs, _ := newThreadFixture()

	thread, err := uc.Create(context.Background(), alice, PostInput{
		Image: &Upload{Filename: "cat.png", Body: strings.NewReader("png")},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if thread.Image == nil || *thread.Image != blobs.puts[0] {
		t.Fatalf("expected stored image path got %v", thread.Image)
	}
}

func TestThreadCreateStoreFailureDoesNotPublish(t *testing.T) {
	uc, threads, _, _, notifier := newThreadFixture()
	threads.createErr = errStoreDown

	_, err := uc.Create(context.Background(), alice, PostInput{Content: "hello"})
	if domain.KindOf(err) != domain.KindDependency {
		t.Fatalf("expected dependency got %v", err)
	}
	if len(notifier.events) != 0 {
		t.Fatalf("no event expected after a failed write")
	}
}

func TestThreadCreateStoreFailureKeepsSharedBlob(t *testing.T) {
	uc, threads, _, blobs, notifier := newThreadFixture()

	first, err := uc.Create(context.Background(), alice, PostInput{
		Image: &Upload{Filename: "cat.png", Body: strings.NewReader("png")},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	threads.createErr = errStoreDown
	_, err = uc.Create(context.Background(), alice, PostInput{
		Image: &Upload{Filename: "cat.png", Body: strings.NewReader("png")},
	})
	if domain.KindOf(err) != domain.KindDependency {
		t.Fatalf("expected dependency got %v", err)
	}
	if len(blobs.puts) != 2 || blobs.puts[1] != *first.Image {
		t.Fatalf("expected the shared blob path to stay stored got %v", blobs.puts)
	}
	if len(notifier.events) != 1 {
		t.Fatalf("only the successful write should publish got %d", len(notifier.events))
	}
}

func TestThreadCreateBlobFailure(t *testing.T) {
	uc, threads, _, blobs, _ := newThreadFixture()
	blobs.err = errStoreDown

	_, err := uc.Create(context.Background(), alice, PostInput{
		Content: "hello",
		Image:   &Upload{Filename: "a.png", Body: strings.NewReader("x")},
	})
	if domain.KindOf(err) != domain.KindDependency {
		t.Fatalf("expected dependency got %v", err)
	}
	if len(threads.created) != 0 {
		t.Fatalf("thread should not be stored")
	}
}

func TestThreadCreateNotifyFailureIsSwallowed(t *testing.T) {
	uc, threads, _, _, notifier := newThreadFixture()
	notifier.err = errors.New("broker down")

	if _, err := uc.Create(context.Background(), alice, PostInput{Content: "hello"}); err != nil {
		t.Fatalf("create should succeed: %v", err)
	}
	if len(threads.created) != 1 {
		t.Fatalf("thread should be stored")
	}
}

func TestThreadReply(t *testing.T) {
	uc, threads, replies, _, notifier := newThreadFixture()
	threads.threads["t1"] = domain.Thread{ID: "t1", Content: "root"}

	reply, err := uc.Reply(context.Background(), alice, "t1", PostInput{Content: "hi"})
	if err != nil {
		t.Fatalf("reply failed: %v", err)
	}
	if reply.ThreadID != "t1" || reply.UserID != "alice" {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if len(replies.created) != 1 {
		t.Fatalf("expected one stored reply")
	}
	if len(notifier.events) != 1 || notifier.events[0].event != circle.EventNewReply {
		t.Fatalf("expected one new-reply event got %+v", notifier.events)
	}

	detail, err := uc.Get(context.Background(), "t1", nil)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(detail.ReplyList) != 1 {
		t.Fatalf("expected one reply in detail got %d", len(detail.ReplyList))
	}
}

func TestThreadReplyValidation(t *testing.T) {
	uc, _, replies, _, _ := newThreadFixture()

	_, err := uc.Reply(context.Background(), alice, "missing", PostInput{Content: "hi"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}

	_, err = uc.Reply(context.Background(), alice, "t1", PostInput{Content: ""})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation got %v", err)
	}
	if len(replies.created) != 0 {
		t.Fatalf("no reply should be stored")
	}
}

func TestThreadListRejectsNegativePaging(t *testing.T) {
	uc, _, _, _, _ := newThreadFixture()

	_, err := uc.List(context.Background(), "", domain.ThreadFilter{Limit: -1})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation got %v", err)
	}
}

func TestThreadListByUnknownUsername(t *testing.T) {
	uc, _, _, _, _ := newThreadFixture()

	_, err := uc.ListByUsername(context.Background(), "", "nobody")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}
