package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/circle-app/circle-server/internal/domain"
)

type edge struct{ actor, target string }

type mockEdgeStore struct {
	mu        sync.Mutex
	edges     map[edge]bool
	findErr   error
	createErr error
	countErr  error
	created   int
	deleted   int
}

func newMockEdgeStore() *mockEdgeStore {
	return &mockEdgeStore{edges: map[edge]bool{}}
}

func (m *mockEdgeStore) Find(ctx context.Context, actorID, targetID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return false, m.findErr
	}
	return m.edges[edge{actorID, targetID}], nil
}

func (m *mockEdgeStore) Create(ctx context.Context, actorID, targetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	key := edge{actorID, targetID}
	if m.edges[key] {
		return domain.Conflict("edge exists")
	}
	m.edges[key] = true
	m.created++
	return nil
}

func (m *mockEdgeStore) Delete(ctx context.Context, actorID, targetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.edges, edge{actorID, targetID})
	m.deleted++
	return nil
}

func (m *mockEdgeStore) CountByTarget(ctx context.Context, targetID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	var n int64
	for e := range m.edges {
		if e.target == targetID {
			n++
		}
	}
	return n, nil
}

type mockFollowRepo struct {
	*mockEdgeStore
	users *mockUserRepo
}

func newMockFollowRepo(users *mockUserRepo) *mockFollowRepo {
	return &mockFollowRepo{mockEdgeStore: newMockEdgeStore(), users: users}
}

func (m *mockFollowRepo) CountByActor(ctx context.Context, followerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for e := range m.edges {
		if e.actor == followerID {
			n++
		}
	}
	return n, nil
}

func (m *mockFollowRepo) Followers(ctx context.Context, userID string) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for e := range m.edges {
		if e.target == userID {
			out = append(out, m.users.byID[e.actor])
		}
	}
	return out, nil
}

func (m *mockFollowRepo) Following(ctx context.Context, userID string) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for e := range m.edges {
		if e.actor == userID {
			out = append(out, m.users.byID[e.target])
		}
	}
	return out, nil
}

func (m *mockFollowRepo) FollowedAmong(ctx context.Context, followerID string, candidates []string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]bool{}
	for _, c := range candidates {
		if m.edges[edge{followerID, c}] {
			out[c] = true
		}
	}
	return out, nil
}

type mockUserRepo struct {
	byID      map[string]domain.User
	createErr error
	updates   []domain.ProfileUpdate
}

func newMockUserRepo(users ...domain.User) *mockUserRepo {
	m := &mockUserRepo{byID: map[string]domain.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.byID[user.ID] = user
	return nil
}

func (m *mockUserRepo) find(match func(domain.User) bool) (domain.User, error) {
	for _, u := range m.byID {
		if match(u) {
			return u, nil
		}
	}
	return domain.User{}, domain.NotFoundError{Resource: "user"}
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (domain.User, error) {
	return m.find(func(u domain.User) bool { return u.ID == id })
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Email == email })
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Username == username })
}

func (m *mockUserRepo) FindByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Email == identifier || u.Username == identifier })
}

func (m *mockUserRepo) Update(ctx context.Context, id string, update domain.ProfileUpdate) (domain.User, error) {
	m.updates = append(m.updates, update)
	u, ok := m.byID[id]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	if update.FullName != nil {
		u.FullName = *update.FullName
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Bio != nil {
		u.Bio = update.Bio
	}
	if update.PhotoProfile != nil {
		u.PhotoProfile = update.PhotoProfile
	}
	m.byID[id] = u
	return u, nil
}

func (m *mockUserRepo) Search(ctx context.Context, keyword, excludeID string, limit int) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.byID {
		if u.ID != excludeID && strings.Contains(strings.ToLower(u.Username), strings.ToLower(keyword)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) Suggest(ctx context.Context, followerID string, limit int) ([]domain.User, error) {
	return nil, nil
}

type mockThreadRepo struct {
	threads   map[string]domain.Thread
	created   []domain.Thread
	createErr error
}

func newMockThreadRepo(threads ...domain.Thread) *mockThreadRepo {
	m := &mockThreadRepo{threads: map[string]domain.Thread{}}
	for _, t := range threads {
		m.threads[t.ID] = t
	}
	return m
}

func (m *mockThreadRepo) Create(ctx context.Context, thread domain.Thread) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.threads[thread.ID] = thread
	m.created = append(m.created, thread)
	return nil
}

func (m *mockThreadRepo) FindByID(ctx context.Context, id string) (domain.Thread, error) {
	t, ok := m.threads[id]
	if !ok {
		return domain.Thread{}, domain.NotFoundError{Resource: "thread"}
	}
	return t, nil
}

func (m *mockThreadRepo) View(ctx context.Context, id, viewerID string) (domain.ThreadView, error) {
	t, err := m.FindByID(ctx, id)
	if err != nil {
		return domain.ThreadView{}, err
	}
	return domain.ThreadView{ID: t.ID, Content: t.Content}, nil
}

func (m *mockThreadRepo) List(ctx context.Context, viewerID string, filter domain.ThreadFilter) ([]domain.ThreadView, error) {
	var out []domain.ThreadView
	for _, t := range m.threads {
		if filter.AuthorID == "" || t.CreatedBy == filter.AuthorID {
			out = append(out, domain.ThreadView{ID: t.ID, Content: t.Content})
		}
	}
	return out, nil
}

type mockReplyRepo struct {
	created []domain.Reply
}

func (m *mockReplyRepo) Create(ctx context.Context, reply domain.Reply) error {
	m.created = append(m.created, reply)
	return nil
}

func (m *mockReplyRepo) ListByThread(ctx context.Context, threadID string) ([]domain.ReplyView, error) {
	var out []domain.ReplyView
	for _, r := range m.created {
		if r.ThreadID == threadID {
			out = append(out, domain.ReplyView{ID: r.ID, Content: r.Content})
		}
	}
	return out, nil
}

type mockBlobStore struct {
	puts []string
	err  error
}

func (m *mockBlobStore) Put(ctx context.Context, folder, filename string, body io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	path := "/uploads/" + folder + "/" + filename
	m.puts = append(m.puts, path)
	return path, nil
}

type publishedEvent struct {
	event   string
	payload any
}

type mockNotifier struct {
	events []publishedEvent
	err    error
}

func (m *mockNotifier) Publish(ctx context.Context, event string, payload any) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, publishedEvent{event, payload})
	return nil
}

type mockLimiter struct {
	failures   map[string]int
	max        int
	successErr error
}

func newMockLimiter(max int) *mockLimiter {
	return &mockLimiter{failures: map[string]int{}, max: max}
}

func (m *mockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return m.failures[key] < m.max, nil
}

func (m *mockLimiter) Failure(ctx context.Context, key string) error {
	m.failures[key]++
	return nil
}

func (m *mockLimiter) Success(ctx context.Context, key string) error {
	if m.successErr != nil {
		return m.successErr
	}
	delete(m.failures, key)
	return nil
}

type mockIssuer struct{}

func (mockIssuer) Issue(user domain.User) (string, error) {
	return "token-" + user.ID, nil
}

var errStoreDown = errors.New("store down")
