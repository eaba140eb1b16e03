package services

import (
	"bytes"
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/snapgram/internal/common"
	"github.com/dmitrijs2005/snapgram/internal/logging"
	"github.com/dmitrijs2005/snapgram/internal/models"
)

// fakeGateway is an in-memory client.Client. Errors can be injected per
// operation and every call is counted.
type fakeGateway struct {
	mu sync.Mutex

	users   map[int64]*models.User
	posts   []models.Post
	follows map[[2]int64]bool
	objects map[string][]byte

	nextUserID int64
	nextPostID int64

	fail  map[string]error
	calls map[string]int

	// beforeCall, when set, runs outside the lock before each operation.
	beforeCall func(op string)
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		users:   map[int64]*models.User{},
		follows: map[[2]int64]bool{},
		objects: map[string][]byte{},
		fail:    map[string]error{},
		calls:   map[string]int{},
	}
}

func (f *fakeGateway) enter(op string) error {
	if f.beforeCall != nil {
		f.beforeCall(op)
	}
	f.mu.Lock()
	f.calls[op]++
	return f.fail[op]
}

func (f *fakeGateway) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeGateway) failOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, op)
		return
	}
	f.fail[op] = err
}

func (f *fakeGateway) addUser(name, first, last string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextUserID++
	id := f.nextUserID
	f.users[id] = &models.User{
		ID: id, Email: name + "@example.com", UserName: name,
		FirstName: first, LastName: last, CreatedAt: time.Now(),
	}
	return id
}

func (f *fakeGateway) addPost(userID int64, at time.Time) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextPostID++
	f.posts = append(f.posts, models.Post{ID: f.nextPostID, UserID: userID, ImageURL: "https://cdn/p.jpg", CreatedAt: at})
	return f.nextPostID
}

func (f *fakeGateway) addFollow(follower, followee int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.follows[[2]int64{follower, followee}] = true
}

func (f *fakeGateway) edgeCount(follower, followee int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.follows[[2]int64{follower, followee}] {
		return 1
	}
	return 0
}

func (f *fakeGateway) Close() error { return nil }

func (f *fakeGateway) Ping(ctx context.Context) error {
	err := f.enter("ping")
	f.mu.Unlock()
	return err
}

func (f *fakeGateway) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	err := f.enter("users.create")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, x := range f.users {
		if strings.EqualFold(x.Email, u.Email) || x.UserName == u.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.nextUserID++
	cp := *u
	cp.ID = f.nextUserID
	cp.CreatedAt = time.Now()
	f.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeGateway) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	err := f.enter("users.by_email")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeGateway) GetUser(ctx context.Context, id int64) (*models.User, error) {
	err := f.enter("users.by_id")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeGateway) GetUserSummaries(ctx context.Context, ids []int64) ([]models.UserSummary, error) {
	err := f.enter("users.by_ids")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []models.UserSummary{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u.Summary())
		}
	}
	return out, nil
}

func (f *fakeGateway) SearchUsers(ctx context.Context, text string, limit int) ([]models.UserSummary, error) {
	err := f.enter("users.search")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(text)
	out := []models.UserSummary{}
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.UserName), needle) ||
			strings.Contains(strings.ToLower(u.FirstName), needle) ||
			strings.Contains(strings.ToLower(u.LastName), needle) {
			out = append(out, u.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserName < out[j].UserName })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeGateway) UpdateProfileURL(ctx context.Context, userID int64, url string) error {
	err := f.enter("users.update_profile_url")
	defer f.mu.Unlock()
	if err != nil {
		return err
	}
	u, ok := f.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.ProfileURL = &url
	return nil
}

func (f *fakeGateway) CreatePost(ctx context.Context, p *models.Post) (*models.Post, error) {
	err := f.enter("posts.create")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	f.nextPostID++
	cp := *p
	cp.ID = f.nextPostID
	cp.CreatedAt = time.Now()
	f.posts = append(f.posts, cp)
	out := cp
	return &out, nil
}

// ListPostsByUsers returns posts in insertion order so that callers have to
// sort them.
func (f *fakeGateway) ListPostsByUsers(ctx context.Context, userIDs []int64) ([]models.Post, error) {
	err := f.enter("posts.by_users")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	want := map[int64]bool{}
	for _, id := range userIDs {
		want[id] = true
	}
	out := []models.Post{}
	for _, p := range f.posts {
		if want[p.UserID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeGateway) ListPostsByUser(ctx context.Context, userID int64, limit int) ([]models.Post, error) {
	err := f.enter("posts.by_user")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []models.Post{}
	for _, p := range f.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeGateway) CountPosts(ctx context.Context, userID int64) (int64, error) {
	err := f.enter("posts.count")
	defer f.mu.Unlock()
	if err != nil {
		return 0, err
	}
	var n int64
	for _, p := range f.posts {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeGateway) FollowExists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	err := f.enter("follows.exists")
	defer f.mu.Unlock()
	if err != nil {
		return false, err
	}
	return f.follows[[2]int64{followerID, followeeID}], nil
}

func (f *fakeGateway) InsertFollow(ctx context.Context, followerID, followeeID int64) error {
	err := f.enter("follows.insert")
	defer f.mu.Unlock()
	if err != nil {
		return err
	}
	key := [2]int64{followerID, followeeID}
	if f.follows[key] {
		return common.ErrorAlreadyExists
	}
	f.follows[key] = true
	return nil
}

func (f *fakeGateway) DeleteFollow(ctx context.Context, followerID, followeeID int64) (bool, error) {
	err := f.enter("follows.delete")
	defer f.mu.Unlock()
	if err != nil {
		return false, err
	}
	key := [2]int64{followerID, followeeID}
	existed := f.follows[key]
	delete(f.follows, key)
	return existed, nil
}

func (f *fakeGateway) Followees(ctx context.Context, followerID int64) ([]int64, error) {
	err := f.enter("follows.followees")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []int64{}
	for k := range f.follows {
		if k[0] == followerID {
			out = append(out, k[1])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (f *fakeGateway) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	err := f.enter("follows.count_followers")
	defer f.mu.Unlock()
	if err != nil {
		return 0, err
	}
	var n int64
	for k := range f.follows {
		if k[1] == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeGateway) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	err := f.enter("follows.count_following")
	defer f.mu.Unlock()
	if err != nil {
		return 0, err
	}
	var n int64
	for k := range f.follows {
		if k[0] == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeGateway) PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	err := f.enter("storage.put")
	defer f.mu.Unlock()
	if err != nil {
		return "", err
	}
	f.objects[key] = append([]byte(nil), data...)
	return "https://cdn/" + key, nil
}

// memSessions is an in-memory SessionStore.
type memSessions struct {
	mu  sync.Mutex
	id  int64
	ok  bool
	err error
}

func (m *memSessions) Get(ctx context.Context) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, m.ok, m.err
}

func (m *memSessions) Set(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.id, m.ok = userID, true
	return nil
}

func (m *memSessions) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id, m.ok = 0, false
	return nil
}

func testLogger(t *testing.T) (logging.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))), buf
}
