package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/snapgram/internal/client/config"
	"github.com/dmitrijs2005/snapgram/internal/client/services"
	"github.com/dmitrijs2005/snapgram/internal/common"
	"github.com/dmitrijs2005/snapgram/internal/models"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

type fakeAuth struct {
	mu sync.Mutex

	userID   int64
	signedIn bool

	signupIn  services.SignupInput
	signupErr error

	loginEmail string
	loginPass  string
	loginUser  *models.User
	loginErr   error

	pingErr    error
	pingCalls  int
	closeCalls int
}

func (f *fakeAuth) Signup(_ context.Context, in services.SignupInput) (*models.User, error) {
	f.signupIn = in
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &models.User{ID: 1, Email: in.Email, UserName: in.UserName}, nil
}

func (f *fakeAuth) Login(_ context.Context, email string, password []byte) (*models.User, error) {
	f.loginEmail, f.loginPass = email, string(password)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.userID, f.signedIn = f.loginUser.ID, true
	return f.loginUser, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.userID, f.signedIn = 0, false
	return nil
}

func (f *fakeAuth) CurrentUserID(context.Context) (int64, bool, error) {
	return f.userID, f.signedIn, nil
}

func (f *fakeAuth) RequireUser(context.Context) (int64, error) {
	if !f.signedIn {
		return 0, common.ErrorNotAuthenticated
	}
	return f.userID, nil
}

func (f *fakeAuth) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingCalls++
	return f.pingErr
}

func (f *fakeAuth) Close(context.Context) error {
	f.closeCalls++
	return nil
}

func (f *fakeAuth) pings() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingCalls
}

type followCall struct {
	op             string
	viewer, target int64
}

type fakeFollows struct {
	calls     []followCall
	err       error
	following bool
}

func (f *fakeFollows) GetRelationship(_ context.Context, viewer, target int64) (models.Relationship, error) {
	return models.Relationship{Following: f.following}, f.err
}

func (f *fakeFollows) Follow(_ context.Context, viewer, target int64) error {
	f.calls = append(f.calls, followCall{"follow", viewer, target})
	return f.err
}

func (f *fakeFollows) Unfollow(_ context.Context, viewer, target int64) error {
	f.calls = append(f.calls, followCall{"unfollow", viewer, target})
	return f.err
}

func (f *fakeFollows) Toggle(_ context.Context, viewer, target int64) (models.Relationship, error) {
	f.calls = append(f.calls, followCall{"toggle", viewer, target})
	if f.err != nil {
		return models.Relationship{}, f.err
	}
	f.following = !f.following
	return models.Relationship{Following: f.following}, nil
}

type fakeFeed struct {
	items  []models.FeedItem
	err    error
	viewer int64
}

func (f *fakeFeed) ComposeFeed(_ context.Context, viewer int64) ([]models.FeedItem, error) {
	f.viewer = viewer
	return f.items, f.err
}

type fakeProfiles struct {
	profile    *models.Profile
	profileErr error
	stats      models.Stats
	statsFor   int64

	avatarURL string
	avatarErr error
	avatarExt string

	linkURL string
	linkErr error

	post       *models.Post
	postErr    error
	caption    string
	uploadData []byte
}

func (f *fakeProfiles) GetStats(_ context.Context, userID int64) models.Stats {
	f.statsFor = userID
	return f.stats
}

func (f *fakeProfiles) GetProfile(_ context.Context, viewer, userID int64) (*models.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeProfiles) UpdateProfileImage(_ context.Context, _ int64, data []byte, ext string) (string, error) {
	f.uploadData, f.avatarExt = data, ext
	return f.avatarURL, f.avatarErr
}

func (f *fakeProfiles) LinkProfileImage(_ context.Context, _ int64, url string) error {
	f.linkURL = url
	return f.linkErr
}

func (f *fakeProfiles) UploadPost(_ context.Context, _ int64, data []byte, _ string, caption string) (*models.Post, error) {
	f.uploadData, f.caption = data, caption
	return f.post, f.postErr
}

type fakeSearch struct {
	query   string
	users   []models.UserSummary
	err     error
	stopped bool
}

func (f *fakeSearch) Query(_ context.Context, text string) ([]models.UserSummary, error) {
	f.query = text
	return f.users, f.err
}

func (f *fakeSearch) Stop() { f.stopped = true }

type testApp struct {
	*App
	auth     *fakeAuth
	follows  *fakeFollows
	feed     *fakeFeed
	profiles *fakeProfiles
	search   *fakeSearch
	out      *bytes.Buffer
}

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

// newTestApp returns an App wired to fakes. signedInAs 0 means no session.
func newTestApp(t *testing.T, signedInAs int64, input ...string) *testApp {
	t.Helper()

	ta := &testApp{
		auth:     &fakeAuth{userID: signedInAs, signedIn: signedInAs != 0},
		follows:  &fakeFollows{},
		feed:     &fakeFeed{},
		profiles: &fakeProfiles{},
		search:   &fakeSearch{},
		out:      &bytes.Buffer{},
	}
	ta.App = &App{
		config:   &config.Config{RequestTimeout: time.Second},
		auth:     ta.auth,
		follows:  ta.follows,
		feed:     ta.feed,
		profiles: ta.profiles,
		search:   ta.search,
		reader:   readerFromLines(input...),
		out:      ta.out,
		mode:     ModeOffline,
	}
	return ta
}
