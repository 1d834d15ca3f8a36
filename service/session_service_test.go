package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookvault/bookvault/adapters/hasher"
	"github.com/bookvault/bookvault/adapters/store"
	"github.com/bookvault/bookvault/adapters/tokenizer"
	"github.com/bookvault/bookvault/core"
)

// recordingPublisher captures published security events for assertions
type recordingPublisher struct {
	mu              sync.Mutex
	logouts         []string
	sessionReplaced []string
	tokenReuse      []string
}

func (p *recordingPublisher) PublishLogout(ctx context.Context, userID, username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logouts = append(p.logouts, username)
	return nil
}

func (p *recordingPublisher) PublishSessionReplaced(ctx context.Context, userID, username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessionReplaced = append(p.sessionReplaced, username)
	return nil
}

func (p *recordingPublisher) PublishTokenReuse(ctx context.Context, userID, username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokenReuse = append(p.tokenReuse, username)
	return nil
}

func (p *recordingPublisher) reuseCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tokenReuse)
}

type sessionFixture struct {
	svc    *SessionService
	store  *store.MemoryStore
	events *recordingPublisher
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	mem := store.NewMemoryStore()
	events := &recordingPublisher{}
	codec := tokenizer.NewJWTTokenizer(tokenizer.Config{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewSessionService(codec, mem, hasher.NewBcryptHasher(bcrypt.MinCost), events, logger)
	return &sessionFixture{svc: svc, store: mem, events: events}
}

func (f *sessionFixture) register(t *testing.T, username, password string) *core.PublicProfile {
	t.Helper()
	profile, err := f.svc.Register(context.Background(), username, "Test User", username+"@example.com", password)
	require.NoError(t, err)
	return profile
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "s3cret")

	pair, profile, err := f.svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Greater(t, pair.ExpiresIn, int64(0))

	// Both tokens verify independently against the codec
	codec := tokenizer.NewJWTTokenizer(tokenizer.Config{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	accessID, err := codec.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, accessID.UserID)

	refreshID, err := codec.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, refreshID.UserID)

	// The refresh token is mirrored in the user record
	stored, err := f.store.FindByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	f.register(t, "alice", "s3cret")

	_, err := f.svc.Register(context.Background(), "alice", "Other", "other@example.com", "pw")
	assert.ErrorIs(t, err, core.ErrUserExists)
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "s3cret")

	_, _, err := f.svc.Login(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, core.ErrUserNotFound)

	_, _, err = f.svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestSecondLoginInvalidatesFirstSession(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "s3cret")

	first, _, err := f.svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	second, _, err := f.svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, f.events.sessionReplaced)

	// The first session's refresh token no longer matches the stored
	// reference even though it still verifies cryptographically
	_, err = f.svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, core.ErrTokenReused)

	_, err = f.svc.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRotationIsSingleUse(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "s3cret")

	login, _, err := f.svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	r1 := login.RefreshToken

	rotated, err := f.svc.Refresh(ctx, r1)
	require.NoError(t, err)
	r2 := rotated.RefreshToken
	assert.NotEqual(t, r1, r2)
	assert.NotEmpty(t, rotated.AccessToken)

	// R1 is dead after a single rotation
	_, err = f.svc.Refresh(ctx, r1)
	assert.ErrorIs(t, err, core.ErrTokenReused)
	assert.Equal(t, 1, f.events.reuseCount())

	// R2 is still live
	_, err = f.svc.Refresh(ctx, r2)
	assert.NoError(t, err)
}

func TestConcurrentRefreshHasOneWinner(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	ctx := context.Background()
	profile := f.register(t, "alice", "s3cret")

	login, _, err := f.svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	const callers = 8
	var wg sync.WaitGroup
	pairs := make([]*core.TokenPair, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pairs[i], errs[i] = f.svc.Refresh(ctx, login.RefreshToken)
		}(i)
	}
	wg.Wait()

	var winner *core.TokenPair
	winners := 0
	for i := range errs {
		if errs[i] == nil {
			winners++
			winner = pairs[i]
		} else {
			assert.ErrorIs(t, errs[i], core.ErrTokenReused)
		}
	}
	require.Equal(t, 1, winners, "exactly one concurrent refresh may succeed")
	assert.Equal(t, callers-1, f.events.reuseCount())

	// The stored reference must equal the winner's token, never a loser's
	stored, err := f.store.FindByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, winner.RefreshToken, stored.RefreshToken)
}

func TestRefreshRejectsNonRefreshTokens(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "s3cret")

	login, _, err := f.svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	// An access token is not accepted on the refresh path
	_, err = f.svc.Refresh(ctx, login.AccessToken)
	assert.Error(t, err)

	_, err = f.svc.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestLogoutIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	ctx := context.Background()
	profile := f.register(t, "alice", "s3cret")

	login, _, err := f.svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, profile.ID))
	require.NoError(t, f.svc.Logout(ctx, profile.ID))
	assert.Equal(t, []string{"alice", "alice"}, f.events.logouts)

	// A logged-out session cannot refresh, even with a validly signed token
	_, err = f.svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, core.ErrTokenReused)
}

func TestChangePasswordInvalidatesSession(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	ctx := context.Background()
	profile := f.register(t, "alice", "s3cret")

	login, _, err := f.svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	err = f.svc.ChangePassword(ctx, profile.ID, "wrong", "next-secret")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)

	require.NoError(t, f.svc.ChangePassword(ctx, profile.ID, "s3cret", "next-secret"))

	// The pre-change refresh token is dead
	_, err = f.svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, core.ErrTokenReused)

	// Old password no longer works, new one does
	_, _, err = f.svc.Login(ctx, "alice", "s3cret")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)

	_, _, err = f.svc.Login(ctx, "alice", "next-secret")
	assert.NoError(t, err)
}

func TestCurrentUserAndProfileUpdates(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	ctx := context.Background()
	profile := f.register(t, "alice", "s3cret")

	got, err := f.svc.CurrentUser(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	updated, err := f.svc.UpdateAccount(ctx, profile.ID, "Alice Liddell", "alice@wonderland.example")
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", updated.FullName)
	assert.Equal(t, "alice@wonderland.example", updated.Email)

	social, err := f.svc.UpdateSocials(ctx, profile.ID, "reader of books", "https://alice.example")
	require.NoError(t, err)
	assert.Equal(t, "reader of books", social.Bio)
	assert.Equal(t, "https://alice.example", social.Website)

	_, err = f.svc.CurrentUser(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}
