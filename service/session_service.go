package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bookvault/bookvault/core"
	"github.com/bookvault/bookvault/ports"
)

// SessionService handles authentication and session lifecycle. Login and
// refresh issue a dual-token pair: a stateless short-lived access token and
// a long-lived refresh token that is mirrored in the user record. A refresh
// token authorizes exactly one rotation; after that the stored reference no
// longer matches and the token is dead.
type SessionService struct {
	tokenizer ports.Tokenizer
	users     ports.UserStore
	hasher    ports.PasswordHasher
	eventPub  ports.EventPublisher
	logger    *slog.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	tokenizer ports.Tokenizer,
	users ports.UserStore,
	hasher ports.PasswordHasher,
	eventPub ports.EventPublisher,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		tokenizer: tokenizer,
		users:     users,
		hasher:    hasher,
		eventPub:  eventPub,
		logger:    logger,
	}
}

// Register creates a new account and returns its public profile
func (s *SessionService) Register(ctx context.Context, username, fullName, email, password string) (*core.PublicProfile, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &core.User{
		ID:             uuid.New().String(),
		Username:       username,
		FullName:       fullName,
		Email:          email,
		PasswordDigest: digest,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user.Profile(), nil
}

// Login verifies the credentials and starts a new session. Any previous
// session for the account is invalidated by overwriting its refresh
// reference.
func (s *SessionService) Login(ctx context.Context, username, password string) (*core.TokenPair, *core.PublicProfile, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.hasher.Compare(user.PasswordDigest, password) {
		return nil, nil, core.ErrInvalidCredentials
	}

	refreshToken, err := s.tokenizer.IssueRefreshToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create refresh token: %w", err)
	}

	accessToken, accessExpiry, err := s.tokenizer.IssueAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create access token: %w", err)
	}

	replaced := user.RefreshToken != ""

	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	if replaced {
		if err := s.eventPub.PublishSessionReplaced(ctx, user.ID, user.Username); err != nil {
			s.logger.Warn("failed to publish session-replaced event",
				"username", user.Username, "error", err)
		}
	}

	pair := &core.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(time.Until(accessExpiry).Seconds()),
	}
	return pair, user.Profile(), nil
}

// Refresh rotates the refresh token and issues a new token pair. The
// presented token must verify cryptographically AND match the stored
// reference; the match is checked by a compare-and-swap so that of two
// concurrent calls with the same token exactly one wins.
func (s *SessionService) Refresh(ctx context.Context, presented string) (*core.TokenPair, error) {
	identity, err := s.tokenizer.VerifyRefreshToken(presented)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.users.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, fmt.Errorf("refresh for unknown user: %w", core.ErrInvalidToken)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	nextRefresh, err := s.tokenizer.IssueRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := s.users.RotateRefreshToken(ctx, user.ID, presented, nextRefresh); err != nil {
		if errors.Is(err, core.ErrTokenReused) {
			// A validly signed refresh token that no longer matches the
			// stored reference was either rotated away, cleared at logout,
			// or stolen. Keep the signal observable either way.
			s.logger.Warn("stale or reused refresh token presented",
				"username", user.Username)
			if pubErr := s.eventPub.PublishTokenReuse(ctx, user.ID, user.Username); pubErr != nil {
				s.logger.Warn("failed to publish token-reuse event",
					"username", user.Username, "error", pubErr)
			}
			return nil, core.ErrTokenReused
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	accessToken, accessExpiry, err := s.tokenizer.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &core.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: nextRefresh,
		ExpiresIn:    int64(time.Until(accessExpiry).Seconds()),
	}, nil
}

// Logout ends the user's session. Logging out an already-logged-out user
// succeeds silently.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	if err := s.eventPub.PublishLogout(ctx, user.ID, user.Username); err != nil {
		// The session is already dead; the event is best-effort
		s.logger.Warn("failed to publish logout event",
			"username", user.Username, "error", err)
	}

	return nil
}

// ChangePassword replaces the password digest and ends the current session.
// Access tokens cannot be revoked, so closing the refresh path is what
// makes the old credentials harmless once the current access token expires.
func (s *SessionService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.hasher.Compare(user.PasswordDigest, oldPassword) {
		return core.ErrInvalidCredentials
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.SetPasswordDigest(ctx, userID, digest); err != nil {
		return fmt.Errorf("failed to store password digest: %w", err)
	}

	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	return nil
}

// CurrentUser returns the public profile for the identity
func (s *SessionService) CurrentUser(ctx context.Context, userID string) (*core.PublicProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user.Profile(), nil
}

// UpdateAccount replaces the display name and email
func (s *SessionService) UpdateAccount(ctx context.Context, userID, fullName, email string) (*core.PublicProfile, error) {
	if err := s.users.UpdateAccount(ctx, userID, fullName, email); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return s.CurrentUser(ctx, userID)
}

// UpdateSocials replaces the profile/social fields
func (s *SessionService) UpdateSocials(ctx context.Context, userID, bio, website string) (*core.PublicProfile, error) {
	if err := s.users.UpdateSocials(ctx, userID, bio, website); err != nil {
		return nil, fmt.Errorf("failed to update socials: %w", err)
	}
	return s.CurrentUser(ctx, userID)
}
