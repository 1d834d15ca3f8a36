package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookvault/bookvault/core"
	"github.com/bookvault/bookvault/service"
)

// AuthHandlers contains HTTP handlers for the session endpoints
type AuthHandlers struct {
	sessions *service.SessionService

	// Cookie lifetime in seconds for the refresh cookie; the access cookie
	// expires with the token.
	refreshCookieMaxAge int
	secureCookies       bool
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(sessions *service.SessionService, refreshCookieMaxAge int, secureCookies bool) *AuthHandlers {
	return &AuthHandlers{
		sessions:            sessions,
		refreshCookieMaxAge: refreshCookieMaxAge,
		secureCookies:       secureCookies,
	}
}

// Register handles account creation
func (h *AuthHandlers) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		FullName string `json:"full_name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	profile, err := h.sessions.Register(c.Request.Context(), req.Username, req.FullName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": profile})
}

// Login handles the login request. Tokens are delivered both as cookies and
// in the response body.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	pair, profile, err := h.sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, core.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		}
		return
	}

	h.setAuthCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{
		"user":          profile,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    pair.ExpiresIn,
	})
}

// Refresh handles token rotation. The refresh token is read from its cookie
// or the request body; no access token is required.
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	// Body is optional when the cookie is present
	_ = c.ShouldBindJSON(&req)

	token := req.RefreshToken
	if cookie, err := c.Cookie(RefreshCookieName); err == nil && cookie != "" {
		token = cookie
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No refresh token provided"})
		return
	}

	pair, err := h.sessions.Refresh(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrTokenExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired"})
		case errors.Is(err, core.ErrTokenReused):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token is no longer valid"})
		case errors.Is(err, core.ErrInvalidToken), errors.Is(err, core.ErrWrongTokenKind):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh tokens"})
		}
		return
	}

	h.setAuthCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    pair.ExpiresIn,
	})
}

// Logout ends the authenticated user's session and clears both cookies
func (h *AuthHandlers) Logout(c *gin.Context) {
	userID := c.GetString(ContextUserIDKey)

	if err := h.sessions.Logout(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// ChangePassword replaces the password and invalidates the session
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID := c.GetString(ContextUserIDKey)
	if err := h.sessions.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Password changed, please log in again"})
}

// CurrentUser returns the authenticated user's public profile
func (h *AuthHandlers) CurrentUser(c *gin.Context) {
	userID := c.GetString(ContextUserIDKey)

	profile, err := h.sessions.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// UpdateAccount replaces the display name and email
func (h *AuthHandlers) UpdateAccount(c *gin.Context) {
	var req struct {
		FullName string `json:"full_name" binding:"required"`
		Email    string `json:"email" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID := c.GetString(ContextUserIDKey)
	profile, err := h.sessions.UpdateAccount(c.Request.Context(), userID, req.FullName, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// UpdateSocials replaces the profile/social fields
func (h *AuthHandlers) UpdateSocials(c *gin.Context) {
	var req struct {
		Bio     string `json:"bio"`
		Website string `json:"website"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID := c.GetString(ContextUserIDKey)
	profile, err := h.sessions.UpdateSocials(c.Request.Context(), userID, req.Bio, req.Website)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update socials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": profile})
}

func (h *AuthHandlers) setAuthCookies(c *gin.Context, pair *core.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessCookieName, pair.AccessToken, int(pair.ExpiresIn), "/", "", h.secureCookies, true)
	c.SetCookie(RefreshCookieName, pair.RefreshToken, h.refreshCookieMaxAge, "/", "", h.secureCookies, true)
}

func (h *AuthHandlers) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessCookieName, "", -1, "/", "", h.secureCookies, true)
	c.SetCookie(RefreshCookieName, "", -1, "/", "", h.secureCookies, true)
}
