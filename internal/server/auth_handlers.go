package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foliogate-dev/foliogate/internal/models"
	"github.com/foliogate-dev/foliogate/internal/session"
)

// invalidCredentialsMessage is deliberately generic: the client is never
// told which part of the credential was wrong
const invalidCredentialsMessage = "Invalid credentials"

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionUser represents the identity returned to the browser
type SessionUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Phone      string `json:"phone"`
	IsApproved bool   `json:"isApproved"`
}

func sessionUserFromClaims(claims *session.Claims) SessionUser {
	return SessionUser{
		ID:         claims.UserID,
		Name:       claims.Name,
		Email:      claims.Email,
		Role:       claims.Role,
		Phone:      claims.Phone,
		IsApproved: claims.IsApproved,
	}
}

// @Summary Login
// @Description Exchange credentials for a signed session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Missing fields never reach the backend
		s.logger.Warn().Err(err).Msg("Login request missing credentials")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": invalidCredentialsMessage})
		return
	}

	identity, err := s.backend.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": invalidCredentialsMessage})
		return
	}

	token, err := session.Generate(identity)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign session token")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, CookieMaxAge, "/", "", s.config.Session.CookieSecure, true)

	s.logger.Info().Str("user_id", identity.ID).Str("email", identity.Email).Msg("User logged in")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": SessionUser{
			ID:         identity.ID,
			Name:       identity.Name,
			Email:      identity.Email,
			Role:       identity.Role,
			Phone:      identity.Phone,
			IsApproved: identity.IsApproved,
		},
	})
}

// @Summary Logout
// @Description Clears the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/logout [post]
func (s *Server) logout(c *gin.Context) {
	// Only the session cookie is cleared here; the accessToken cookie is
	// left to expire on its own, matching the observed behavior of the
	// system this gateway fronts
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", s.config.Session.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary Get current session
// @Description Verifies the session cookie and returns the identity claims
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/session [get]
func (s *Server) getSession(c *gin.Context) {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}

	claims, err := session.Validate(cookie)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": sessionUserFromClaims(claims)})
}

// @Summary Sync access token cookie
// @Description Copies the backend access token from the signed session into
// an HTTP-only cookie readable by the proxy routes
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/sync-cookie [post]
func (s *Server) syncCookie(c *gin.Context) {
	token := ""
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		if claims, err := session.Validate(cookie); err == nil {
			token = claims.AccessToken
		}
	}

	if token == "" {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookieName, token, CookieMaxAge, "/", "", s.config.Session.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary Register
// @Description Validates the registration payload and forwards it to the backend
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/proxy/register [post]
func (s *Server) register(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	var input models.RegisterInput
	if err := json.Unmarshal(body, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if err := s.validator.Struct(input); err != nil {
		s.logger.Warn().Err(err).Msg("Registration payload rejected")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation failed"})
		return
	}

	status, payload, err := s.backend.Do(c.Request.Context(), http.MethodPost, "/api/users/register", "", bytes.NewReader(body))
	if err != nil {
		s.logger.Error().Err(err).Msg("Registration request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	if status < 200 || status >= 300 {
		message := "Registration failed"
		var upstream struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload, &upstream) == nil && upstream.Message != "" {
			message = upstream.Message
		}
		c.JSON(status, gin.H{"success": false, "message": message})
		return
	}

	c.Data(http.StatusOK, "application/json", payload)
}
