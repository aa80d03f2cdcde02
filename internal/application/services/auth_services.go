package services

import (
	"fmt"
	"time"

	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/security"
)

// EditorRoleName is the role granted to holders of the editor password.
const EditorRoleName = "editor"

// AuthConfig holds the editor credentials.
type AuthConfig struct {
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

// Validate rejects a half-configured setup. Either both the password hash
// and the JWT secret are set, or neither is and editor routes stay open.
func (c AuthConfig) Validate() error {
	if (c.PasswordHash == "") != (c.JWTSecret == "") {
		return fmt.Errorf("%w: EDITOR_PASSWORD_HASH and JWT_SECRET must be set together", ErrAuthNotConfigured)
	}
	return nil
}

// AuthService handles editor login and token validation
type AuthService struct {
	config AuthConfig
	logger *logging.ChanneledLogger
}

// NewAuthService creates a new authentication service
func NewAuthService(config AuthConfig, logger *logging.ChanneledLogger) *AuthService {
	if config.TokenTTL <= 0 {
		config.TokenTTL = 24 * time.Hour
	}
	return &AuthService{
		config: config,
		logger: logger,
	}
}

// AuthResult holds authentication result data
type AuthResult struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Configured reports whether logins can succeed.
func (a *AuthService) Configured() bool {
	return a.config.PasswordHash != "" && a.config.JWTSecret != ""
}

// AuthenticateEditor checks password against the bcrypt hash and issues a token.
func (a *AuthService) AuthenticateEditor(password string) (*AuthResult, error) {
	if !a.Configured() {
		a.logger.Auth().Warn("Login attempted but editor authentication is not configured")
		return nil, ErrAuthNotConfigured
	}
	if !security.CheckPassword(a.config.PasswordHash, password) {
		a.logger.LogAuthOperation("login", EditorRoleName, false)
		return nil, ErrInvalidCredentials
	}

	token, err := security.GenerateEditorToken(EditorRoleName, a.config.JWTSecret, a.config.TokenTTL)
	if err != nil {
		a.logger.Auth().Error("Token generation failed", "error", err.Error())
		return nil, err
	}

	a.logger.LogAuthOperation("login", EditorRoleName, true)
	return &AuthResult{
		Token:     token,
		Role:      EditorRoleName,
		ExpiresAt: time.Now().UTC().Add(a.config.TokenTTL),
	}, nil
}

// ValidateToken returns the role carried by a valid editor token.
func (a *AuthService) ValidateToken(token string) (string, error) {
	if a.config.JWTSecret == "" {
		return "", ErrAuthNotConfigured
	}
	return security.EditorRole(token, a.config.JWTSecret)
}
