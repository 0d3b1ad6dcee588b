package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is the lifetime of operator tokens
const TokenTTL = 24 * time.Hour

// AuthService authenticates the operator allowed to commit deposits and
// refresh the UMA value
type AuthService struct {
	username     string
	passwordHash string
	secret       []byte
	log          *logrus.Logger
	now          func() time.Time
}

// NewAuthService initializes a new auth service
func NewAuthService(username, passwordHash, secret string, log *logrus.Logger) *AuthService {
	return &AuthService{
		username:     username,
		passwordHash: passwordHash,
		secret:       []byte(secret),
		log:          log,
		now:          time.Now,
	}
}

// Login verifies the operator credentials and returns a signed JWT
func (a *AuthService) Login(username, password string) (string, error) {
	if a.passwordHash == "" || username != a.username {
		return "", ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(a.now()),
		ExpiresAt: jwt.NewNumericDate(a.now().Add(TokenTTL)),
	})
	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	a.log.Infof("Operator logged in: %s", username)
	return tokenString, nil
}
