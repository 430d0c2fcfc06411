package fakeapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
)

const tokenTTL = 24 * time.Hour

// claims is the token payload the mock API signs.
type claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) mintToken(user models.User) (string, error) {
	now := time.Now()
	c := &claims{
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.secret)
}

func (s *Server) validateToken(tokenString string) (*claims, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return c, nil
}

// requireAuth resolves the bearer token to a user and stashes it on the
// request context.
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		jsonError(c, http.StatusUnauthorized, errors.New("missing bearer token"), "authentication required")
		c.Abort()
		return
	}

	tokenClaims, err := s.validateToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		jsonError(c, http.StatusUnauthorized, err, "invalid or expired token")
		c.Abort()
		return
	}

	user, err := s.store.GetUser(tokenClaims.UserID)
	if err != nil {
		jsonError(c, http.StatusUnauthorized, err, "unknown account")
		c.Abort()
		return
	}

	c.Set("user", user)
	c.Next()
}

// currentUser returns the authenticated user set by requireAuth.
func currentUser(c *gin.Context) models.User {
	v, _ := c.Get("user")
	user, _ := v.(models.User)
	return user
}
