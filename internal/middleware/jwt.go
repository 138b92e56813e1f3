package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"commission_tracker/internal/apperr"
	"commission_tracker/internal/models"
	"commission_tracker/internal/response"
)

const currentUserKey = "current_user"

const msgInvalidCredentials = "Invalid authentication credentials"

// TokenIssuer mints and verifies HS256 bearer tokens. Tokens carry only
// the subject id and never expire.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

func (t *TokenIssuer) Issue(userID string) (string, error) {
	claims := jwt.RegisteredClaims{Subject: userID}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", apperr.Internal("could not generate token", err)
	}
	return signed, nil
}

// Verify returns the subject of a valid token.
func (t *TokenIssuer) Verify(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", apperr.New(apperr.KindUnauthenticated, msgInvalidCredentials, err)
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", apperr.New(apperr.KindUnauthenticated, msgInvalidCredentials, err)
	}
	return sub, nil
}

// UserLookup resolves a token subject to a user.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// Auth builds the authentication and authorization middleware.
type Auth struct {
	tokens *TokenIssuer
	users  UserLookup
}

func NewAuth(tokens *TokenIssuer, users UserLookup) *Auth {
	return &Auth{tokens: tokens, users: users}
}

// RequireAuth ensures a valid bearer token for an existing user is present
func (a *Auth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Abort(c, apperr.Unauthenticated("Not authenticated"))
			return
		}

		userID, err := a.tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			response.Abort(c, err)
			return
		}

		user, err := a.users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				response.Abort(c, apperr.Unauthenticated("User not found"))
				return
			}
			response.Abort(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireRole ensures the authenticated user holds role. It must run after
// RequireAuth.
func (a *Auth) RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Abort(c, apperr.Unauthenticated("Not authenticated"))
			return
		}
		if user.Role != role {
			response.Abort(c, apperr.Forbidden(forbiddenMessage(role)))
			return
		}
		c.Next()
	}
}

func forbiddenMessage(role models.Role) string {
	if role.IsAdmin() {
		return "Admin access required"
	}
	return "Insufficient permissions"
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
