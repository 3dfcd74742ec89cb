package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/models"
	"resort-backend/services"
	"resort-backend/utils"
)

const currentUserKey = "currentUser"

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (uint, error)
}

type UserLoader interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// Authenticate guards a route with the session stored in cookieName. When
// allowed is empty any authenticated role passes.
func Authenticate(tokens TokenVerifier, users UserLoader, cookieName string, allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			abortWith(c, services.ErrNoSession)
			return
		}

		ctx := c.Request.Context()
		userID, err := tokens.Verify(ctx, token)
		if err != nil {
			abortWith(c, err)
			return
		}

		user, err := users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				err = services.ErrStaleSession
			}
			abortWith(c, err)
			return
		}

		if len(allowed) > 0 && !hasRole(allowed, user.Role()) {
			abortWith(c, services.ErrRoleDenied)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func hasRole(allowed []models.Role, role models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func abortWith(c *gin.Context, err error) {
	status := services.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("authentication failed", slog.String("path", c.Request.URL.Path), slog.Any("error", err))
		utils.AbortJSONError(c, status, "Server error during authentication")
		return
	}
	utils.AbortJSONError(c, status, services.Message(err))
}

// CurrentUser returns the user attached by Authenticate, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
