package middleware

import (
	"net/http"

	"kalibracloud/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const SessionUserID = "user_id"

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		if _, ok := roleSet[u.Role]; !ok {
			c.String(http.StatusForbidden, "Akses ditolak")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SignIn records u as the session user.
func SignIn(c *gin.Context, u *models.User) error {
	sess := sessions.Default(c)
	sess.Set(SessionUserID, u.ID)
	return sess.Save()
}

// SignOut drops the session user and any pending messages.
func SignOut(c *gin.Context) error {
	sess := sessions.Default(c)
	sess.Clear()
	return sess.Save()
}
