package middleware

import (
	"context"
	"errors"

	"kalibracloud/internal/models"
	"kalibracloud/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const currentUserKey = "CurrentUser"

// UserLoader resolves a session user id.
type UserLoader interface {
	CurrentUser(ctx context.Context, id uint) (*models.User, error)
}

// InjectUser loads the session user into the gin context. A session that
// points at a user the store no longer knows (the in-memory store after a
// restart) is cleared.
func InjectUser(users UserLoader, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uid, ok := sess.Get(SessionUserID).(uint); ok && uid > 0 {
			u, err := users.CurrentUser(c.Request.Context(), uid)
			switch {
			case err == nil:
				c.Set(currentUserKey, u)
			case errors.Is(err, store.ErrNotFound):
				log.Debug("dropping stale session", zap.Uint("user_id", uid), zap.Error(err))
				sess.Clear()
				_ = sess.Save()
			default:
				log.Warn("load session user failed", zap.Uint("user_id", uid), zap.Error(err))
			}
		}

		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}
