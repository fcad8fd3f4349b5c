package handlers

import (
	"kalibracloud/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

// render wraps c.HTML: every template gets CurrentUser and the pending
// success/error message, unless the handler passes its own.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if u, ok := middleware.CurrentUser(c); ok {
		data["CurrentUser"] = u
		data["CurrentUserRole"] = u.Role
	}

	sess := sessions.Default(c)
	successes := sess.Flashes(flashSuccess)
	errs := sess.Flashes(flashError)
	if len(successes) > 0 || len(errs) > 0 {
		_ = sess.Save()
	}
	if _, ok := data["error"]; !ok && len(errs) > 0 {
		data["error"] = errs[len(errs)-1]
	}
	if _, ok := data["success"]; !ok && len(successes) > 0 {
		data["success"] = successes[len(successes)-1]
	}
	// one slot at a time
	if msg, _ := data["error"].(string); msg != "" {
		delete(data, "success")
	}

	c.HTML(status, tmpl, data)
}

func flash(c *gin.Context, kind, msg string) {
	sess := sessions.Default(c)
	sess.Flashes(flashSuccess)
	sess.Flashes(flashError)
	sess.AddFlash(msg, kind)
	_ = sess.Save()
}
