package server

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"kalibracloud/internal/handlers"
	"kalibracloud/internal/middleware"
	"kalibracloud/internal/models"
	"kalibracloud/internal/service"
	"kalibracloud/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// rupiah formats an amount the Indonesian way: "Rp 1.500.000" or "Rp 250,75".
func rupiah(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	whole := d.Truncate(0)
	digits := whole.String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := "Rp " + sign + b.String()
	if frac := d.Sub(whole); !frac.IsZero() {
		out += fmt.Sprintf(",%02d", frac.Shift(2).IntPart())
	}
	return out
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("02/01/2006")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("02/01/2006")
	}
	return ""
}

func roleIcon(r models.UserRole) string {
	switch r {
	case models.RoleAdmin:
		return "⚙️"
	case models.RoleClient:
		return "👤"
	case models.RoleLab:
		return "🔬"
	}
	return ""
}

var tabLabels = map[string]string{
	"overview":    "📊 Overview",
	"instruments": "🔧 Alat",
	"requests":    "📝 Permintaan",
	"quotations":  "💰 Penawaran",
	"users":       "👥 Users",
	"orders":      "📦 Orders",
}

func tabLabel(tab string) string {
	if l, ok := tabLabels[tab]; ok {
		return l
	}
	return tab
}

type Options struct {
	GinMode       string
	SessionSecret string
	// Secure marks the session cookie HTTPS-only.
	Secure bool
}

func NewRouter(opts Options, svc *service.Service, log *zap.Logger) (*gin.Engine, error) {
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"rupiah":   rupiah,
		"date":     formatDate,
		"roleIcon": roleIcon,
		"tabLabel": tabLabel,
	}).ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, err
	}
	r.StaticFS("/static", http.FS(static))

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((12 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("kalibra_session", store))

	r.Use(middleware.InjectUser(svc, log))

	h := handlers.New(svc, log)

	// PUBLIC
	r.GET("/", h.IndexPage)

	r.GET("/register", h.ShowRegister)
	r.POST("/register", h.Register)
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	r.POST("/logout", h.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.GET("/dashboard", h.Dashboard)

	// CLIENT
	auth.POST("/instruments",
		middleware.RequireRole(models.RoleClient),
		h.CreateInstrument,
	)
	auth.POST("/requests",
		middleware.RequireRole(models.RoleClient),
		h.CreateRequest,
	)

	// LAB
	auth.POST("/quotations",
		middleware.RequireRole(models.RoleLab),
		h.CreateQuotation,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r, nil
}
