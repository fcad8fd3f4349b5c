package handlers

import (
	"net/http"

	"kalibracloud/internal/middleware"
	"kalibracloud/internal/service"

	"github.com/gin-gonic/gin"
)

var dashboardTabs = map[string][]string{
	"admin":  {"overview", "users", "orders"},
	"client": {"overview", "instruments", "requests"},
	"lab":    {"overview", "requests", "quotations"},
}

func pickTab(kind, requested string) string {
	tabs := dashboardTabs[kind]
	for _, t := range tabs {
		if t == requested {
			return t
		}
	}
	return tabs[0]
}

func (h *Handler) Dashboard(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	d, err := h.svc.Dashboard(c.Request.Context(), u)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, service.Message(err))
		return
	}

	data := gin.H{
		"Dashboard": d,
		"ShowForm":  c.Query("new") == "1",
	}

	var tmpl, kind string
	switch d := d.(type) {
	case *service.AdminDashboard:
		tmpl, kind = "dashboard_admin.html", "admin"
	case *service.ClientDashboard:
		tmpl, kind = "dashboard_client.html", "client"
	case *service.LabDashboard:
		tmpl, kind = "dashboard_lab.html", "lab"
		if target := d.Quotable(service.ParseID(c.Query("request_id"))); target != nil {
			data["QuoteTarget"] = target
		}
	default:
		c.String(http.StatusInternalServerError, "unsupported dashboard")
		return
	}

	data["Tab"] = pickTab(kind, c.Query("tab"))
	data["Tabs"] = dashboardTabs[kind]
	render(c, http.StatusOK, tmpl, data)
}
