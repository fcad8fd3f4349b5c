package handlers

import (
	"net/http"

	"kalibracloud/internal/middleware"
	"kalibracloud/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateRequest(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	instrumentID := service.ParseID(c.PostForm("instrument_id"))
	labID := service.ParseID(c.PostForm("lab_id"))

	if _, err := h.svc.CreateRequest(c.Request.Context(), u, instrumentID, labID); err != nil {
		_ = c.Error(err)
		flash(c, flashError, service.Message(err))
		c.Redirect(http.StatusFound, "/dashboard?tab=requests&new=1")
		return
	}

	flash(c, flashSuccess, service.MsgRequestCreated)
	c.Redirect(http.StatusFound, "/dashboard?tab=requests")
}
