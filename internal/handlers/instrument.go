package handlers

import (
	"net/http"

	"kalibracloud/internal/middleware"
	"kalibracloud/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateInstrument(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	_, err := h.svc.AddInstrument(c.Request.Context(), u, c.PostForm("name"), c.PostForm("serial_number"))
	if err != nil {
		_ = c.Error(err)
		flash(c, flashError, service.Message(err))
		c.Redirect(http.StatusFound, "/dashboard?tab=instruments&new=1")
		return
	}

	flash(c, flashSuccess, service.MsgInstrumentAdded)
	c.Redirect(http.StatusFound, "/dashboard?tab=instruments")
}
