package handlers

import (
	"errors"
	"net/http"

	"kalibracloud/internal/middleware"
	"kalibracloud/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) CreateQuotation(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	requestID := service.ParseID(c.PostForm("request_id"))
	_, err := h.svc.CreateQuotation(c.Request.Context(), u, requestID, c.PostForm("cost"), c.PostForm("duration"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound),
			errors.Is(err, service.ErrAlreadyQuoted),
			errors.Is(err, service.ErrForbidden):
			h.log.Info("quotation rejected", zap.Uint("request_id", requestID), zap.Error(err))
		default:
			_ = c.Error(err)
		}
		flash(c, flashError, service.Message(err))
		c.Redirect(http.StatusFound, "/dashboard?tab=requests")
		return
	}

	flash(c, flashSuccess, service.MsgQuotationCreated)
	c.Redirect(http.StatusFound, "/dashboard?tab=quotations")
}
