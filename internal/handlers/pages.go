package handlers

import (
	"net/http"

	"kalibracloud/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) IndexPage(c *gin.Context) {
	_, ok := middleware.CurrentUser(c)
	render(c, http.StatusOK, "index.html", gin.H{
		"isAuthed": ok,
	})
}
