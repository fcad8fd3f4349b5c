package handlers

import (
	"kalibracloud/internal/service"

	"go.uber.org/zap"
)

// Handler serves the pages and form posts.
type Handler struct {
	svc *service.Service
	log *zap.Logger
}

func New(svc *service.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}
