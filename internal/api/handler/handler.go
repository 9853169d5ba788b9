// Package handler is the gin HTTP surface. Handlers hold no business
// logic: they decode requests, build the Actor from the bearer token and
// delegate to the router or the read-only storage projections.
package handler

import (
	"net/http"

	"complaintflow/backend/internal/routing"
	"complaintflow/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler carries the router, the read-side store and the JWT secret.
type Handler struct {
	Router    *routing.Router
	Storage   storage.Storage
	JWTSecret []byte
	Log       *zap.Logger
}

func NewHandler(r *routing.Router, s storage.Storage, jwtSecret []byte, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Router: r, Storage: s, JWTSecret: jwtSecret, Log: log}
}

// RegisterRoutes wires the HTTP surface onto the gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/token", h.IssueToken)

	authed := r.Group("/", h.ActorAuth())
	authed.POST("/complaints", h.SubmitComplaint)
	authed.POST("/complaints/:id/route", h.RouteComplaint)
	authed.GET("/complaints", h.ListComplaints)
	authed.GET("/complaints/:id/ledger", h.ComplaintLedger)
	authed.GET("/notifications", h.ListNotifications)
}

// fail maps a routing failure kind to an HTTP status and renders the
// typed error.
func (h *Handler) fail(c *gin.Context, err error) {
	kind := routing.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case routing.KindValidation:
		status = http.StatusBadRequest
	case routing.KindAuthorization:
		status = http.StatusForbidden
	case routing.KindNotFoundOrAlreadyProcessed:
		status = http.StatusConflict
	case routing.KindRoutingUnavailable:
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{"kind": kind, "error": err.Error()})
}
