package handler

import (
	"net/http"
	"strconv"

	"complaintflow/backend/internal/models"
	"complaintflow/backend/internal/routing"
	"complaintflow/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type submitRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	DepartmentID string   `json:"department_id" binding:"required"`
}

// SubmitComplaint files a new complaint for the authenticated submitter.
func (h *Handler) SubmitComplaint(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.Router.Submit(c.Request.Context(), routing.SubmitRequest{
		Actor:        actorFrom(c),
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Tags:         req.Tags,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, complaint)
}

type routeRequest struct {
	Action    string `json:"action" binding:"required"`
	Text      string `json:"text"`
	HandlerID string `json:"handler_id"`
	Outcome   string `json:"outcome"`
}

// RouteComplaint executes one routing action as the authenticated actor.
func (h *Handler) RouteComplaint(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := models.ParseAction(req.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.Router.Route(c.Request.Context(), routing.Request{
		ComplaintID: c.Param("id"),
		Actor:       actorFrom(c),
		Action:      action,
		Text:        req.Text,
		HandlerID:   req.HandlerID,
		Outcome:     models.ComplaintStatus(req.Outcome),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaint":  out.Complaint,
		"escalation": out.Escalation,
		"decision":   out.Decision,
	})
}

// ListComplaints is the per-role paginated dashboard projection.
func (h *Handler) ListComplaints(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	complaints, total, err := h.Storage.ListComplaints(storage.ComplaintFilter{
		Actor:  actorFrom(c),
		Status: models.ComplaintStatus(c.Query("status")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list complaints"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaints": complaints, "total": total, "page": page})
}

// ComplaintLedger returns the full routing history of one complaint.
func (h *Handler) ComplaintLedger(c *gin.Context) {
	escalations, decisions, err := h.Storage.ComplaintLedger(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ledger"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"escalations": escalations, "decisions": decisions})
}

// ListNotifications returns the actor's notification rows, newest first.
func (h *Handler) ListNotifications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	notes, total, err := h.Storage.NotificationsFor(actorFrom(c).ID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notes, "total": total, "page": page})
}
