package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentops/recruiting-ops/internal/application/service"
	appwf "github.com/talentops/recruiting-ops/internal/application/workflow"
	"github.com/talentops/recruiting-ops/internal/domain/entity"
	domainwf "github.com/talentops/recruiting-ops/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	engine           appwf.Engine
	selectionService *service.SelectionService
	artifactService  *service.ArtifactService
	exportService    *service.ExportService
	logger           Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	engine appwf.Engine,
	selectionService *service.SelectionService,
	artifactService *service.ArtifactService,
	exportService *service.ExportService,
	logger Logger,
) *Handlers {
	return &Handlers{
		engine:           engine,
		selectionService: selectionService,
		artifactService:  artifactService,
		exportService:    exportService,
		logger:           logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	// Reason carries the guard denial code when a transition is refused
	Reason string `json:"reason,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// CreateSelectionRequest is the body of POST /selections
type CreateSelectionRequest struct {
	Package            string `json:"package" binding:"required"`
	ClientCompany      string `json:"client_company" binding:"required"`
	PositionTitle      string `json:"position_title"`
	InvoiceAmountCents int64  `json:"invoice_amount_cents"`
}

// TransitionRequest is the body of POST /selections/:id/transition
type TransitionRequest struct {
	RequestedStatus string     `json:"requested_status" binding:"required"`
	ActorID         string     `json:"actor_id" binding:"required"`
	ActorRole       string     `json:"actor_role" binding:"required"`
	Note            string     `json:"note"`
	DueDate         *time.Time `json:"due_date"`
}

// RejectDraftRequest is the body of POST /selections/:id/reject-draft
type RejectDraftRequest struct {
	ActorID   string `json:"actor_id" binding:"required"`
	ActorRole string `json:"actor_role" binding:"required"`
	Note      string `json:"note"`
}

// SelectionResponse represents a selection in API responses
type SelectionResponse struct {
	ID            int64   `json:"id"`
	Status        string  `json:"status"`
	Package       string  `json:"package"`
	ClientCompany string  `json:"client_company"`
	PositionTitle string  `json:"position_title,omitempty"`
	AssignedHR    *string `json:"assigned_hr,omitempty"`
	ClosedAt      *string `json:"closed_at,omitempty"`
	Version       int64   `json:"version"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// HistoryEntryResponse represents one audit record in API responses
type HistoryEntryResponse struct {
	ID             int64   `json:"id"`
	PreviousStatus string  `json:"previous_status,omitempty"`
	NewStatus      string  `json:"new_status"`
	ActorID        string  `json:"actor_id,omitempty"`
	Note           string  `json:"note,omitempty"`
	DueDate        *string `json:"due_date,omitempty"`
	ChangedAt      string  `json:"changed_at"`
}

// ListSelectionsRequest represents query parameters for listing selections
type ListSelectionsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// CreateSelection handles POST /api/v1/selections
func (h *Handlers) CreateSelection(c *gin.Context) {
	var req CreateSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	selection, err := h.selectionService.Create(c.Request.Context(), service.CreateSelectionInput{
		Package:            req.Package,
		ClientCompany:      req.ClientCompany,
		PositionTitle:      req.PositionTitle,
		InvoiceAmountCents: req.InvoiceAmountCents,
	})
	if err != nil {
		h.logger.Error("Failed to create selection", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    toSelectionResponse(selection),
	})
}

// ListSelections handles GET /api/v1/selections
func (h *Handlers) ListSelections(c *gin.Context) {
	var req ListSelectionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}

	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	selections, err := h.selectionService.List(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.logger.Error("Failed to list selections", "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve selections",
		})
		return
	}

	responses := make([]SelectionResponse, 0, len(selections))
	for _, sel := range selections {
		responses = append(responses, toSelectionResponse(sel))
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    responses,
	})
}

// GetSelection handles GET /api/v1/selections/:id
func (h *Handlers) GetSelection(c *gin.Context) {
	id, ok := h.selectionID(c)
	if !ok {
		return
	}

	selection, err := h.selectionService.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toSelectionResponse(selection),
	})
}

// RequestTransition handles POST /api/v1/selections/:id/transition
func (h *Handlers) RequestTransition(c *gin.Context) {
	id, ok := h.selectionID(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	requested := domainwf.Status(req.RequestedStatus)
	if !requested.IsValid() {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   fmt.Sprintf("unknown status %q", req.RequestedStatus),
		})
		return
	}

	outcome, err := h.engine.RequestTransition(c.Request.Context(), appwf.TransitionRequest{
		SelectionID: id,
		Requested:   requested,
		Actor:       entity.Actor{ID: req.ActorID, Role: req.ActorRole},
		Note:        req.Note,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    outcome,
	})
}

// RejectDraft handles POST /api/v1/selections/:id/reject-draft
func (h *Handlers) RejectDraft(c *gin.Context) {
	id, ok := h.selectionID(c)
	if !ok {
		return
	}

	var req RejectDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	outcome, err := h.engine.RejectPendingArtifact(c.Request.Context(), id,
		entity.Actor{ID: req.ActorID, Role: req.ActorRole}, req.Note)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    outcome,
	})
}

// GetHistory handles GET /api/v1/selections/:id/history
func (h *Handlers) GetHistory(c *gin.Context) {
	id, ok := h.selectionID(c)
	if !ok {
		return
	}

	entries, err := h.engine.HistoryFor(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	responses := make([]HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toHistoryEntryResponse(entry))
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    responses,
	})
}

// ExportHistory handles GET /api/v1/selections/:id/history/export
func (h *Handlers) ExportHistory(c *gin.Context) {
	id, ok := h.selectionID(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=selection-%d-history.xlsx", id))

	if err := h.exportService.ExportHistory(c.Request.Context(), id, c.Writer); err != nil {
		h.logger.Error("Failed to export history", "selection_id", id, "error", err)
		// Headers may already be written; abort the stream
		c.Abort()
		return
	}
}

// ExportPipeline handles GET /api/v1/reports/pipeline
func (h *Handlers) ExportPipeline(c *gin.Context) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=pipeline.xlsx")

	if err := h.exportService.ExportPipeline(c.Request.Context(), c.Writer); err != nil {
		h.logger.Error("Failed to export pipeline", "error", err)
		c.Abort()
		return
	}
}

// ApproveJobCollection handles POST /api/v1/selections/:id/job-collection/approve
func (h *Handlers) ApproveJobCollection(c *gin.Context) {
	id, ok := h.selectionID(c)
	if !ok {
		return
	}

	if err := h.artifactService.ApproveJobCollection(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// ApproveAnnouncement handles POST /api/v1/selections/:id/announcement/approve
func (h *Handlers) ApproveAnnouncement(c *gin.Context) {
	id, ok := h.selectionID(c)
	if !ok {
		return
	}

	if err := h.artifactService.ApproveAnnouncement(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// MarkInvoicePaid handles POST /api/v1/invoices/:id/paid
func (h *Handlers) MarkInvoicePaid(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid invoice ID",
		})
		return
	}

	if err := h.artifactService.MarkInvoicePaid(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// selectionID parses the :id path parameter, writing a 400 on failure
func (h *Handlers) selectionID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid selection ID",
		})
		return 0, false
	}
	return id, true
}

// writeError maps workflow errors onto HTTP status codes. Guard denials
// carry their reason so clients can show actionable guidance.
func (h *Handlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainwf.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   err.Error(),
		})
	case errors.Is(err, domainwf.ErrGuardDenied):
		resp := Response{
			Success: false,
			Error:   err.Error(),
		}
		if reason, ok := domainwf.DeniedReason(err); ok {
			resp.Reason = string(reason)
		}
		c.JSON(http.StatusForbidden, resp)
	case errors.Is(err, domainwf.ErrTerminalState), errors.Is(err, domainwf.ErrConflict):
		c.JSON(http.StatusConflict, Response{
			Success: false,
			Error:   err.Error(),
		})
	case errors.Is(err, domainwf.ErrIllegalTransition):
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   err.Error(),
		})
	default:
		h.logger.Error("Request failed", "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "internal error",
		})
	}
}

func toSelectionResponse(s *entity.Selection) SelectionResponse {
	resp := SelectionResponse{
		ID:            s.ID,
		Status:        s.Status,
		Package:       s.Package,
		ClientCompany: s.ClientCompany,
		PositionTitle: s.PositionTitle,
		AssignedHR:    s.AssignedHR,
		Version:       s.Version,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     s.UpdatedAt.Format(time.RFC3339),
	}

	if s.ClosedAt != nil {
		closedAt := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &closedAt
	}

	return resp
}

func toHistoryEntryResponse(e *entity.StatusHistoryEntry) HistoryEntryResponse {
	resp := HistoryEntryResponse{
		ID:             e.ID,
		PreviousStatus: e.PreviousStatus,
		NewStatus:      e.NewStatus,
		ActorID:        e.ActorID,
		Note:           e.Note,
		ChangedAt:      e.ChangedAt.Format(time.RFC3339),
	}

	if e.DueDate != nil {
		dueDate := e.DueDate.Format(time.RFC3339)
		resp.DueDate = &dueDate
	}

	return resp
}
