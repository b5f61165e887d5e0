package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/zack-schrag/treeline-emergency-fund/internal/errors"
	"github.com/zack-schrag/treeline-emergency-fund/internal/pagination"
	"github.com/zack-schrag/treeline-emergency-fund/internal/services"
)

// SnapshotHandler handles runway snapshot history requests.
type SnapshotHandler struct {
	snapshotService services.SnapshotServicer
	auditService    services.AuditServicer
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshotService services.SnapshotServicer, auditService services.AuditServicer) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService, auditService: auditService}
}

// CreateSnapshotRequest represents the capture payload. SnapshotDate defaults
// to today when omitted.
type CreateSnapshotRequest struct {
	SnapshotDate string `json:"snapshot_date" binding:"omitempty,datetime=2006-01-02"`
	Notes        string `json:"notes" binding:"max=500"`
}

// CreateSnapshot captures the current runway evaluation under a calendar date.
// @Summary     Capture snapshot
// @Description Evaluate the runway and store it under the given date; same-date captures overwrite
// @Tags        snapshots
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSnapshotRequest true "Snapshot details"
// @Success     201 {object} models.FundSnapshot "Snapshot stored"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Calculation failed"
// @Router      /fund/snapshots [post]
func (h *SnapshotHandler) CreateSnapshot(c *gin.Context) {
	var req CreateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	now := time.Now()
	date := now
	if req.SnapshotDate != "" {
		parsed, err := time.Parse("2006-01-02", req.SnapshotDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "snapshot_date must be YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	snapshot, err := h.snapshotService.Capture(date, req.Notes, now)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CAPTURE_SNAPSHOT", "fund_snapshot", snapshot.ID, c.ClientIP(),
		map[string]interface{}{"snapshot_date": snapshot.SnapshotDate.Format("2006-01-02")})

	c.JSON(http.StatusCreated, gin.H{"snapshot": snapshot})
}

// GetSnapshots lists stored snapshots, most recent first.
// @Summary     List snapshots
// @Description Paginated snapshot history ordered by date descending
// @Tags        snapshots
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.FundSnapshot] "Paginated snapshots"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fund/snapshots [get]
func (h *SnapshotHandler) GetSnapshots(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.snapshotService.List(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteSnapshot deletes a snapshot by id. Deleting a missing id succeeds.
// @Summary     Delete snapshot
// @Description Remove one snapshot from the history; idempotent
// @Tags        snapshots
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Snapshot ID"
// @Success     200 {object} MessageResponse "Snapshot deleted"
// @Failure     400 {object} ErrorResponse "Invalid snapshot ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fund/snapshots/{id} [delete]
func (h *SnapshotHandler) DeleteSnapshot(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.snapshotService.Delete(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_SNAPSHOT", "fund_snapshot", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Snapshot deleted successfully"})
}
