package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zack-schrag/treeline-emergency-fund/internal/engine"
	apperrors "github.com/zack-schrag/treeline-emergency-fund/internal/errors"
	"github.com/zack-schrag/treeline-emergency-fund/internal/services"
)

// FundHandler handles runway evaluation and fund configuration requests.
type FundHandler struct {
	fundService  services.FundServicer
	auditService services.AuditServicer
}

// NewFundHandler creates a new FundHandler.
func NewFundHandler(fundService services.FundServicer, auditService services.AuditServicer) *FundHandler {
	return &FundHandler{fundService: fundService, auditService: auditService}
}

// AllocationRuleRequest is one allocation rule in a configuration or goal payload.
type AllocationRuleRequest struct {
	AccountID string  `json:"account_id" binding:"required,uuid"`
	Kind      string  `json:"allocation_type" binding:"required,allocation_kind"`
	Value     float64 `json:"allocation_value" binding:"min=0"`
}

func toAllocationRules(reqs []AllocationRuleRequest) []engine.AllocationRule {
	rules := make([]engine.AllocationRule, 0, len(reqs))
	for _, req := range reqs {
		rules = append(rules, engine.AllocationRule{
			AccountID: req.AccountID,
			Kind:      engine.AllocationKind(req.Kind),
			Value:     req.Value,
		})
	}
	return rules
}

// UpdateFundConfigRequest represents the full configuration payload.
type UpdateFundConfigRequest struct {
	LinkedGoalID           *string                 `json:"linked_goal_id" binding:"omitempty,uuid"`
	TargetMonths           *float64                `json:"target_months" binding:"omitempty,gt=0"`
	TargetMonthsIsOverride bool                    `json:"target_months_is_override"`
	ManualAllocations      []AllocationRuleRequest `json:"manual_allocations" binding:"omitempty,dive"`
	ExpenseAccountIDs      []string                `json:"expense_account_ids" binding:"omitempty,dive,uuid"`
	ExcludedTags           []string                `json:"excluded_tags"`
	LookbackMonths         int                     `json:"lookback_months" binding:"required,min=1"`
	Estimator              string                  `json:"estimator" binding:"required,estimator"`
}

// GetRunway evaluates the emergency fund runway as of now.
// @Summary     Evaluate runway
// @Description Compute the current fund balance, expense estimate, target, and status
// @Tags        fund
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.RunwayEvaluation "Runway evaluation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Calculation failed"
// @Router      /fund/runway [get]
func (h *FundHandler) GetRunway(c *gin.Context) {
	evaluation, err := h.fundService.EvaluateRunway(time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runway": evaluation})
}

// GetBreakdown returns the per-tag expense breakdown for the configured window.
// @Summary     Expense breakdown
// @Description Per-tag monthly expense breakdown over the lookback window
// @Tags        fund
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} engine.BreakdownEntry "Breakdown entries"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Calculation failed"
// @Router      /fund/breakdown [get]
func (h *FundHandler) GetBreakdown(c *gin.Context) {
	entries, err := h.fundService.GetBreakdown(time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"breakdown": entries})
}

// GetTags lists all known transaction tags.
// @Summary     List tags
// @Description All distinct transaction tags, for building exclusion filters
// @Tags        fund
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} string "Tag names"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fund/tags [get]
func (h *FundHandler) GetTags(c *gin.Context) {
	tags, err := h.fundService.ListTags()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// GetConfig returns the fund configuration.
// @Summary     Get fund configuration
// @Description The singleton fund configuration, with defaults before first save
// @Tags        fund
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.FundConfig "Configuration"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fund/config [get]
func (h *FundHandler) GetConfig(c *gin.Context) {
	cfg, err := h.fundService.GetConfig()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// UpdateConfig replaces the fund configuration.
// @Summary     Save fund configuration
// @Description Replace the singleton fund configuration
// @Tags        fund
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateFundConfigRequest true "Configuration"
// @Success     200 {object} models.FundConfig "Saved configuration"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Linked goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fund/config [put]
func (h *FundHandler) UpdateConfig(c *gin.Context) {
	var req UpdateFundConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cfg, err := h.fundService.SaveConfig(services.FundConfigInput{
		LinkedGoalID:           req.LinkedGoalID,
		TargetMonths:           req.TargetMonths,
		TargetMonthsIsOverride: req.TargetMonthsIsOverride,
		ManualAllocations:      toAllocationRules(req.ManualAllocations),
		ExpenseAccountIDs:      req.ExpenseAccountIDs,
		ExcludedTags:           req.ExcludedTags,
		LookbackMonths:         req.LookbackMonths,
		Estimator:              engine.Estimator(req.Estimator),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("SAVE_FUND_CONFIG", "fund_config", cfg.ID, c.ClientIP(),
		map[string]interface{}{"lookback_months": req.LookbackMonths, "estimator": req.Estimator})

	c.JSON(http.StatusOK, gin.H{"config": cfg})
}
