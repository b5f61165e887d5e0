package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/zack-schrag/treeline-emergency-fund/internal/engine"
	apperrors "github.com/zack-schrag/treeline-emergency-fund/internal/errors"
	"github.com/zack-schrag/treeline-emergency-fund/internal/models"
	"github.com/zack-schrag/treeline-emergency-fund/internal/pagination"
)

// goalService handles savings goal business logic.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a savings goal with its allocation list.
func (s *goalService) CreateGoal(name string, targetAmount int64, allocations []engine.AllocationRule, icon string) (*models.Goal, error) {
	encoded, err := engine.EncodeAllocations(allocations)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	goal := &models.Goal{
		Name:         name,
		TargetAmount: targetAmount,
		Allocations:  encoded,
		Icon:         icon,
	}
	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// GetGoals returns a paginated list of goals.
func (s *goalService) GetGoals(page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Goal{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := base.Order("created_at").Scopes(pagination.Paginate(page)).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID returns a goal by id.
func (s *goalService) GetGoalByID(id string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ?", id).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal updates a goal's fields. A nil allocations slice leaves the
// stored allocation list unchanged.
func (s *goalService) UpdateGoal(id, name string, targetAmount *int64, allocations []engine.AllocationRule, icon *string) (*models.Goal, error) {
	goal, err := s.GetGoalByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if targetAmount != nil {
		updates["target_amount"] = *targetAmount
	}
	if allocations != nil {
		encoded, err := engine.EncodeAllocations(allocations)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		updates["allocations"] = encoded
	}
	if icon != nil {
		updates["icon"] = *icon
	}

	if len(updates) > 0 {
		if err := s.db.Model(goal).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return goal, nil
}

// DeleteGoal soft-deletes a goal. A goal currently linked to the fund
// configuration cannot be deleted; unlink it first.
func (s *goalService) DeleteGoal(id string) error {
	goal, err := s.GetGoalByID(id)
	if err != nil {
		return err
	}

	var linked int64
	if err := s.db.Model(&models.FundConfig{}).Where("linked_goal_id = ?", id).Count(&linked).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if linked > 0 {
		return apperrors.ErrGoalLinked
	}

	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
