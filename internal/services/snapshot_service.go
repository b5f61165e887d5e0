package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/zack-schrag/treeline-emergency-fund/internal/errors"
	"github.com/zack-schrag/treeline-emergency-fund/internal/models"
	"github.com/zack-schrag/treeline-emergency-fund/internal/pagination"
)

// snapshotService maintains the date-keyed runway snapshot history.
type snapshotService struct {
	db          *gorm.DB
	fundService FundServicer
}

// NewSnapshotService creates a new SnapshotServicer.
func NewSnapshotService(db *gorm.DB, fundService FundServicer) SnapshotServicer {
	return &snapshotService{db: db, fundService: fundService}
}

// Capture evaluates the runway as of now and upserts the result under the
// given calendar date.
func (s *snapshotService) Capture(date time.Time, notes string, now time.Time) (*models.FundSnapshot, error) {
	eval, err := s.fundService.EvaluateRunway(now)
	if err != nil {
		return nil, err
	}
	return s.Upsert(date, eval.FundBalance, eval.MonthlyExpenses, eval.MonthsOfRunway, notes)
}

// Upsert writes a snapshot keyed on the calendar date. A second call on the
// same date overwrites only the numeric fields of the existing row, leaving
// its id, notes, and created_at untouched. Concurrent writers on the same
// date race benignly; the last writer's values stand.
func (s *snapshotService) Upsert(date time.Time, fundBalance, monthlyExpenses int64, monthsOfRunway float64, notes string) (*models.FundSnapshot, error) {
	day := truncateToDate(date)

	var existing models.FundSnapshot
	err := s.db.Where("snapshot_date = ?", day).First(&existing).Error
	switch {
	case err == nil:
		if err := s.db.Model(&existing).Updates(map[string]interface{}{
			"fund_balance":     fundBalance,
			"monthly_expenses": monthlyExpenses,
			"months_of_runway": monthsOfRunway,
		}).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		snapshot := &models.FundSnapshot{
			SnapshotDate:    day,
			FundBalance:     fundBalance,
			MonthlyExpenses: monthlyExpenses,
			MonthsOfRunway:  monthsOfRunway,
			Notes:           notes,
		}
		if err := s.db.Create(snapshot).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return snapshot, nil
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// List returns snapshots ordered most recent first.
func (s *snapshotService) List(page pagination.PageRequest) (*pagination.PageResponse[models.FundSnapshot], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.FundSnapshot{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var snapshots []models.FundSnapshot
	if err := base.Order("snapshot_date DESC").Scopes(pagination.Paginate(page)).Find(&snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(snapshots, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Delete removes a snapshot by id. Deleting a nonexistent id is a no-op.
func (s *snapshotService) Delete(id string) error {
	if err := s.db.Delete(&models.FundSnapshot{}, "id = ?", id).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// truncateToDate normalizes a timestamp to midnight UTC so snapshots key on
// the calendar date alone.
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
