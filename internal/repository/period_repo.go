package repository

import (
	"context"

	"payroll/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PeriodRepository interface {
	List(ctx context.Context) ([]model.Period, error)
	ListByStatus(ctx context.Context, statuses ...string) ([]model.Period, error)
	FindByID(ctx context.Context, id uint) (*model.Period, error)
	FindByLabel(ctx context.Context, label string) (*model.Period, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	CreateIfMissing(ctx context.Context, period *model.Period) (bool, error)
}

type periodRepository struct {
	db *gorm.DB
}

func NewPeriodRepository(db *gorm.DB) PeriodRepository {
	return &periodRepository{db: db}
}

func (r *periodRepository) List(ctx context.Context) ([]model.Period, error) {
	var periods []model.Period
	if err := GetDB(ctx, r.db).Order("id").Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

func (r *periodRepository) ListByStatus(ctx context.Context, statuses ...string) ([]model.Period, error) {
	var periods []model.Period
	if err := GetDB(ctx, r.db).Where("status IN ?", statuses).Order("period").Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

func (r *periodRepository) FindByID(ctx context.Context, id uint) (*model.Period, error) {
	var period model.Period
	if err := GetDB(ctx, r.db).First(&period, id).Error; err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepository) FindByLabel(ctx context.Context, label string) (*model.Period, error) {
	var period model.Period
	if err := GetDB(ctx, r.db).First(&period, "period = ?", label).Error; err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := GetDB(ctx, r.db).Model(&model.Period{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateIfMissing inserts period unless a row with the same label exists.
// It reports whether a row was inserted; existing rows are never touched.
func (r *periodRepository) CreateIfMissing(ctx context.Context, period *model.Period) (bool, error) {
	res := GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "period"}},
		DoNothing: true,
	}).Create(period)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
