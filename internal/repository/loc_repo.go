package repository

import (
	"context"

	"payroll/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocRepository interface {
	Create(ctx context.Context, loc *model.Loc) error
	Update(ctx context.Context, loc *model.Loc) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Loc, error)
	FindByName(ctx context.Context, name string) (*model.Loc, error)
	List(ctx context.Context, query string) ([]model.Loc, error)
	Count(ctx context.Context) (int64, error)
}

type locRepository struct {
	db *gorm.DB
}

func NewLocRepository(db *gorm.DB) LocRepository {
	return &locRepository{db: db}
}

func (r *locRepository) Create(ctx context.Context, loc *model.Loc) error {
	return GetDB(ctx, r.db).Create(loc).Error
}

func (r *locRepository) Update(ctx context.Context, loc *model.Loc) error {
	return GetDB(ctx, r.db).Save(loc).Error
}

func (r *locRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Loc{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *locRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Loc, error) {
	var loc model.Loc
	if err := GetDB(ctx, r.db).First(&loc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locRepository) FindByName(ctx context.Context, name string) (*model.Loc, error) {
	var loc model.Loc
	if err := GetDB(ctx, r.db).First(&loc, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locRepository) List(ctx context.Context, query string) ([]model.Loc, error) {
	var locs []model.Loc
	db := GetDB(ctx, r.db)
	if query != "" {
		like := "%" + query + "%"
		db = db.Where("name ILIKE ? OR address ILIKE ?", like, like)
	}
	if err := db.Order("name asc").Find(&locs).Error; err != nil {
		return nil, err
	}
	return locs, nil
}

// Count returns the number of Loc rows. Zero means no rate configuration.
func (r *locRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Loc{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
