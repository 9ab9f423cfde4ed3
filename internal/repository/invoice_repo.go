package repository

import (
	"context"
	"time"

	"payroll/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceListFilter narrows List. Empty fields match everything.
type InvoiceListFilter struct {
	Query  string     // partial match on user name/email, month or status
	Month  string     // exact period label
	Status string     // exact status
	UserID *uuid.UUID // restrict to one owner
	Page   int
	Limit  int
}

// StatusTotal is one row of the per-status aggregation of a period.
type StatusTotal struct {
	Status   string
	Count    int64
	Amount   int64
	Expenses int64
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	Update(ctx context.Context, invoice *model.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	ExistsForUserMonth(ctx context.Context, userID uuid.UUID, month string, excludeID *uuid.UUID) (bool, error)
	List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error)
	ListByMonth(ctx context.Context, month string) ([]model.Invoice, error)
	StatusTotalsByMonth(ctx context.Context, month string) ([]StatusTotal, error)
	StatusTotals(ctx context.Context, userID *uuid.UUID) ([]StatusTotal, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	BulkUpdateStatus(ctx context.Context, month string, from []string, to string) (int64, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Omit("User").Save(invoice).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Invoice{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).Preload("User").First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) ExistsForUserMonth(ctx context.Context, userID uuid.UUID, month string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := GetDB(ctx, r.db).Model(&model.Invoice{}).Where("user_id = ? AND month = ?", userID, month)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *invoiceRepository) applyFilter(db *gorm.DB, f InvoiceListFilter) *gorm.DB {
	query := db.Joins("JOIN users ON users.id = invoices.user_id")
	if f.Query != "" {
		like := "%" + f.Query + "%"
		query = query.Where(
			"users.name ILIKE ? OR users.email ILIKE ? OR invoices.month ILIKE ? OR invoices.status ILIKE ?",
			like, like, like, like,
		)
	}
	if f.Month != "" {
		query = query.Where("invoices.month = ?", f.Month)
	}
	if f.Status != "" {
		query = query.Where("invoices.status = ?", f.Status)
	}
	if f.UserID != nil {
		query = query.Where("invoices.user_id = ?", *f.UserID)
	}
	return query
}

func (r *invoiceRepository) List(ctx context.Context, f InvoiceListFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	if err := r.applyFilter(db.Model(&model.Invoice{}), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	if err := r.applyFilter(db.Preload("User"), f).
		Order("invoices.month desc, invoices.created_at desc").
		Offset(offset).Limit(f.Limit).
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func (r *invoiceRepository) ListByMonth(ctx context.Context, month string) ([]model.Invoice, error) {
	var invoices []model.Invoice
	if err := GetDB(ctx, r.db).Preload("User").
		Where("month = ?", month).
		Order("created_at asc").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// StatusTotalsByMonth groups a period's invoices by stored status.
func (r *invoiceRepository) StatusTotalsByMonth(ctx context.Context, month string) ([]StatusTotal, error) {
	var rows []StatusTotal
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount, COALESCE(SUM(expenses), 0) AS expenses").
		Where("month = ?", month).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// StatusTotals groups every invoice by stored status, or only those of
// userID when it is set.
func (r *invoiceRepository) StatusTotals(ctx context.Context, userID *uuid.UUID) ([]StatusTotal, error) {
	var rows []StatusTotal
	query := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount, COALESCE(SUM(expenses), 0) AS expenses")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := GetDB(ctx, r.db).Model(&model.Invoice{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BulkUpdateStatus sets status to on every invoice of month, or only on
// those whose status is in from when from is not empty. It is a single
// UPDATE statement.
func (r *invoiceRepository) BulkUpdateStatus(ctx context.Context, month string, from []string, to string) (int64, error) {
	query := GetDB(ctx, r.db).Model(&model.Invoice{}).Where("month = ?", month)
	if len(from) > 0 {
		query = query.Where("status IN ?", from)
	}
	res := query.Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}
