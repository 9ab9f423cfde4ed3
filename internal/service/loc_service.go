package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"payroll/internal/model"
	"payroll/internal/repository"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type LocRequest struct {
	Name              string          `json:"name" binding:"required"`
	Address           string          `json:"address"`
	MeetingRate       decimal.Decimal `json:"meeting_rate"`
	DayTimeRate       decimal.Decimal `json:"day_time_rate"`
	EveRate           decimal.Decimal `json:"eve_rate"`
	DayRate           decimal.Decimal `json:"day_rate"`
	AdminRate         decimal.Decimal `json:"admin_rate"`
	OnlineMeetingRate decimal.Decimal `json:"online_meeting_rate"`
	F2FMeetingRate    decimal.Decimal `json:"f2f_meeting_rate"`
	Status            string          `json:"status" binding:"omitempty,oneof=active inactive"`
	InactiveDate      *string         `json:"inactive_date"` // YYYY-MM-DD
}

type LocResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Address           string  `json:"address"`
	MeetingRate       string  `json:"meeting_rate"`
	DayTimeRate       string  `json:"day_time_rate"`
	EveRate           string  `json:"eve_rate"`
	DayRate           string  `json:"day_rate"`
	AdminRate         string  `json:"admin_rate"`
	OnlineMeetingRate string  `json:"online_meeting_rate"`
	F2FMeetingRate    string  `json:"f2f_meeting_rate"`
	Status            string  `json:"status"`
	InactiveDate      *string `json:"inactive_date"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// --- Interface ---

type LocService interface {
	ListLocs(ctx context.Context, query string) ([]LocResponse, error)
	GetLoc(ctx context.Context, id string) (LocResponse, error)
	CreateLoc(ctx context.Context, actor Actor, req LocRequest) (LocResponse, error)
	UpdateLoc(ctx context.Context, actor Actor, id string, req LocRequest) (LocResponse, error)
	DeleteLoc(ctx context.Context, actor Actor, id string) error
}

type locService struct {
	locRepo   repository.LocRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewLocService(
	locRepo repository.LocRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) LocService {
	return &locService{
		locRepo:   locRepo,
		auditRepo: auditRepo,
		txManager: txManager,
	}
}

// --- Implementation ---

func (s *locService) ListLocs(ctx context.Context, query string) ([]LocResponse, error) {
	locs, err := s.locRepo.List(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, storageErr("failed to fetch locs", err)
	}

	result := make([]LocResponse, 0, len(locs))
	for _, l := range locs {
		result = append(result, toLocResponse(l))
	}
	return result, nil
}

func (s *locService) GetLoc(ctx context.Context, id string) (LocResponse, error) {
	locID, err := uuid.Parse(id)
	if err != nil {
		return LocResponse{}, validationErr(fmt.Errorf("invalid loc id: %w", err))
	}

	loc, err := s.locRepo.FindByID(ctx, locID)
	if err != nil {
		return LocResponse{}, storageErr("loc not found", err)
	}
	return toLocResponse(*loc), nil
}

func (s *locService) CreateLoc(ctx context.Context, actor Actor, req LocRequest) (LocResponse, error) {
	var loc model.Loc
	if err := applyLocRequest(&loc, req); err != nil {
		return LocResponse{}, err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.locRepo.Create(txCtx, &loc); err != nil {
			if repository.IsUniqueViolation(err) {
				return validationErr(fmt.Errorf("loc %q already exists", loc.Name))
			}
			return storageErr("failed to create loc", err)
		}
		return recordAudit(txCtx, s.auditRepo, actor.UserID, model.ActionCreateLoc, loc.ID.String(), loc.Name, req)
	})
	if err != nil {
		return LocResponse{}, err
	}

	log.Infof("Loc %q created by %v", loc.Name, actor.UserID)
	return toLocResponse(loc), nil
}

func (s *locService) UpdateLoc(ctx context.Context, actor Actor, id string, req LocRequest) (LocResponse, error) {
	locID, err := uuid.Parse(id)
	if err != nil {
		return LocResponse{}, validationErr(fmt.Errorf("invalid loc id: %w", err))
	}

	var loc *model.Loc
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		loc, findErr = s.locRepo.FindByID(txCtx, locID)
		if findErr != nil {
			return storageErr("loc not found", findErr)
		}

		if err := applyLocRequest(loc, req); err != nil {
			return err
		}

		if err := s.locRepo.Update(txCtx, loc); err != nil {
			if repository.IsUniqueViolation(err) {
				return validationErr(fmt.Errorf("loc %q already exists", loc.Name))
			}
			return storageErr("failed to update loc", err)
		}
		return recordAudit(txCtx, s.auditRepo, actor.UserID, model.ActionUpdateLoc, loc.ID.String(), loc.Name, req)
	})
	if err != nil {
		return LocResponse{}, err
	}

	return toLocResponse(*loc), nil
}

func (s *locService) DeleteLoc(ctx context.Context, actor Actor, id string) error {
	locID, err := uuid.Parse(id)
	if err != nil {
		return validationErr(fmt.Errorf("invalid loc id: %w", err))
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		loc, err := s.locRepo.FindByID(txCtx, locID)
		if err != nil {
			return storageErr("loc not found", err)
		}
		if err := s.locRepo.Delete(txCtx, locID); err != nil {
			return storageErr("failed to delete loc", err)
		}
		return recordAudit(txCtx, s.auditRepo, actor.UserID, model.ActionDeleteLoc, loc.ID.String(), loc.Name, nil)
	})
}

// --- Validation ---

// applyLocRequest validates req and copies it onto loc. Every problem is
// reported, not just the first.
func applyLocRequest(loc *model.Loc, req LocRequest) error {
	var result *multierror.Error

	name := strings.TrimSpace(req.Name)
	if name == "" {
		result = multierror.Append(result, fmt.Errorf("name is required"))
	}

	rates := []struct {
		field string
		value decimal.Decimal
	}{
		{"meeting_rate", req.MeetingRate},
		{"day_time_rate", req.DayTimeRate},
		{"eve_rate", req.EveRate},
		{"day_rate", req.DayRate},
		{"admin_rate", req.AdminRate},
		{"online_meeting_rate", req.OnlineMeetingRate},
		{"f2f_meeting_rate", req.F2FMeetingRate},
	}
	for _, r := range rates {
		if r.value.IsNegative() {
			result = multierror.Append(result, fmt.Errorf("%s must not be negative", r.field))
		}
	}

	status := req.Status
	if status == "" {
		status = model.LocActive
	}
	if status != model.LocActive && status != model.LocInactive {
		result = multierror.Append(result, fmt.Errorf("status must be %s or %s", model.LocActive, model.LocInactive))
	}

	var inactiveDate *time.Time
	if req.InactiveDate != nil && *req.InactiveDate != "" {
		t, err := time.Parse("2006-01-02", *req.InactiveDate)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("inactive_date must be YYYY-MM-DD"))
		} else {
			inactiveDate = &t
		}
	}
	if status == model.LocInactive && (req.InactiveDate == nil || *req.InactiveDate == "") {
		result = multierror.Append(result, fmt.Errorf("inactive_date is required when status is %s", model.LocInactive))
	}

	if err := result.ErrorOrNil(); err != nil {
		return validationErr(err)
	}

	loc.Name = name
	loc.Address = req.Address
	loc.MeetingRate = req.MeetingRate.Round(2)
	loc.DayTimeRate = req.DayTimeRate.Round(2)
	loc.EveRate = req.EveRate.Round(2)
	loc.DayRate = req.DayRate.Round(2)
	loc.AdminRate = req.AdminRate.Round(2)
	loc.OnlineMeetingRate = req.OnlineMeetingRate.Round(2)
	loc.F2FMeetingRate = req.F2FMeetingRate.Round(2)
	loc.Status = status
	loc.InactiveDate = inactiveDate
	return nil
}

// --- Mapping ---

func toLocResponse(l model.Loc) LocResponse {
	resp := LocResponse{
		ID:                l.ID.String(),
		Name:              l.Name,
		Address:           l.Address,
		MeetingRate:       l.MeetingRate.StringFixed(2),
		DayTimeRate:       l.DayTimeRate.StringFixed(2),
		EveRate:           l.EveRate.StringFixed(2),
		DayRate:           l.DayRate.StringFixed(2),
		AdminRate:         l.AdminRate.StringFixed(2),
		OnlineMeetingRate: l.OnlineMeetingRate.StringFixed(2),
		F2FMeetingRate:    l.F2FMeetingRate.StringFixed(2),
		Status:            l.Status,
		CreatedAt:         l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         l.UpdatedAt.Format(time.RFC3339),
	}
	if l.InactiveDate != nil {
		s := l.InactiveDate.Format("2006-01-02")
		resp.InactiveDate = &s
	}
	return resp
}
