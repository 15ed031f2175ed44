package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/zmi-time/zmi-backend-go/internal/domain/audit"
	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/domain/holiday"
)

type HolidayServiceImpl struct {
	holidayRepo holiday.HolidayRepository
	auditor     audit.Recorder
}

func NewHolidayService(holidayRepo holiday.HolidayRepository, auditor audit.Recorder) holiday.HolidayService {
	return &HolidayServiceImpl{holidayRepo: holidayRepo, auditor: auditor}
}

func mapHolidayToResponse(h holiday.Holiday) holiday.HolidayResponse {
	return holiday.HolidayResponse{
		ID:        h.ID,
		Date:      h.Date.Format("2006-01-02"),
		Name:      h.Name,
		HalfDay:   h.HalfDay,
		CreatedAt: h.CreatedAt.Format(time.RFC3339),
		UpdatedAt: h.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) CreateHoliday(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	exists, err := s.holidayRepo.ExistsOnDate(ctx, tenantID, date, nil)
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to check holiday date: %w", err)
	}
	if exists {
		return holiday.HolidayResponse{}, holiday.ErrHolidayExists
	}

	created, err := s.holidayRepo.Create(ctx, holiday.Holiday{
		TenantID: tenantID,
		Date:     date,
		Name:     req.Name,
		HalfDay:  req.HalfDay,
	})
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "holiday.create",
		EntityType: "holiday",
		EntityID:   &created.ID,
		Detail:     map[string]interface{}{"date": req.Date, "name": created.Name},
	})

	return mapHolidayToResponse(created), nil
}

// ListHolidays implements holiday.HolidayService.
func (s *HolidayServiceImpl) ListHolidays(ctx context.Context, year int) ([]holiday.HolidayResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if year == 0 {
		year = time.Now().Year()
	}

	holidays, err := s.holidayRepo.ListByYear(ctx, tenantID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, mapHolidayToResponse(h))
	}

	return responses, nil
}

// UpdateHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) UpdateHoliday(ctx context.Context, req holiday.UpdateHolidayRequest) (holiday.HolidayResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	if req.Date != nil && *req.Date != "" {
		date, _ := time.Parse("2006-01-02", *req.Date)
		exists, err := s.holidayRepo.ExistsOnDate(ctx, tenantID, date, &req.ID)
		if err != nil {
			return holiday.HolidayResponse{}, fmt.Errorf("failed to check holiday date: %w", err)
		}
		if exists {
			return holiday.HolidayResponse{}, holiday.ErrHolidayExists
		}
	}

	if err := s.holidayRepo.Update(ctx, tenantID, req); err != nil {
		return holiday.HolidayResponse{}, err
	}

	updated, err := s.holidayRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "holiday.update",
		EntityType: "holiday",
		EntityID:   &updated.ID,
		Detail:     map[string]interface{}{"date": updated.Date.Format("2006-01-02"), "name": updated.Name},
	})

	return mapHolidayToResponse(updated), nil
}

// DeleteHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) DeleteHoliday(ctx context.Context, id string) error {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.holidayRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.holidayRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "holiday.delete",
		EntityType: "holiday",
		EntityID:   &id,
		Detail:     map[string]interface{}{"date": existing.Date.Format("2006-01-02"), "name": existing.Name},
	})

	return nil
}
