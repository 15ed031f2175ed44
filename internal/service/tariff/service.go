package tariff

import (
	"context"
	"fmt"
	"time"

	"github.com/zmi-time/zmi-backend-go/internal/domain/audit"
	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tariff"
)

type TariffServiceImpl struct {
	dayPlanRepo tariff.DayPlanRepository
	tariffRepo  tariff.TariffRepository
	auditor     audit.Recorder
}

func NewTariffService(
	dayPlanRepo tariff.DayPlanRepository,
	tariffRepo tariff.TariffRepository,
	auditor audit.Recorder,
) tariff.TariffService {
	return &TariffServiceImpl{
		dayPlanRepo: dayPlanRepo,
		tariffRepo:  tariffRepo,
		auditor:     auditor,
	}
}

func minuteClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

func mapDayPlanToResponse(plan tariff.DayPlan) tariff.DayPlanResponse {
	response := tariff.DayPlanResponse{
		ID:                 plan.ID,
		Code:               plan.Code,
		Name:               plan.Name,
		TargetMinutes:      plan.TargetMinutes,
		RoundComeUpMinutes: plan.RoundComeUpMinutes,
		RoundGoDownMinutes: plan.RoundGoDownMinutes,
		GraceComeMinutes:   plan.GraceComeMinutes,
		BreakRules:         make([]tariff.BreakRuleRequest, 0, len(plan.BreakRules)),
		CreatedAt:          plan.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          plan.UpdatedAt.Format(time.RFC3339),
	}
	if plan.FrameEndMinutes > plan.FrameStartMinutes {
		response.FrameStart = minuteClock(plan.FrameStartMinutes)
		response.FrameEnd = minuteClock(plan.FrameEndMinutes)
	}
	if plan.BreakEndMinutes > plan.BreakStartMinutes {
		response.BreakStart = minuteClock(plan.BreakStartMinutes)
		response.BreakEnd = minuteClock(plan.BreakEndMinutes)
	}
	for _, rule := range plan.BreakRules {
		response.BreakRules = append(response.BreakRules, tariff.BreakRuleRequest{
			AfterMinutes: rule.AfterMinutes,
			BreakMinutes: rule.BreakMinutes,
		})
	}
	return response
}

func mapTariffToResponse(t tariff.Tariff) tariff.TariffResponse {
	return tariff.TariffResponse{
		ID:                 t.ID,
		Code:               t.Code,
		Name:               t.Name,
		WeekdayPlanIDs:     t.WeekdayPlanIDs,
		FlextimeCapMinutes: t.FlextimeCapMinutes,
		CreatedAt:          t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          t.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateDayPlan implements tariff.TariffService.
func (s *TariffServiceImpl) CreateDayPlan(ctx context.Context, req tariff.CreateDayPlanRequest) (tariff.DayPlanResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return tariff.DayPlanResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return tariff.DayPlanResponse{}, err
	}

	exists, err := s.dayPlanRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return tariff.DayPlanResponse{}, fmt.Errorf("failed to check day plan code: %w", err)
	}
	if exists {
		return tariff.DayPlanResponse{}, tariff.ErrDayPlanCodeExists
	}

	rules := make([]tariff.BreakRule, 0, len(req.BreakRules))
	for _, rule := range req.BreakRules {
		rules = append(rules, tariff.BreakRule{
			AfterMinutes: rule.AfterMinutes,
			BreakMinutes: rule.BreakMinutes,
		})
	}

	created, err := s.dayPlanRepo.Create(ctx, tariff.DayPlan{
		TenantID:           tenantID,
		Code:               req.Code,
		Name:               req.Name,
		TargetMinutes:      req.TargetMinutes,
		FrameStartMinutes:  req.FrameStartMinutes,
		FrameEndMinutes:    req.FrameEndMinutes,
		RoundComeUpMinutes: req.RoundComeUpMinutes,
		RoundGoDownMinutes: req.RoundGoDownMinutes,
		GraceComeMinutes:   req.GraceComeMinutes,
		BreakStartMinutes:  req.BreakStartMinutes,
		BreakEndMinutes:    req.BreakEndMinutes,
		BreakRules:         rules,
	})
	if err != nil {
		return tariff.DayPlanResponse{}, fmt.Errorf("failed to create day plan: %w", err)
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "day_plan.create",
		EntityType: "day_plan",
		EntityID:   &created.ID,
		Detail:     map[string]interface{}{"code": created.Code, "name": created.Name},
	})

	return mapDayPlanToResponse(created), nil
}

// GetDayPlan implements tariff.TariffService.
func (s *TariffServiceImpl) GetDayPlan(ctx context.Context, id string) (tariff.DayPlanResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return tariff.DayPlanResponse{}, err
	}

	found, err := s.dayPlanRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return tariff.DayPlanResponse{}, err
	}

	return mapDayPlanToResponse(found), nil
}

// ListDayPlans implements tariff.TariffService.
func (s *TariffServiceImpl) ListDayPlans(ctx context.Context) ([]tariff.DayPlanResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	plans, err := s.dayPlanRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list day plans: %w", err)
	}

	responses := make([]tariff.DayPlanResponse, 0, len(plans))
	for _, plan := range plans {
		responses = append(responses, mapDayPlanToResponse(plan))
	}

	return responses, nil
}

// UpdateDayPlan implements tariff.TariffService.
func (s *TariffServiceImpl) UpdateDayPlan(ctx context.Context, req tariff.UpdateDayPlanRequest) (tariff.DayPlanResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return tariff.DayPlanResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return tariff.DayPlanResponse{}, err
	}

	if err := s.dayPlanRepo.Update(ctx, tenantID, req); err != nil {
		return tariff.DayPlanResponse{}, err
	}

	updated, err := s.dayPlanRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return tariff.DayPlanResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "day_plan.update",
		EntityType: "day_plan",
		EntityID:   &updated.ID,
		Detail:     map[string]interface{}{"code": updated.Code, "name": updated.Name},
	})

	return mapDayPlanToResponse(updated), nil
}

// DeleteDayPlan implements tariff.TariffService. Plans still referenced by
// a tariff cannot be deleted.
func (s *TariffServiceImpl) DeleteDayPlan(ctx context.Context, id string) error {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.dayPlanRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	count, err := s.dayPlanRepo.CountTariffReferences(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to count tariff references: %w", err)
	}
	if count > 0 {
		return tariff.ErrDayPlanInUse
	}

	if err := s.dayPlanRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "day_plan.delete",
		EntityType: "day_plan",
		EntityID:   &id,
		Detail:     map[string]interface{}{"code": existing.Code, "name": existing.Name},
	})

	return nil
}

// CreateTariff implements tariff.TariffService.
func (s *TariffServiceImpl) CreateTariff(ctx context.Context, req tariff.CreateTariffRequest) (tariff.TariffResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return tariff.TariffResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return tariff.TariffResponse{}, err
	}

	exists, err := s.tariffRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return tariff.TariffResponse{}, fmt.Errorf("failed to check tariff code: %w", err)
	}
	if exists {
		return tariff.TariffResponse{}, tariff.ErrTariffCodeExists
	}

	if err := s.checkPlanIDs(ctx, tenantID, req.WeekdayPlanIDs); err != nil {
		return tariff.TariffResponse{}, err
	}

	created, err := s.tariffRepo.Create(ctx, tariff.Tariff{
		TenantID:           tenantID,
		Code:               req.Code,
		Name:               req.Name,
		WeekdayPlanIDs:     req.WeekdayPlanIDs,
		FlextimeCapMinutes: req.FlextimeCapMinutes,
	})
	if err != nil {
		return tariff.TariffResponse{}, fmt.Errorf("failed to create tariff: %w", err)
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "tariff.create",
		EntityType: "tariff",
		EntityID:   &created.ID,
		Detail:     map[string]interface{}{"code": created.Code, "name": created.Name},
	})

	return mapTariffToResponse(created), nil
}

func (s *TariffServiceImpl) checkPlanIDs(ctx context.Context, tenantID string, planIDs [7]*string) error {
	for _, planID := range planIDs {
		if planID == nil {
			continue
		}
		if _, err := s.dayPlanRepo.GetByID(ctx, tenantID, *planID); err != nil {
			return err
		}
	}
	return nil
}

// GetTariff implements tariff.TariffService.
func (s *TariffServiceImpl) GetTariff(ctx context.Context, id string) (tariff.TariffResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return tariff.TariffResponse{}, err
	}

	found, err := s.tariffRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return tariff.TariffResponse{}, err
	}

	return mapTariffToResponse(found), nil
}

// ListTariffs implements tariff.TariffService.
func (s *TariffServiceImpl) ListTariffs(ctx context.Context) ([]tariff.TariffResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tariffs, err := s.tariffRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tariffs: %w", err)
	}

	responses := make([]tariff.TariffResponse, 0, len(tariffs))
	for _, t := range tariffs {
		responses = append(responses, mapTariffToResponse(t))
	}

	return responses, nil
}

// UpdateTariff implements tariff.TariffService.
func (s *TariffServiceImpl) UpdateTariff(ctx context.Context, req tariff.UpdateTariffRequest) (tariff.TariffResponse, error) {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return tariff.TariffResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return tariff.TariffResponse{}, err
	}

	if req.WeekdayPlanIDs != nil {
		if err := s.checkPlanIDs(ctx, tenantID, *req.WeekdayPlanIDs); err != nil {
			return tariff.TariffResponse{}, err
		}
	}

	if err := s.tariffRepo.Update(ctx, tenantID, req); err != nil {
		return tariff.TariffResponse{}, err
	}

	updated, err := s.tariffRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return tariff.TariffResponse{}, err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "tariff.update",
		EntityType: "tariff",
		EntityID:   &updated.ID,
		Detail:     map[string]interface{}{"code": updated.Code, "name": updated.Name},
	})

	return mapTariffToResponse(updated), nil
}

// DeleteTariff implements tariff.TariffService. Tariffs assigned to
// employees cannot be deleted.
func (s *TariffServiceImpl) DeleteTariff(ctx context.Context, id string) error {
	tenantID, err := auth.TenantIDFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.tariffRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	count, err := s.tariffRepo.CountEmployeeReferences(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to count employee references: %w", err)
	}
	if count > 0 {
		return tariff.ErrTariffInUse
	}

	if err := s.tariffRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.auditor.Record(ctx, audit.Event{
		TenantID:   tenantID,
		Action:     "tariff.delete",
		EntityType: "tariff",
		EntityID:   &id,
		Detail:     map[string]interface{}{"code": existing.Code, "name": existing.Name},
	})

	return nil
}
