package tariff

import "errors"

var (
	ErrDayPlanNotFound   = errors.New("day plan not found")
	ErrDayPlanCodeExists = errors.New("day plan code already exists")
	ErrDayPlanInUse      = errors.New("day plan is referenced by a tariff and cannot be deleted")
	ErrTariffNotFound    = errors.New("tariff not found")
	ErrTariffCodeExists  = errors.New("tariff code already exists")
	ErrTariffInUse       = errors.New("tariff is assigned to employees and cannot be deleted")
)
