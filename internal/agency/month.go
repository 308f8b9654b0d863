package agency

import (
	"context"
	"fmt"

	"xbitocom/internal/base"
	"xbitocom/internal/finance"
	"xbitocom/internal/personnel"
	"xbitocom/internal/telemetry"

	"go.uber.org/zap"
)

type MonthResult struct {
	Month       int  `json:"month"`
	Maintenance int  `json:"maintenance"`
	Salaries    int  `json:"salaries"`
	OneTime     int  `json:"one_time"`
	Balance     int  `json:"balance"`
	Overdrawn   bool `json:"overdrawn"`
	Trained     int  `json:"trained"`
}

// AdvanceMonth bills upkeep for the month that just ended and opens the
// next one. Bills are charged even into overdraft. Trainees go back to
// work.
func (a *Agency) AdvanceMonth(ctx context.Context) (MonthResult, error) {
	ledger, err := a.Ledger.Get(ctx)
	if err != nil {
		return MonthResult{}, err
	}
	bases, err := a.Bases.List(ctx)
	if err != nil {
		return MonthResult{}, err
	}
	roster, err := a.Personnel.List(ctx)
	if err != nil {
		return MonthResult{}, err
	}

	res := MonthResult{}
	for _, b := range bases {
		upkeep := base.MonthlyMaintenance(b)
		if err := ledger.Charge(finance.Recurring, "maintenance", fmt.Sprintf("upkeep %s", b.Name), upkeep); err != nil {
			return MonthResult{}, err
		}
		res.Maintenance += upkeep
	}

	returning := []personnel.Personnel{}
	for _, p := range roster {
		salary, err := personnel.Salary(p.Role)
		if err != nil {
			return MonthResult{}, err
		}
		res.Salaries += salary / 12
		if p.Status == personnel.StatusTraining {
			p.Status = personnel.StatusAvailable
			if p.AssignedFacilityID != "" {
				p.Status = personnel.StatusWorking
			}
			returning = append(returning, p)
		}
	}
	if err := ledger.Charge(finance.Recurring, "salary", "payroll", res.Salaries); err != nil {
		return MonthResult{}, err
	}

	res.OneTime = ledger.Totals(ledger.Month)[finance.OneTime]
	ledger.Month++
	res.Month = ledger.Month
	res.Balance = ledger.Balance
	res.Overdrawn = ledger.Balance < 0
	res.Trained = len(returning)

	if err := a.Personnel.UpdateMany(ctx, returning); err != nil {
		return MonthResult{}, err
	}
	if err := a.Ledger.Update(ctx, ledger); err != nil {
		return MonthResult{}, err
	}

	a.record(telemetry.EventMonthAdvanced, telemetry.EventMetadata{
		"month":     res.Month,
		"recurring": res.Maintenance + res.Salaries,
		"one_time":  res.OneTime,
		"balance":   res.Balance,
	})
	if res.Overdrawn {
		a.logger.Warn("agency overdrawn", zap.Int("month", res.Month), zap.Int("balance", res.Balance))
	} else {
		a.logger.Info("month advanced", zap.Int("month", res.Month), zap.Int("balance", res.Balance))
	}
	return res, nil
}
