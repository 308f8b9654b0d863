package agency

import (
	"context"
	"fmt"

	"xbitocom/internal/base"
	"xbitocom/internal/facility"
	"xbitocom/internal/finance"
	"xbitocom/internal/personnel"
	"xbitocom/internal/telemetry"

	"go.uber.org/zap"
)

type BuildResult struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Facility facility.Facility `json:"facility"`
	Cost     int               `json:"cost"`
}

// BuildFacility adds a level 1 facility of type t when the base has land,
// power and the agency has funds.
func (a *Agency) BuildFacility(ctx context.Context, baseID string, t facility.Type) (BuildResult, error) {
	def, err := facility.Lookup(t)
	if err != nil {
		return BuildResult{}, err
	}
	b, err := a.getBase(ctx, baseID)
	if err != nil {
		return BuildResult{}, err
	}
	if used := base.Size(b, a.logger); used+def.Size > b.MaxSize {
		return BuildResult{
			Message: fmt.Sprintf("not enough land at %s for a %s (%d+%d > %d)", b.Name, def.Name, used, def.Size, b.MaxSize),
		}, nil
	}
	f, err := facility.Create(t, 1)
	if err != nil {
		return BuildResult{}, err
	}
	b.Facilities = append(b.Facilities, f)
	if msg, ok := powered(&b); !ok {
		return BuildResult{Message: msg}, nil
	}

	ledger, err := a.Ledger.Get(ctx)
	if err != nil {
		return BuildResult{}, err
	}
	spent, err := ledger.Spend(finance.OneTime, "construction", fmt.Sprintf("build %s at %s", def.Name, b.Name), def.BaseCost)
	if err != nil {
		return BuildResult{}, err
	}
	if !spent.Success {
		return BuildResult{Message: spent.Message}, nil
	}

	if err := a.Bases.Update(ctx, b); err != nil {
		return BuildResult{}, err
	}
	if err := a.Ledger.Update(ctx, ledger); err != nil {
		return BuildResult{}, err
	}

	a.record(telemetry.EventFacilityBuilt, telemetry.EventMetadata{
		"base_id":       b.ID,
		"facility_id":   f.ID,
		"facility_type": string(t),
		"cost":          def.BaseCost,
	})
	a.logger.Info("facility built",
		zap.String("base_id", b.ID),
		zap.String("facility_type", string(t)),
	)
	return BuildResult{
		Success:  true,
		Message:  fmt.Sprintf("%s built at %s", def.Name, b.Name),
		Facility: f,
		Cost:     def.BaseCost,
	}, nil
}

// UpgradeFacility raises a facility one level. Crew of anything but a
// barracks go back to the base pool.
func (a *Agency) UpgradeFacility(ctx context.Context, baseID, facilityID string) (facility.UpgradeResult, error) {
	b, err := a.getBase(ctx, baseID)
	if err != nil {
		return facility.UpgradeResult{}, err
	}
	i, ok := b.FacilityIndex(facilityID)
	if !ok {
		return facility.UpgradeResult{}, fmt.Errorf("%w: facility %s at base %s", ErrNotFound, facilityID, baseID)
	}
	old := b.Facilities[i]

	res, err := facility.Upgrade(&old)
	if err != nil || !res.Success {
		return res, err
	}
	b.Facilities[i] = res.Facility
	if msg, ok := powered(&b); !ok {
		return facility.UpgradeResult{Message: msg, Facility: old}, nil
	}

	ledger, err := a.Ledger.Get(ctx)
	if err != nil {
		return facility.UpgradeResult{}, err
	}
	spent, err := ledger.Spend(finance.OneTime, "construction", res.Message, res.Cost)
	if err != nil {
		return facility.UpgradeResult{}, err
	}
	if !spent.Success {
		return facility.UpgradeResult{Message: spent.Message, Facility: old, Cost: res.Cost}, nil
	}

	released := make([]personnel.Personnel, 0, len(old.Personnel))
	for _, id := range old.Personnel {
		if res.Facility.Has(id) {
			continue
		}
		p, err := a.getPersonnel(ctx, id)
		if err != nil {
			return facility.UpgradeResult{}, err
		}
		p.Release()
		released = append(released, p)
		b.Personnel = append(b.Personnel, id)
	}

	if err := a.Personnel.UpdateMany(ctx, released); err != nil {
		return facility.UpgradeResult{}, err
	}
	if err := a.Bases.Update(ctx, b); err != nil {
		return facility.UpgradeResult{}, err
	}
	if err := a.Ledger.Update(ctx, ledger); err != nil {
		return facility.UpgradeResult{}, err
	}

	a.record(telemetry.EventFacilityUpgraded, telemetry.EventMetadata{
		"base_id":       b.ID,
		"facility_id":   facilityID,
		"facility_type": string(old.Type),
		"level":         res.Facility.Level,
		"cost":          res.Cost,
		"released":      len(released),
	})
	return res, nil
}

// powered reports whether b still runs with a non-negative surplus.
func powered(b *base.Base) (string, bool) {
	p, err := base.PowerStatus(b)
	if err != nil {
		return err.Error(), false
	}
	if p.Surplus < 0 {
		return fmt.Sprintf("insufficient power at %s (%d short)", b.Name, -p.Surplus), false
	}
	return "", true
}
