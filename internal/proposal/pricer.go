package proposal

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/senecapartners/seneca-cms-backend/internal/inventory"
)

// PlanLookup finds the plan of a floor, returning nil when there is none.
type PlanLookup interface {
	PlanForFloor(ctx context.Context, siteID, floorID uint) (*inventory.Plan, error)
}

// ApplyPricing copies the plan's price per m² onto the proposal and
// recomputes the total. A floor without a plan prices at zero.
func ApplyPricing(p *Proposal, plan *inventory.Plan) {
	price := decimal.Zero
	if plan != nil {
		price = plan.PricePerM2
	}
	p.PricePerM2 = price.Round(2)
	p.TotalPrice = p.PricePerM2.Mul(p.Area).Round(2)
}

// Pricer must run before every Save of a Proposal.
type Pricer struct {
	plans PlanLookup
}

func NewPricer(plans PlanLookup) *Pricer {
	return &Pricer{plans: plans}
}

func (pr *Pricer) Price(ctx context.Context, p *Proposal) error {
	plan, err := pr.plans.PlanForFloor(ctx, p.SiteID, p.FloorID)
	if err != nil {
		return fmt.Errorf("failed to load plan for floor %d: %w", p.FloorID, err)
	}
	ApplyPricing(p, plan)
	return nil
}
