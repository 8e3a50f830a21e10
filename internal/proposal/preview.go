package proposal

import (
	"strings"
	"time"
)

// Preview fills the template body placeholders with the proposal's values.
// Unknown placeholders are left as written.
func Preview(t *Template, p *Proposal, currency string, now time.Time) string {
	var block, floor, clientName, clientPhone string
	if p.Block != nil {
		block = p.Block.Name
	}
	if p.Floor != nil {
		floor = p.Floor.Level.Label()
	}
	if p.Application != nil {
		clientName = p.Application.Name
		clientPhone = p.Application.Phone
	}

	suffix := ""
	if currency != "" {
		suffix = " " + currency
	}

	r := strings.NewReplacer(
		"{block}", block,
		"{floor}", floor,
		"{area}", p.Area.StringFixed(2),
		"{finish_level}", p.FinishLevel.Label(),
		"{price_per_m2}", formatAmount(p.PricePerM2)+suffix,
		"{total_price}", formatAmount(p.TotalPrice)+suffix,
		"{client_name}", clientName,
		"{client_phone}", clientPhone,
		"{date}", now.Format("02.01.2006"),
	)
	return r.Replace(t.Content)
}
