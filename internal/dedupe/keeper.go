package dedupe

import (
	"strings"

	"github.com/sells-group/buyer-match/internal/model"
)

const platformWebsiteBonus = 2

// Completeness is a weighted count of populated profile fields. A platform
// website counts three times.
func Completeness(b *model.Buyer) int {
	strs := []string{
		b.PEFirmName, b.PEFirmWebsite, b.PlatformCompanyName, b.PlatformWebsite,
		b.HQCity, b.HQState, b.ServicesOffered, b.ThesisSummary, b.BusinessSummary,
		b.IndustryVertical, b.AcquisitionAppetite, b.LinkedInURL,
	}
	lists := [][]string{
		b.TargetGeographies, b.ServiceRegions, b.GeographicFootprint,
		b.OperatingLocations, b.TargetServices, b.DealBreakers,
	}

	n := 0
	for _, s := range strs {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	for _, l := range lists {
		if len(l) > 0 {
			n++
		}
	}
	for _, p := range []*float64{b.MinRevenue, b.MaxRevenue, b.MinEBITDA, b.MaxEBITDA} {
		if p != nil {
			n++
		}
	}
	if b.EmployeeCount != nil {
		n++
	}
	if strings.TrimSpace(b.PlatformWebsite) != "" {
		n += platformWebsiteBonus
	}
	return n
}

// pickKeeper returns the most complete member. Ties go to the earliest
// created_at, then to the first member.
func pickKeeper(members []*model.Buyer) *model.Buyer {
	best := members[0]
	bestScore := Completeness(best)
	for _, b := range members[1:] {
		s := Completeness(b)
		switch {
		case s > bestScore:
		case s == bestScore && !b.CreatedAt.IsZero() && (best.CreatedAt.IsZero() || b.CreatedAt.Before(best.CreatedAt)):
		default:
			continue
		}
		best, bestScore = b, s
	}
	return best
}
