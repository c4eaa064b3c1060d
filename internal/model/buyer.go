package model

import "time"

// Buyer is an acquisition entity inside a tracker: a PE firm and, usually,
// the platform company it acquires through.
type Buyer struct {
	ID        string `json:"id"`
	TrackerID string `json:"tracker_id"`

	PEFirmName          string `json:"pe_firm_name"`
	PEFirmWebsite       string `json:"pe_firm_website"`
	PlatformCompanyName string `json:"platform_company_name"`
	PlatformWebsite     string `json:"platform_website"`

	// Geography signals. All four lists are free text and overlap.
	HQCity              string   `json:"hq_city"`
	HQState             string   `json:"hq_state"`
	TargetGeographies   []string `json:"target_geographies"`
	ServiceRegions      []string `json:"service_regions"`
	GeographicFootprint []string `json:"geographic_footprint"`
	OperatingLocations  []string `json:"operating_locations"`

	// Service signals.
	ServicesOffered string   `json:"services_offered"`
	TargetServices  []string `json:"target_services"`

	ThesisSummary       string   `json:"thesis_summary"`
	BusinessSummary     string   `json:"business_summary"`
	IndustryVertical    string   `json:"industry_vertical"`
	AcquisitionAppetite string   `json:"acquisition_appetite"`
	MinRevenue          *float64 `json:"min_revenue,omitempty"`
	MaxRevenue          *float64 `json:"max_revenue,omitempty"`
	MinEBITDA           *float64 `json:"min_ebitda,omitempty"`
	MaxEBITDA           *float64 `json:"max_ebitda,omitempty"`
	EmployeeCount       *int     `json:"employee_count,omitempty"`
	LinkedInURL         string   `json:"linkedin_url"`
	DealBreakers        []string `json:"deal_breakers"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the platform name when known, otherwise the PE firm.
func (b *Buyer) DisplayName() string {
	if b.PlatformCompanyName != "" {
		return b.PlatformCompanyName
	}
	return b.PEFirmName
}

// ChildTables lists the tables whose rows reference a buyer by buyer_id.
// Deduplication re-points these rows to the surviving buyer.
var ChildTables = []string{
	"buyer_contacts",
	"buyer_deal_scores",
	"buyer_transcripts",
	"outreach_records",
	"call_intelligence",
}
