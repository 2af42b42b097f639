// Package catalog holds the static government scheme reference data.
// Records are immutable for the process lifetime and are the source of
// truth for every field they carry: generated text never overrides them.
package catalog

// SchemeRecord is one government support scheme.
type SchemeRecord struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Description      string   `json:"description"`
	BenefitINR       string   `json:"benefit_inr"`
	EligibilityHints []string `json:"eligibility_hints"`
}

var schemes = []SchemeRecord{
	{
		ID:               "pmfby",
		Name:             "PM Fasal Bima Yojana",
		Category:         "Crop Insurance",
		Description:      "Crop insurance against weather events, pests, and natural calamities.",
		BenefitINR:       "Up to full sum insured based on crop loss",
		EligibilityHints: []string{"Seasonal farmer", "Kharif/Rabi crop grower", "Land holding any size"},
	},
	{
		ID:               "kcc",
		Name:             "Kisan Credit Card",
		Category:         "Credit",
		Description:      "Revolving credit for farm inputs at 4-7% interest with seasonal repayment.",
		BenefitINR:       "Up to Rs.3,00,000 credit limit",
		EligibilityHints: []string{"Land-owning farmer", "Good repayment history", "Crop cultivator"},
	},
	{
		ID:               "pmkisan",
		Name:             "PM-KISAN",
		Category:         "Direct Benefit Transfer",
		Description:      "Rs.6,000 per year direct income support in three installments.",
		BenefitINR:       "Rs.6,000/year",
		EligibilityHints: []string{"Small/marginal farmer", "Land in farmer's name", "Not a government employee"},
	},
	{
		ID:               "shc",
		Name:             "Soil Health Card Scheme",
		Category:         "Input Subsidy",
		Description:      "Free soil testing with subsidised fertiliser recommendations.",
		BenefitINR:       "Saves Rs.2,000-8,000/year on fertiliser",
		EligibilityHints: []string{"Any cultivating farmer", "Has agricultural land"},
	},
	{
		ID:               "pmksy",
		Name:             "PM Krishi Sinchai Yojana",
		Category:         "Irrigation",
		Description:      "Subsidy on drip/sprinkler irrigation infrastructure.",
		BenefitINR:       "Up to 55% subsidy on irrigation equipment",
		EligibilityHints: []string{"Farmer with water source", "Land >= 0.5 acres", "Irrigation need"},
	},
}

var byID = func() map[string]SchemeRecord {
	m := make(map[string]SchemeRecord, len(schemes))
	for _, s := range schemes {
		m[s.ID] = s
	}
	return m
}()

// All returns the catalog in its canonical order.
func All() []SchemeRecord {
	out := make([]SchemeRecord, len(schemes))
	copy(out, schemes)
	return out
}

// Lookup returns the record for an id, if it exists.
func Lookup(id string) (SchemeRecord, bool) {
	s, ok := byID[id]
	return s, ok
}

// Size is the number of catalog entries. The scheme stage must return
// one assessment per entry.
func Size() int {
	return len(schemes)
}
