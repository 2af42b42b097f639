package pipeline

import (
	"sort"

	"github.com/rs/zerolog"

	"fundwise/pkg/core/catalog"
	"fundwise/pkg/models"
)

// MergeWithCatalog reconciles model-produced assessments with the
// authoritative catalog. Catalog-owned fields always come from the
// catalog; assessments whose scheme id matches no record are dropped
// as hallucinated identifiers, not treated as errors. The result is
// sorted ascending by priority; the sort is stable so provider order
// breaks ties.
func MergeWithCatalog(raw []models.SchemeAssessment, log zerolog.Logger) []models.SchemeAssessment {
	merged := make([]models.SchemeAssessment, 0, len(raw))
	for _, a := range raw {
		record, ok := catalog.Lookup(a.SchemeID)
		if !ok {
			log.Warn().Str("scheme_id", a.SchemeID).Msg("dropping assessment for unknown scheme id")
			continue
		}
		a.Name = record.Name
		a.Category = record.Category
		a.Description = record.Description
		a.BenefitINR = record.BenefitINR
		merged = append(merged, a)
	}

	if len(merged) < catalog.Size() {
		log.Warn().
			Int("got", len(merged)).
			Int("want", catalog.Size()).
			Msg("scheme assessment covers fewer entries than the catalog")
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Priority < merged[j].Priority
	})
	return merged
}

// TopSchemes returns the best assessments for the decision stage:
// suitability recommended or suitable, in merged order, capped at n.
func TopSchemes(schemes []models.SchemeAssessment, n int) []models.SchemeAssessment {
	top := make([]models.SchemeAssessment, 0, n)
	for _, s := range schemes {
		if s.Suitability != models.SuitabilityRecommended && s.Suitability != models.SuitabilitySuitable {
			continue
		}
		top = append(top, s)
		if len(top) == n {
			break
		}
	}
	return top
}
