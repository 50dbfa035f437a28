// Package report converts a normalized field map into the fixed-shape
// Report record, validates it, and generates the case identifiers attached
// to outgoing notifications.
package report

import (
	"sort"

	"github.com/samber/lo"

	"github.com/example/baggage-report-service/internal/models"
)

// FromFields builds a Report from a normalized field map. Absent keys become
// empty strings; validation decides whether that is acceptable.
func FromFields(fields map[string]string) models.Report {
	return models.Report{
		FullName:      fields["full_name"],
		Email:         fields["email"],
		Phone:         fields["phone"],
		Date:          fields["date"],
		Flight:        fields["flight"],
		Station:       fields["station"],
		IncidentType:  fields["incident_type"],
		DamageDesc:    fields["damage_desc"],
		BrandDmg:      fields["brand_dmg"],
		AgeYears:      fields["age_years"],
		PurchasePrice: fields["purchase_price"],
	}
}

// ReceivedKeys returns the sorted canonical keys of a field map, used in the
// debug diagnostic body and in missing-field error messages.
func ReceivedKeys(fields map[string]string) []string {
	keys := lo.Keys(fields)
	sort.Strings(keys)
	return keys
}
