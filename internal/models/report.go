package models

// Report is the fixed-shape record a submission is converted into once its
// field keys have been normalized. Validation happens against this struct
// rather than by probing the field map: the first eight members are always
// required, the last three only when the incident type is exactly "Damaged".
// The form tag carries the canonical field name reported back to the caller.
type Report struct {
	FullName     string `form:"full_name" validate:"required"`
	Email        string `form:"email" validate:"required"`
	Phone        string `form:"phone" validate:"required"`
	Date         string `form:"date" validate:"required"`
	Flight       string `form:"flight" validate:"required"`
	Station      string `form:"station" validate:"required"`
	IncidentType string `form:"incident_type" validate:"required"`
	DamageDesc   string `form:"damage_desc" validate:"required"`

	BrandDmg      string `form:"brand_dmg" validate:"required_if=IncidentType Damaged"`
	AgeYears      string `form:"age_years" validate:"required_if=IncidentType Damaged"`
	PurchasePrice string `form:"purchase_price" validate:"required_if=IncidentType Damaged"`
}

// IncidentDamaged is the incident type that triggers the conditional
// damage-detail requirements. The match is exact and case-sensitive.
const IncidentDamaged = "Damaged"
