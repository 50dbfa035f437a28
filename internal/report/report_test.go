package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/baggage-report-service/internal/models"
)

func validFields() map[string]string {
	return map[string]string{
		"full_name":     "Jane Rolle",
		"email":         "jane@example.com",
		"phone":         "+1 242 555 0100",
		"date":          "2026-08-01",
		"flight":        "UP204",
		"station":       "NAS1",
		"incident_type": "Delayed",
		"damage_desc":   "Bag did not arrive on the belt",
	}
}

func TestValidateAccepts(t *testing.T) {
	fields := validFields()
	if err := Validate(FromFields(fields), ReceivedKeys(fields)); err != nil {
		t.Fatalf("expected valid report, got %v", err)
	}
}

func TestValidateMissingRequired(t *testing.T) {
	required := []string{
		"full_name", "email", "phone", "date",
		"flight", "station", "incident_type", "damage_desc",
	}

	for _, field := range required {
		t.Run(field, func(t *testing.T) {
			fields := validFields()
			delete(fields, field)

			err := Validate(FromFields(fields), ReceivedKeys(fields))
			var missing *MissingFieldError
			if !errors.As(err, &missing) {
				t.Fatalf("expected MissingFieldError, got %v", err)
			}
			if missing.Field != field {
				t.Errorf("expected field %q, got %q", field, missing.Field)
			}
			if !strings.HasPrefix(missing.Error(), "Missing: "+field) {
				t.Errorf("unexpected message %q", missing.Error())
			}
			if !strings.Contains(missing.Error(), "received:") {
				t.Errorf("expected received keys in message, got %q", missing.Error())
			}
		})
	}
}

func TestValidateBlankCountsAsMissing(t *testing.T) {
	fields := validFields()
	fields["phone"] = ""

	err := Validate(FromFields(fields), ReceivedKeys(fields))
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "phone" {
		t.Errorf("expected phone, got %q", missing.Field)
	}
}

func TestValidateDamagedConditional(t *testing.T) {
	conditional := []string{"brand_dmg", "age_years", "purchase_price"}

	for _, field := range conditional {
		t.Run(field, func(t *testing.T) {
			fields := validFields()
			fields["incident_type"] = models.IncidentDamaged
			fields["brand_dmg"] = "Samsonite"
			fields["age_years"] = "3"
			fields["purchase_price"] = "250"
			delete(fields, field)

			err := Validate(FromFields(fields), ReceivedKeys(fields))
			var missing *MissingFieldError
			if !errors.As(err, &missing) {
				t.Fatalf("expected MissingFieldError, got %v", err)
			}
			if missing.Field != field {
				t.Errorf("expected field %q, got %q", field, missing.Field)
			}
		})
	}
}

func TestValidateDamagedComplete(t *testing.T) {
	fields := validFields()
	fields["incident_type"] = models.IncidentDamaged
	fields["brand_dmg"] = "Samsonite"
	fields["age_years"] = "3"
	fields["purchase_price"] = "250"

	if err := Validate(FromFields(fields), ReceivedKeys(fields)); err != nil {
		t.Fatalf("expected valid report, got %v", err)
	}
}

// The conditional match is case sensitive: "damaged" does not trigger the
// damage-detail requirements.
func TestValidateDamagedCaseSensitive(t *testing.T) {
	fields := validFields()
	fields["incident_type"] = "damaged"

	if err := Validate(FromFields(fields), ReceivedKeys(fields)); err != nil {
		t.Fatalf("expected valid report for lowercase incident type, got %v", err)
	}
}

func TestReceivedKeysSorted(t *testing.T) {
	keys := ReceivedKeys(map[string]string{"b": "2", "a": "1", "c": "3"})
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("expected sorted keys, got %v", keys)
	}
}

func TestFromFields(t *testing.T) {
	rpt := FromFields(validFields())
	if rpt.FullName != "Jane Rolle" || rpt.Station != "NAS1" || rpt.IncidentType != "Delayed" {
		t.Errorf("unexpected report %+v", rpt)
	}
	if rpt.BrandDmg != "" {
		t.Errorf("expected empty brand_dmg, got %q", rpt.BrandDmg)
	}
}

func TestCCAddress(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"jane@example.com", "jane@example.com", true},
		{"  jane@example.com  ", "jane@example.com", true},
		{"not-an-address", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CCAddress(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("CCAddress(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
