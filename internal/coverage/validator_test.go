package coverage

import "testing"

func TestCheck(t *testing.T) {
	tests := []struct {
		name         string
		zip          string
		staffZones   []string
		defaultZones []string
		wantValid    bool
	}{
		{"no zipcode passes", "", []string{"30301"}, nil, true},
		{"whitespace zipcode passes", "  ", []string{"30301"}, nil, true},
		{"no zones configured passes", "30301", nil, nil, true},
		{"staff zone match", "30301", []string{"30301", "30302"}, nil, true},
		{"staff zone miss", "30309", []string{"30301", "30302"}, []string{"30309"}, false},
		{"default zones used when staff empty", "30309", nil, []string{"30309"}, true},
		{"default zone miss", "99999", nil, []string{"30301"}, false},
		{"match ignores case and padding", "k1a0b1", []string{" K1A0B1 "}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.zip, tt.staffZones, tt.defaultZones)
			if got.Valid != tt.wantValid {
				t.Fatalf("Check(%q) valid = %v, want %v", tt.zip, got.Valid, tt.wantValid)
			}
			if got.Valid && got.Warning != "" {
				t.Fatalf("valid result should carry no warning, got %q", got.Warning)
			}
			if !got.Valid && got.Warning == "" {
				t.Fatal("invalid result should carry a warning")
			}
		})
	}
}

func TestCheck_StaffZonesTakePrecedence(t *testing.T) {
	// A staff member with their own zones does not fall back to defaults,
	// even when the default list would match.
	got := Check("30305", []string{"30301"}, []string{"30305"})
	if got.Valid {
		t.Fatal("staff zones should shadow org defaults entirely")
	}
}
