package model

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"virtual", ModeVirtual, false},
		{"in_person", ModeInPerson, false},
		{"either", ModeEither, false},
		{"Virtual", ModeVirtual, false},
		{" IN_PERSON ", ModeInPerson, false},
		{"", "", true},
		{"hybrid", "", true},
		{"in-person", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModeRequirements(t *testing.T) {
	if !ModeVirtual.RequiresMeetingLink() || ModeInPerson.RequiresMeetingLink() {
		t.Fatal("only virtual requires a meeting link")
	}
	if !ModeInPerson.RequiresCoverageCheck() || ModeVirtual.RequiresCoverageCheck() {
		t.Fatal("only in_person requires a coverage check")
	}
}

func TestValidateRequestedMode(t *testing.T) {
	tests := []struct {
		name      string
		typeMode  Mode
		requested Mode
		wantErr   bool
	}{
		{"either accepts virtual", ModeEither, ModeVirtual, false},
		{"either accepts in_person", ModeEither, ModeInPerson, false},
		{"exact match", ModeVirtual, ModeVirtual, false},
		{"mismatch", ModeVirtual, ModeInPerson, true},
		{"mismatch reversed", ModeInPerson, ModeVirtual, true},
		{"either never concrete", ModeEither, ModeEither, true},
		{"either not bookable on fixed type", ModeVirtual, ModeEither, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequestedMode(tt.typeMode, tt.requested)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRequestedMode(%s, %s) err = %v, wantErr %v", tt.typeMode, tt.requested, err, tt.wantErr)
			}
		})
	}
}
