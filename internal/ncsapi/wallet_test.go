package ncsapi

import (
	"errors"
	"testing"
)

// Non-positive amounts are rejected before any storage work starts, so a nil
// db handle is safe here and proves no transaction is even opened.

func TestEarnRejectsNonPositiveAmounts(t *testing.T) {
	for _, amount := range []int64{0, -1, -500} {
		_, _, err := Earn(nil, 1, 1, amount, EntryTypeBonus, "test")
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Earn(amount=%d) error = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestSpendRejectsNonPositiveAmounts(t *testing.T) {
	for _, amount := range []int64{0, -1, -500} {
		_, _, err := Spend(nil, 1, 1, amount, EntryTypeRedeem, "test")
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Spend(amount=%d) error = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestValidateReferral(t *testing.T) {
	tests := []struct {
		name      string
		inName    string
		inEmail   string
		wantName  string
		wantEmail string
		wantErr   bool
	}{
		{"both present", "Ada Lovelace", "ada@example.org", "Ada Lovelace", "ada@example.org", false},
		{"whitespace trimmed", "  Ada  ", " ada@example.org ", "Ada", "ada@example.org", false},
		{"empty name", "", "ada@example.org", "", "", true},
		{"empty email", "Ada", "", "", "", true},
		{"whitespace only", "   ", "\t", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotName, gotEmail, err := ValidateReferral(tt.inName, tt.inEmail)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v, want nil", err)
			}
			if gotName != tt.wantName || gotEmail != tt.wantEmail {
				t.Errorf("got (%q, %q), want (%q, %q)", gotName, gotEmail, tt.wantName, tt.wantEmail)
			}
		})
	}
}

func TestRecordReferralValidatesBeforeStorage(t *testing.T) {
	config := &AppConfig{}
	config.Settings.Bonuses.Referral = 100
	_, _, err := RecordReferral(nil, config, 1, "", "")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("RecordReferral with empty contact error = %v, want ErrValidation", err)
	}
}
