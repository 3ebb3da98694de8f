package ncsapi

import (
	"testing"
)

func testLevels() []Level {
	return []Level{
		{Name: "Researcher", MinTokens: 0, MinReferrals: 0},
		{Name: "Scholar", MinTokens: 1000, MinReferrals: 5},
		{Name: "Mentor", MinTokens: 5000, MinReferrals: 20},
	}
}

func TestEvaluateLevel(t *testing.T) {
	tests := []struct {
		name             string
		earned           int64
		referrals        int64
		wantRank         int
		wantNextRank     int
		wantNext         bool
		wantTokenProg    int64
		wantReferralProg int64
		wantCombined     int64
	}{
		{
			name:             "new user sits at the floor",
			earned:           0,
			referrals:        0,
			wantRank:         0,
			wantNextRank:     1,
			wantNext:         true,
			wantTokenProg:    0,
			wantReferralProg: 0,
			wantCombined:     0,
		},
		{
			name:             "lagging referrals hold the rank down",
			earned:           1200,
			referrals:        3,
			wantRank:         0,
			wantNextRank:     1,
			wantNext:         true,
			wantTokenProg:    100,
			wantReferralProg: 60,
			wantCombined:     60,
		},
		{
			name:             "top rank is fully done",
			earned:           6000,
			referrals:        25,
			wantRank:         2,
			wantNextRank:     2,
			wantNext:         false,
			wantTokenProg:    100,
			wantReferralProg: 100,
			wantCombined:     100,
		},
		{
			name:             "both gates must be met for a rank",
			earned:           9000,
			referrals:        2,
			wantRank:         0,
			wantNextRank:     1,
			wantNext:         true,
			wantTokenProg:    100,
			wantReferralProg: 40,
			wantCombined:     40,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateLevel(tt.earned, tt.referrals, testLevels())
			if err != nil {
				t.Fatalf("EvaluateLevel(%d, %d) error = %v", tt.earned, tt.referrals, err)
			}
			if got.CurrentRank != tt.wantRank {
				t.Errorf("CurrentRank = %d, want %d", got.CurrentRank, tt.wantRank)
			}
			if got.NextRank != tt.wantNextRank {
				t.Errorf("NextRank = %d, want %d", got.NextRank, tt.wantNextRank)
			}
			if (got.Next != nil) != tt.wantNext {
				t.Errorf("Next = %v, want next present = %v", got.Next, tt.wantNext)
			}
			if got.TokenProgress != tt.wantTokenProg {
				t.Errorf("TokenProgress = %d, want %d", got.TokenProgress, tt.wantTokenProg)
			}
			if got.ReferralProgress != tt.wantReferralProg {
				t.Errorf("ReferralProgress = %d, want %d", got.ReferralProgress, tt.wantReferralProg)
			}
			if got.Combined != tt.wantCombined {
				t.Errorf("Combined = %d, want %d", got.Combined, tt.wantCombined)
			}
		})
	}
}

func TestEvaluateLevelRejectsNegatives(t *testing.T) {
	if _, err := EvaluateLevel(-1, 0, testLevels()); err == nil {
		t.Error("EvaluateLevel(-1, 0) error = nil, want error")
	}
	if _, err := EvaluateLevel(0, -1, testLevels()); err == nil {
		t.Error("EvaluateLevel(0, -1) error = nil, want error")
	}
}

func TestEvaluateLevelEmptyTable(t *testing.T) {
	if _, err := EvaluateLevel(0, 0, nil); err == nil {
		t.Error("EvaluateLevel with empty table error = nil, want error")
	}
}

func TestEvaluateLevelZeroThreshold(t *testing.T) {
	// A zero next-level threshold never divides by zero, it counts as done.
	levels := []Level{
		{Name: "Base", MinTokens: 0, MinReferrals: 0},
		{Name: "NoTokenGate", MinTokens: 0, MinReferrals: 10},
	}
	got, err := EvaluateLevel(0, 4, levels)
	if err != nil {
		t.Fatalf("EvaluateLevel error = %v", err)
	}
	if got.TokenProgress != 100 {
		t.Errorf("TokenProgress = %d, want 100 for zero threshold", got.TokenProgress)
	}
	if got.ReferralProgress != 40 {
		t.Errorf("ReferralProgress = %d, want 40", got.ReferralProgress)
	}
	if got.Combined != 40 {
		t.Errorf("Combined = %d, want 40", got.Combined)
	}
}

func TestEvaluateLevelDefaultTableOrdered(t *testing.T) {
	levels := []Level{
		{Name: "Researcher", MinTokens: 0, MinReferrals: 0},
		{Name: "Scholar", MinTokens: 1000, MinReferrals: 5},
		{Name: "Mentor", MinTokens: 5000, MinReferrals: 20},
		{Name: "Editor", MinTokens: 15000, MinReferrals: 50},
		{Name: "Founder", MinTokens: 50000, MinReferrals: 100},
	}
	for i := 1; i < len(levels); i++ {
		if levels[i].MinTokens < levels[i-1].MinTokens {
			t.Errorf("rank %d token threshold below rank %d", i, i-1)
		}
		if levels[i].MinReferrals < levels[i-1].MinReferrals {
			t.Errorf("rank %d referral threshold below rank %d", i, i-1)
		}
	}
}
