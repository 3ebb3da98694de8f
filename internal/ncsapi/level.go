package ncsapi

import "errors"

// Level is one rank of the static progression table. Thresholds are
// monotonically non-decreasing across ranks for both dimensions.
type Level struct {
	Name         string   `json:"name"`
	MinTokens    int64    `json:"min_tokens"`    // minimum cumulative earned NCS Tokens
	MinReferrals int64    `json:"min_referrals"` // minimum referral count
	Benefits     []string `json:"benefits"`      // display-only
}

// Progression is the evaluator output the presentation layer renders.
type Progression struct {
	Current          Level  `json:"current"`
	CurrentRank      int    `json:"current_rank"`
	Next             *Level `json:"next,omitempty"` // nil at the top rank
	NextRank         int    `json:"next_rank"`
	TokenProgress    int64  `json:"token_progress"`    // [0;100]
	ReferralProgress int64  `json:"referral_progress"` // [0;100]
	Combined         int64  `json:"combined"`          // min of the two dimensions
}

var errNegativeInput = errors.New("negative progression input")

// EvaluateLevel returns the highest rank whose token and referral thresholds
// are both met, the next rank, and percentage progress toward it. The lowest
// rank is always a floor. Negative inputs are a programming error and are
// rejected, not clamped.
func EvaluateLevel(earned int64, referrals int64, levels []Level) (Progression, error) {
	var progression Progression
	if earned < 0 || referrals < 0 {
		return progression, errNegativeInput
	}
	if len(levels) == 0 {
		return progression, errors.New("empty level table")
	}
	rank := 0
	for i, level := range levels {
		if earned >= level.MinTokens && referrals >= level.MinReferrals {
			rank = i
		}
	}
	progression.Current = levels[rank]
	progression.CurrentRank = rank
	if rank == len(levels)-1 {
		// Top rank, both dimensions are done
		progression.NextRank = rank
		progression.TokenProgress = 100
		progression.ReferralProgress = 100
		progression.Combined = 100
		return progression, nil
	}
	next := levels[rank+1]
	progression.Next = &next
	progression.NextRank = rank + 1
	progression.TokenProgress = dimensionProgress(earned, next.MinTokens)
	progression.ReferralProgress = dimensionProgress(referrals, next.MinReferrals)
	// The user must clear both gates, so the binding constraint is the
	// laggard dimension, not the average.
	progression.Combined = progression.TokenProgress
	if progression.ReferralProgress < progression.Combined {
		progression.Combined = progression.ReferralProgress
	}
	return progression, nil
}

// dimensionProgress is min(100, 100*value/threshold). A zero threshold is
// automatically satisfied instead of dividing by zero.
func dimensionProgress(value int64, threshold int64) int64 {
	if threshold <= 0 {
		return 100
	}
	progress := 100 * value / threshold
	if progress > 100 {
		progress = 100
	}
	return progress
}
