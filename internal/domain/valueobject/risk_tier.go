package valueobject

import "fmt"

// RiskTier is the qualitative band a risk score falls into.
type RiskTier struct {
	value    string
	minScore int
	banner   string
}

var (
	RiskTierLow = RiskTier{
		value:    "LOW",
		minScore: 0,
		banner:   "Low Risk: High chance of full payoff.",
	}
	RiskTierModerate = RiskTier{
		value:    "MODERATE",
		minScore: 5,
		banner:   "Moderate Risk: Repossession risk after more than 50% payments.",
	}
	RiskTierHigh = RiskTier{
		value:    "HIGH",
		minScore: 8,
		banner:   "High Risk: High probability of repossession with less than 25% payments.",
	}
)

// RiskTiers returns the tiers from most to least severe.
func RiskTiers() []RiskTier {
	return []RiskTier{RiskTierHigh, RiskTierModerate, RiskTierLow}
}

// RiskTierFromScore derives the tier for a classifier score.
// Scores have no lower bound, so anything under 5 is LOW.
func RiskTierFromScore(score int) RiskTier {
	switch {
	case score >= RiskTierHigh.minScore:
		return RiskTierHigh
	case score >= RiskTierModerate.minScore:
		return RiskTierModerate
	default:
		return RiskTierLow
	}
}

// RiskTierFromString reconstructs a RiskTier from its string representation.
func RiskTierFromString(s string) (RiskTier, error) {
	switch s {
	case "LOW":
		return RiskTierLow, nil
	case "MODERATE":
		return RiskTierModerate, nil
	case "HIGH":
		return RiskTierHigh, nil
	default:
		return RiskTier{}, fmt.Errorf("invalid risk tier: %s", s)
	}
}

// String returns the string representation.
func (r RiskTier) String() string {
	return r.value
}

// MinScore is the lowest score that lands in this tier. LOW reports 0 but
// also covers negative scores.
func (r RiskTier) MinScore() int {
	return r.minScore
}

// Banner returns the customer-facing summary for the tier.
func (r RiskTier) Banner() string {
	return r.banner
}

// IsZero returns true if the RiskTier has not been set.
func (r RiskTier) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskTier.
func (r RiskTier) Equal(other RiskTier) bool {
	return r.value == other.value
}
