package negotiation

import "recruitd/models"

// Strategy names an automated counter-rate policy.
type Strategy string

const (
	StrategyAggressive        Strategy = "aggressive"
	StrategyBalanced          Strategy = "balanced"
	StrategyCandidateFriendly Strategy = "candidate_friendly"
)

// Valid reports whether the strategy is a known policy.
func (s Strategy) Valid() bool {
	return s == StrategyAggressive || s == StrategyBalanced || s == StrategyCandidateFriendly
}

// AutoNegotiation is an advisory counter-rate recommendation.
type AutoNegotiation struct {
	SuggestedResponseRate float64         `json:"suggested_response_rate"`
	RateType              models.RateType `json:"rate_type"`
	Strategy              Strategy        `json:"strategy"`
	Tone                  string          `json:"tone"`
	ConfidenceScore       float64         `json:"confidence_score"`
	Reasoning             string          `json:"reasoning"`
	Recommendation        string          `json:"recommendation"`
	NextAction            string          `json:"next_action"`
}

type strategyResult struct {
	rate       float64
	confidence float64
	tone       string
}

// applyStrategy computes the response to the rate currently on the table.
// Pure: callers pass negotiation state in, nothing is mutated. The response
// never exceeds the customer max when one is set.
func applyStrategy(strategy Strategy, base, initialProposed float64, desired, customerMax *float64) strategyResult {
	var res strategyResult
	switch strategy {
	case StrategyAggressive:
		// Pull back toward the opening position.
		res = strategyResult{rate: (base + initialProposed) / 2, confidence: 0.6, tone: "firm"}
	case StrategyCandidateFriendly:
		// Bump unless the base already meets a known desired rate.
		res = strategyResult{rate: base * 1.05, confidence: 0.8, tone: "collaborative"}
		if desired != nil && base >= *desired {
			res.rate = base
		}
	default: // balanced
		res = strategyResult{rate: base * 1.02, confidence: 0.75, tone: "professional"}
		if desired != nil {
			res.rate = (base + *desired) / 2
		}
	}

	if customerMax != nil && res.rate > *customerMax {
		res.rate = *customerMax
	}
	res.rate = roundRate(res.rate)
	return res
}
