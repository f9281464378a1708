package negotiation

import (
	"context"
	"errors"
	"fmt"

	directoryRepo "recruitd/database/repository/directory"
	"recruitd/models"
)

// marketRateMultipliers adjusts the rate on the table by seniority bracket.
var marketRateMultipliers = map[string]float64{
	"junior": 0.8,
	"mid":    1.0,
	"senior": 1.2,
	"lead":   1.5,
}

// MarketComparison lines the suggestion up against the known rate bounds.
type MarketComparison struct {
	CurrentProposed  float64  `json:"current_proposed"`
	CandidateDesired *float64 `json:"candidate_desired,omitempty"`
	CustomerMax      *float64 `json:"customer_max,omitempty"`
	Suggested        float64  `json:"suggested"`
}

// RateSuggestion is an advisory rate recommendation.
type RateSuggestion struct {
	SuggestedRate    float64          `json:"suggested_rate"`
	RateType         models.RateType  `json:"rate_type"`
	Reasoning        string           `json:"reasoning"`
	ConfidenceScore  float64          `json:"confidence_score"`
	MarketComparison MarketComparison `json:"market_comparison"`
	NextSteps        []string         `json:"next_steps"`
}

// seniorityBracket estimates a bracket from years of experience; unknown
// experience defaults to mid.
func seniorityBracket(experienceYears *int) string {
	if experienceYears == nil {
		return "mid"
	}
	switch years := *experienceYears; {
	case years < 2:
		return "junior"
	case years < 5:
		return "mid"
	case years < 10:
		return "senior"
	default:
		return "lead"
	}
}

// SuggestRate recommends a rate from the candidate's seniority bracket and
// the negotiation's bounds. Advisory only, nothing is mutated.
func (s *DefaultNegotiationService) SuggestRate(ctx context.Context, negotiationID string) (*RateSuggestion, error) {
	negotiation, err := s.getNegotiation(ctx, negotiationID)
	if err != nil {
		return nil, err
	}

	var candidate *models.Candidate
	candidate, err = s.Directory.GetCandidateByID(ctx, negotiation.CandidateID)
	if err != nil && !errors.Is(err, directoryRepo.ErrCandidateNotFound) {
		return nil, err
	}

	var experienceYears *int
	if candidate != nil {
		experienceYears = candidate.ExperienceYears
	}
	bracket := seniorityBracket(experienceYears)

	suggested := negotiation.CurrentProposedRate * marketRateMultipliers[bracket]
	if negotiation.CandidateDesiredRate != nil {
		suggested = (suggested + *negotiation.CandidateDesiredRate) / 2
	}
	if negotiation.CustomerMaxRate != nil && suggested > *negotiation.CustomerMaxRate {
		suggested = *negotiation.CustomerMaxRate
	}
	suggested = roundRate(suggested)

	experience := "unknown"
	if experienceYears != nil {
		experience = fmt.Sprintf("%d", *experienceYears)
	}

	return &RateSuggestion{
		SuggestedRate:   suggested,
		RateType:        negotiation.RateType,
		Reasoning:       fmt.Sprintf("Based on %s-level candidate with %s years experience", bracket, experience),
		ConfidenceScore: 0.75,
		MarketComparison: MarketComparison{
			CurrentProposed:  negotiation.CurrentProposedRate,
			CandidateDesired: negotiation.CandidateDesiredRate,
			CustomerMax:      negotiation.CustomerMaxRate,
			Suggested:        suggested,
		},
		NextSteps: []string{
			"Review suggested rate with candidate",
			"Validate with customer budget",
			"Check margin acceptability",
		},
	}, nil
}
