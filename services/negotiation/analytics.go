package negotiation

import (
	"context"
	"fmt"

	"recruitd/models"
)

// NegotiationAnalytics summarizes negotiation outcomes across the collection.
type NegotiationAnalytics struct {
	TotalNegotiations  int                              `json:"total_negotiations"`
	ByStatus           map[models.NegotiationStatus]int `json:"by_status"`
	AgreedCount        int                              `json:"agreed_count"`
	FailedCount        int                              `json:"failed_count"`
	SuccessRate        float64                          `json:"success_rate"`
	AverageRounds      float64                          `json:"average_rounds"`
	AverageMarginPct   float64                          `json:"average_margin_percentage"`
	AverageDaysToClose float64                          `json:"average_days_to_close"`
}

// Analytics aggregates outcome metrics over every negotiation on file.
func (s *DefaultNegotiationService) Analytics(ctx context.Context) (*NegotiationAnalytics, error) {
	negotiations, err := s.Repo.AllNegotiations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load negotiations: %w", err)
	}

	out := &NegotiationAnalytics{
		TotalNegotiations: len(negotiations),
		ByStatus:          make(map[models.NegotiationStatus]int),
	}

	var (
		totalRounds int
		marginSum   float64
		marginCount int
		daysSum     float64
		closedCount int
	)
	for _, n := range negotiations {
		out.ByStatus[n.Status]++
		totalRounds += n.TotalRounds
		switch n.Status {
		case models.NegotiationAgreed:
			out.AgreedCount++
			if n.MarginPercentage != nil {
				marginSum += *n.MarginPercentage
				marginCount++
			}
			// Time to close is measured over successful negotiations only.
			if n.ClosedAt != nil {
				daysSum += n.ClosedAt.Sub(n.StartedAt).Hours() / 24
				closedCount++
			}
		case models.NegotiationFailed:
			out.FailedCount++
		}
	}

	if out.TotalNegotiations > 0 {
		out.SuccessRate = roundRate(float64(out.AgreedCount) / float64(out.TotalNegotiations) * 100)
		out.AverageRounds = roundRate(float64(totalRounds) / float64(out.TotalNegotiations))
	}
	if marginCount > 0 {
		out.AverageMarginPct = roundRate(marginSum / float64(marginCount))
	}
	if closedCount > 0 {
		out.AverageDaysToClose = roundRate(daysSum / float64(closedCount))
	}
	return out, nil
}
