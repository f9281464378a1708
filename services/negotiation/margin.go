package negotiation

import (
	"fmt"
	"math"
)

// billRateFallbackFactor estimates a bill rate from the proposed pay rate
// when no real bill rate is on file.
const billRateFallbackFactor = 1.3

// MarginEvaluation is the verdict on a proposed rate against the margin
// target.
type MarginEvaluation struct {
	ProposedRate           float64  `json:"proposed_rate"`
	BillRate               float64  `json:"bill_rate"`
	PayRate                float64  `json:"pay_rate"`
	MarginAmount           float64  `json:"margin_amount"`
	MarginPercentage       float64  `json:"margin_percentage"`
	TargetMarginPercentage float64  `json:"target_margin_percentage"`
	IsAcceptable           bool     `json:"is_acceptable"`
	Feedback               string   `json:"feedback"`
	Recommendations        []string `json:"recommendations"`
}

// EvaluateMargin computes margin amount and percentage for a proposed pay
// rate. Pure: no aggregate state is touched.
func EvaluateMargin(billRate *float64, proposedRate, targetPct float64) MarginEvaluation {
	bill := proposedRate * billRateFallbackFactor
	if billRate != nil {
		bill = *billRate
	}

	margin := bill - proposedRate
	pct := 0.0
	if bill > 0 {
		pct = margin / bill * 100
	}
	acceptable := pct >= targetPct

	feedback := "Margin meets target"
	recommendation := "Proceed with rate"
	if !acceptable {
		feedback = fmt.Sprintf("Margin below target by %.1f%%", targetPct-pct)
		recommendation = "Consider counter-offer"
	}

	return MarginEvaluation{
		ProposedRate:           proposedRate,
		BillRate:               bill,
		PayRate:                proposedRate,
		MarginAmount:           margin,
		MarginPercentage:       pct,
		TargetMarginPercentage: targetPct,
		IsAcceptable:           acceptable,
		Feedback:               feedback,
		Recommendations: []string{
			recommendation,
			fmt.Sprintf("Current margin: %.1f%%", pct),
		},
	}
}

// roundRate rounds a rate to cents.
func roundRate(rate float64) float64 {
	return math.Round(rate*100) / 100
}
