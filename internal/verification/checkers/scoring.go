package checkers

import (
	"context"
	"math"

	"veritrust/internal/verification/models"
)

// Scoring bounds and weights.
const (
	baseScore      = 600
	minCreditScore = 300
	maxCreditScore = 850

	incomeStep     = 1000 // currency units per income point
	incomeWeight   = 5
	incomeCap      = 150
	activityWeight = 4
	activityCap    = 80
	kycBonus       = 30
	kycPenalty     = -60
	fraudPenalty   = 50
	maxFraudFlags  = maxCreditScore/fraudPenalty + 1

	lowRiskFloor    = 750
	mediumRiskFloor = 650
)

// RiskScorer applies a fixed additive credit formula.
type RiskScorer struct{}

func NewRiskScorer() *RiskScorer {
	return &RiskScorer{}
}

func (s *RiskScorer) Score(_ context.Context, kycValid bool, income float64, txPerWeek, fraudFlags, trustScore int) (models.RiskScore, error) {
	// Each term is capped before it is scaled so large inputs cannot overflow.
	score := baseScore
	score += int(math.Min(math.Floor(income/incomeStep)*incomeWeight, incomeCap))
	score += min(txPerWeek, activityCap/activityWeight) * activityWeight
	score += (trustScore - 50) * 2
	if kycValid {
		score += kycBonus
	} else {
		score += kycPenalty
	}
	// Past maxFraudFlags the penalty already exceeds any attainable score.
	score -= min(fraudFlags, maxFraudFlags) * fraudPenalty
	score = max(minCreditScore, min(maxCreditScore, score))

	return models.RiskScore{
		CreditScore: score,
		RiskLabel:   RiskLabel(score),
		TrustScore:  trustScore,
	}, nil
}

// RiskLabel buckets a credit score.
func RiskLabel(score int) string {
	switch {
	case score >= lowRiskFloor:
		return models.RiskLow
	case score >= mediumRiskFloor:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}
