package checkers

import (
	"context"

	"veritrust/internal/verification/models"
)

const (
	// DefaultMatchThreshold is the lowest score reported as a match.
	DefaultMatchThreshold = 0.6
	livenessThreshold     = 0.2
)

// FaceChecker scores an ID/selfie pair without fetching either image.
type FaceChecker struct {
	threshold float64
}

func NewFaceChecker(threshold float64) *FaceChecker {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultMatchThreshold
	}
	return &FaceChecker{threshold: threshold}
}

func (c *FaceChecker) Check(_ context.Context, idImageURL, selfieURL string) (models.FaceCheck, error) {
	score := DeterministicScore(idImageURL, selfieURL)
	return models.FaceCheck{
		Match:    score >= c.threshold,
		Score:    score,
		Liveness: DeterministicScore(selfieURL) > livenessThreshold,
	}, nil
}
