package checkers

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritrust/internal/verification/models"
)

func TestDeterministicScore(t *testing.T) {
	assert.Equal(t, 0.6205, DeterministicScore("https://cdn.example/id.png", "https://cdn.example/selfie.png"))
	assert.Equal(t, 0.5986, DeterministicScore("x"))
	assert.Equal(t, DeterministicScore("a", "b"), DeterministicScore("a", "b"))
	assert.NotEqual(t, DeterministicScore("a", "b"), DeterministicScore("a::b", ""), "parts are joined, not hashed separately")
}

func TestFaceChecker(t *testing.T) {
	c := NewFaceChecker(DefaultMatchThreshold)
	ctx := context.Background()

	t.Run("match above threshold", func(t *testing.T) {
		got, err := c.Check(ctx, "id-1", "selfie-1")
		require.NoError(t, err)
		assert.Equal(t, models.FaceCheck{Match: true, Score: 0.7415, Liveness: true}, got)
	})

	t.Run("no match and no liveness", func(t *testing.T) {
		got, err := c.Check(ctx, "a", "b")
		require.NoError(t, err)
		assert.Equal(t, models.FaceCheck{Match: false, Score: 0.3337, Liveness: false}, got)
	})

	t.Run("invalid threshold falls back to default", func(t *testing.T) {
		assert.Equal(t, DefaultMatchThreshold, NewFaceChecker(2).threshold)
	})
}

func TestDocumentChecker(t *testing.T) {
	c := NewDocumentChecker()
	ctx := context.Background()
	name := "Ada Lovelace"

	got, err := c.Check(ctx, "https://cdn.example/passport.png", &name)
	require.NoError(t, err)
	assert.True(t, got.DocValid)
	assert.False(t, got.Tampered)
	require.NotNil(t, got.Fields.IDNumber)
	assert.Equal(t, "8361-7432-6503", *got.Fields.IDNumber)
	assert.Equal(t, "Ada Lovelace", *got.Fields.Name)
	assert.Nil(t, got.Fields.DOB)

	got, err = c.Check(ctx, "https://cdn.example/passport.png", nil)
	require.NoError(t, err)
	assert.False(t, got.DocValid)
	assert.Nil(t, got.Fields.Name)

	empty := ""
	got, err = c.Check(ctx, "https://cdn.example/passport.png", &empty)
	require.NoError(t, err)
	assert.False(t, got.DocValid, "an empty expected name does not validate")
}

func TestRiskScorer(t *testing.T) {
	s := NewRiskScorer()
	tests := []struct {
		name      string
		kyc       bool
		income    float64
		tx, flags int
		trust     int
		wantScore int
		wantLabel string
	}{
		{name: "reference applicant", kyc: true, income: 5000, tx: 10, trust: 80, wantScore: 755, wantLabel: models.RiskLow},
		{name: "income and activity are capped", kyc: true, income: 1_000_000, tx: 100, trust: 100, wantScore: 850, wantLabel: models.RiskLow},
		{name: "floor at 300", kyc: false, income: 0, tx: 0, flags: 10, trust: 0, wantScore: 300, wantLabel: models.RiskHigh},
		{name: "medium band starts at 650", kyc: true, income: 0, tx: 5, trust: 50, wantScore: 650, wantLabel: models.RiskMedium},
		{name: "partial income thousands are truncated", kyc: true, income: 1999.99, tx: 0, trust: 50, wantScore: 635, wantLabel: models.RiskHigh},
		{name: "fraud flags cost 50 each", kyc: true, income: 5000, tx: 10, flags: 2, trust: 80, wantScore: 655, wantLabel: models.RiskMedium},
		{name: "huge fraud flag count floors the score", kyc: true, income: 200000, tx: 20, flags: 368934881474191033, trust: 100, wantScore: 300, wantLabel: models.RiskHigh},
		{name: "huge fraud flag count without kyc", kyc: false, income: 0, tx: 0, flags: 368934881474191033, trust: 0, wantScore: 300, wantLabel: models.RiskHigh},
		{name: "max int fraud flags", kyc: true, income: 5000, tx: 10, flags: math.MaxInt, trust: 80, wantScore: 300, wantLabel: models.RiskHigh},
		{name: "huge activity stays capped", kyc: true, income: 5000, tx: 1 << 62, trust: 80, wantScore: 795, wantLabel: models.RiskLow},
		{name: "max int activity stays capped", kyc: true, income: 5000, tx: math.MaxInt, trust: 80, wantScore: 795, wantLabel: models.RiskLow},
		{name: "huge income stays capped", kyc: true, income: 1e300, tx: 10, trust: 80, wantScore: 850, wantLabel: models.RiskLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Score(context.Background(), tt.kyc, tt.income, tt.tx, tt.flags, tt.trust)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, got.CreditScore)
			assert.Equal(t, tt.wantLabel, got.RiskLabel)
			assert.Equal(t, tt.trust, got.TrustScore)
		})
	}
}

func TestRiskLabelBoundaries(t *testing.T) {
	assert.Equal(t, models.RiskLow, RiskLabel(750))
	assert.Equal(t, models.RiskMedium, RiskLabel(749))
	assert.Equal(t, models.RiskMedium, RiskLabel(650))
	assert.Equal(t, models.RiskHigh, RiskLabel(649))
}
