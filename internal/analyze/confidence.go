package analyze

import (
	"math"

	"github.com/ppiankov/factguard/internal/model"
)

// ConfidenceCalculator aggregates claim-source similarity results into one
// scalar confidence. Purely deterministic, no model involvement; identical
// inputs yield a bit-identical float.
type ConfidenceCalculator struct{}

// NewConfidenceCalculator creates a new confidence calculator
func NewConfidenceCalculator() *ConfidenceCalculator {
	return &ConfidenceCalculator{}
}

// CalculateConfidence combines average per-claim similarity with source
// diversity and source-type bonuses into a confidence in [0,1].
//
// This is a multiplicative boost model: diversity and authoritative-source
// presence amplify underlying similarity, they never substitute for it. A
// claim set with zero similarity support cannot be rescued by many
// low-value sources.
func (c *ConfidenceCalculator) CalculateConfidence(
	claims []model.Claim,
	verifiedSources []*model.Source,
	claimScores map[string]model.ClaimScore,
) float64 {
	numClaims := len(claims)
	if numClaims == 0 {
		return 0.0
	}

	// Claims with zero supporting sources contribute 0 to the sum but stay
	// in the denominator, dragging the average down by a full 1/N term.
	totalSimilarity := 0.0
	for _, score := range claimScores {
		totalSimilarity += score.TotalScore
	}
	avgSimilarity := totalSimilarity / float64(numClaims)

	// Diversity counts unique titles, not links.
	uniqueTitles := make(map[string]struct{})
	academicCount := 0
	govCount := 0
	for _, s := range verifiedSources {
		uniqueTitles[s.Title] = struct{}{}
		switch s.SourceType {
		case model.SourceTypeAcademic:
			academicCount++
		case model.SourceTypeGovernment:
			govCount++
		}
	}
	sourceDiversity := math.Min(float64(len(uniqueTitles))/float64(numClaims), 1.0)

	sourceTypeBonus := math.Min(
		(float64(academicCount)*0.1+float64(govCount)*0.05)/float64(numClaims),
		0.2,
	)

	return math.Min(1.0, avgSimilarity*(1+sourceDiversity*0.2+sourceTypeBonus))
}
