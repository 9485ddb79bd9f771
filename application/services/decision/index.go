package decision

import (
	"fmt"
	"math"

	"verifid.io/application/constants"
	biometric_types "verifid.io/infrastructure/biometric/types"
)

const (
	Approve      = "approve"
	ManualReview = "manual_review"
	Reject       = "reject"

	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

type Input struct {
	SimilarityScore     float64
	ThresholdAdjustment float64
	Quality             biometric_types.QualityMetrics
	VariationsCount     int
}

type Outcome struct {
	Decision                   string
	ConfidenceLevel            string
	ConfidenceScore            float64
	EffectiveApproveThreshold  float64
	EffectiveReviewThreshold   float64
	ThresholdAdjustmentApplied float64
	Reasons                    []string
	FeatureImportance          map[string]float64
	IsAnomaly                  bool
}

// Decide applies threshold logic to one similarity score. It is a pure
// function: same inputs, same outcome, no clock, no IO.
func Decide(input Input) Outcome {
	adj := math.Min(input.ThresholdAdjustment, constants.MAX_THRESHOLD_ADJUSTMENT)
	effectiveApprove := constants.APPROVE_THRESHOLD - adj
	effectiveReview := constants.REVIEW_THRESHOLD - adj

	outcome := Outcome{
		Decision:                   Reject,
		ConfidenceLevel:            ConfidenceLow,
		EffectiveApproveThreshold:  round3(effectiveApprove),
		EffectiveReviewThreshold:   round3(effectiveReview),
		ThresholdAdjustmentApplied: round3(adj),
	}

	simPercent := int(input.SimilarityScore * 100)
	switch {
	case input.SimilarityScore >= effectiveApprove:
		outcome.Decision = Approve
		outcome.ConfidenceLevel = ConfidenceHigh
		outcome.Reasons = append(outcome.Reasons, fmt.Sprintf("Facial match: strong similarity (%d%%)", simPercent))
	case input.SimilarityScore >= effectiveReview:
		outcome.Decision = ManualReview
		outcome.ConfidenceLevel = ConfidenceMedium
		outcome.Reasons = append(outcome.Reasons, fmt.Sprintf("Facial match: moderate similarity (%d%%), needs review", simPercent))
	default:
		outcome.Reasons = append(outcome.Reasons, fmt.Sprintf("Facial match: low similarity (%d%%), ID mismatch", simPercent))
	}

	// holistic confidence normalised so the approve threshold lands near 0.8
	baseConfidence := 0.0
	if input.SimilarityScore > 0 {
		baseConfidence = math.Min(1.0, input.SimilarityScore/(effectiveApprove*1.2))
	}

	qualityPenalty := 0.0
	if input.Quality.Sharpness < 0.3 {
		qualityPenalty += 0.1
	}
	if input.Quality.Brightness < 0.2 {
		qualityPenalty += 0.1
	}
	variationPenalty := float64(input.VariationsCount) * 0.05

	confidence := math.Max(0.0, baseConfidence-qualityPenalty-variationPenalty)
	outcome.ConfidenceScore = round3(confidence)

	if confidence < constants.MIN_CONFIDENCE_THRESHOLD && outcome.Decision == Approve {
		outcome.Decision = ManualReview
		outcome.ConfidenceLevel = ConfidenceLow
		outcome.Reasons = append(outcome.Reasons, "Low holistic confidence despite high similarity (quality/variations)")
	}

	// near-perfect match with many simultaneous variations smells like a
	// presentation attack
	if input.SimilarityScore > 0.95 && input.VariationsCount > 3 {
		outcome.IsAnomaly = true
		outcome.Reasons = append(outcome.Reasons, "Anomaly: high similarity with multiple diverse variations")
	}

	similarityWeight := 0.7
	if outcome.Decision == Approve {
		similarityWeight += 0.1
	}
	qualityWeight := 0.1
	if qualityPenalty > 0 {
		qualityWeight = 0.2
	}
	variationWeight := 0.1
	if input.VariationsCount > 0 {
		variationWeight += 0.1
	}
	outcome.FeatureImportance = map[string]float64{
		"similarity": round2(similarityWeight),
		"quality":    round2(qualityWeight),
		"variations": round2(variationWeight),
	}

	if input.ThresholdAdjustment > 0 {
		outcome.Reasons = append(outcome.Reasons, fmt.Sprintf("Threshold relaxed by %.2f due to variations", adj))
	}
	return outcome
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func round3(value float64) float64 {
	return math.Round(value*1000) / 1000
}
