package decision

import (
	"math"
	"strings"
	"testing"

	biometric_types "verifid.io/infrastructure/biometric/types"
)

func goodQuality() biometric_types.QualityMetrics {
	return biometric_types.QualityMetrics{Brightness: 0.5, Sharpness: 0.8, FaceSizeRatio: 0.2}
}

func TestDecideThresholdBands(t *testing.T) {
	tests := []struct {
		name           string
		similarity     float64
		adjustment     float64
		wantDecision   string
		wantConfidence string
	}{
		{"clear approve", 0.80, 0, Approve, ConfidenceHigh},
		{"exactly at approve threshold", 0.40, 0, Approve, ConfidenceHigh},
		{"review band", 0.35, 0, ManualReview, ConfidenceMedium},
		{"exactly at review threshold", 0.30, 0, ManualReview, ConfidenceMedium},
		{"clear reject", 0.10, 0, Reject, ConfidenceLow},
		{"adjustment rescues borderline score", 0.36, 0.05, Approve, ConfidenceHigh},
		{"negative adjustment tightens approve", 0.42, -0.07, ManualReview, ConfidenceMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Decide(Input{
				SimilarityScore:     tt.similarity,
				ThresholdAdjustment: tt.adjustment,
				Quality:             goodQuality(),
			})
			if outcome.Decision != tt.wantDecision {
				t.Errorf("Decide() = %s, want %s", outcome.Decision, tt.wantDecision)
			}
			if outcome.ConfidenceLevel != tt.wantConfidence {
				t.Errorf("confidence = %s, want %s", outcome.ConfidenceLevel, tt.wantConfidence)
			}
		})
	}
}

func TestDecideAdjustmentIsCapped(t *testing.T) {
	outcome := Decide(Input{
		SimilarityScore:     0.31,
		ThresholdAdjustment: 0.5,
		Quality:             goodQuality(),
	})
	if outcome.ThresholdAdjustmentApplied != 0.1 {
		t.Errorf("expected applied adjustment capped at 0.1, got %f", outcome.ThresholdAdjustmentApplied)
	}
	if outcome.EffectiveApproveThreshold != 0.3 {
		t.Errorf("expected effective approve threshold 0.3, got %f", outcome.EffectiveApproveThreshold)
	}
	if outcome.EffectiveReviewThreshold != 0.2 {
		t.Errorf("expected effective review threshold 0.2, got %f", outcome.EffectiveReviewThreshold)
	}
}

func TestDecideDowngradesLowConfidenceApprove(t *testing.T) {
	// similarity clears the approve bar, but blur, darkness and a pile of
	// variations drag holistic confidence under the floor
	outcome := Decide(Input{
		SimilarityScore:     0.40,
		ThresholdAdjustment: 0,
		Quality:             biometric_types.QualityMetrics{Brightness: 0.1, Sharpness: 0.1},
		VariationsCount:     7,
	})
	if outcome.Decision != ManualReview {
		t.Errorf("expected downgrade to manual_review, got %s", outcome.Decision)
	}
	if outcome.ConfidenceLevel != ConfidenceLow {
		t.Errorf("expected LOW confidence after downgrade, got %s", outcome.ConfidenceLevel)
	}
	found := false
	for _, reason := range outcome.Reasons {
		if strings.Contains(reason, "holistic confidence") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected downgrade reason, got %v", outcome.Reasons)
	}
}

func TestDecideConfidenceNeverNegative(t *testing.T) {
	outcome := Decide(Input{
		SimilarityScore:     0.05,
		ThresholdAdjustment: 0,
		Quality:             biometric_types.QualityMetrics{Brightness: 0.05, Sharpness: 0.05},
		VariationsCount:     8,
	})
	if outcome.ConfidenceScore < 0 {
		t.Errorf("confidence must be floored at zero, got %f", outcome.ConfidenceScore)
	}
}

func TestDecideZeroSimilarity(t *testing.T) {
	outcome := Decide(Input{
		SimilarityScore: 0,
		Quality:         goodQuality(),
	})
	if outcome.Decision != Reject {
		t.Errorf("expected reject for zero similarity, got %s", outcome.Decision)
	}
	if outcome.ConfidenceScore != 0 {
		t.Errorf("expected zero confidence for zero similarity, got %f", outcome.ConfidenceScore)
	}
}

func TestDecideAnomalyDetection(t *testing.T) {
	t.Run("near perfect match with many variations", func(t *testing.T) {
		outcome := Decide(Input{
			SimilarityScore: 0.97,
			Quality:         goodQuality(),
			VariationsCount: 4,
		})
		if !outcome.IsAnomaly {
			t.Error("expected anomaly flag")
		}
	})
	t.Run("near perfect match with few variations", func(t *testing.T) {
		outcome := Decide(Input{
			SimilarityScore: 0.97,
			Quality:         goodQuality(),
			VariationsCount: 3,
		})
		if outcome.IsAnomaly {
			t.Error("expected no anomaly flag at three variations")
		}
	})
	t.Run("many variations without high similarity", func(t *testing.T) {
		outcome := Decide(Input{
			SimilarityScore: 0.90,
			Quality:         goodQuality(),
			VariationsCount: 5,
		})
		if outcome.IsAnomaly {
			t.Error("expected no anomaly flag below similarity bar")
		}
	})
}

func TestDecideFeatureImportance(t *testing.T) {
	approved := Decide(Input{SimilarityScore: 0.80, Quality: goodQuality()})
	if approved.FeatureImportance["similarity"] != 0.8 {
		t.Errorf("expected similarity weight 0.8 on approve, got %f", approved.FeatureImportance["similarity"])
	}
	if approved.FeatureImportance["quality"] != 0.1 {
		t.Errorf("expected quality weight 0.1 without penalty, got %f", approved.FeatureImportance["quality"])
	}
	if approved.FeatureImportance["variations"] != 0.1 {
		t.Errorf("expected variations weight 0.1 without variations, got %f", approved.FeatureImportance["variations"])
	}

	rejected := Decide(Input{
		SimilarityScore: 0.10,
		Quality:         biometric_types.QualityMetrics{Brightness: 0.1, Sharpness: 0.1},
		VariationsCount: 2,
	})
	if rejected.FeatureImportance["similarity"] != 0.7 {
		t.Errorf("expected similarity weight 0.7 on reject, got %f", rejected.FeatureImportance["similarity"])
	}
	if rejected.FeatureImportance["quality"] != 0.2 {
		t.Errorf("expected quality weight 0.2 with penalty, got %f", rejected.FeatureImportance["quality"])
	}
	if rejected.FeatureImportance["variations"] != 0.2 {
		t.Errorf("expected variations weight 0.2 with variations, got %f", rejected.FeatureImportance["variations"])
	}
}

func TestDecideConfidenceMonotonicInSimilarity(t *testing.T) {
	previous := -1.0
	for similarity := 0.0; similarity <= 1.0; similarity += 0.05 {
		outcome := Decide(Input{SimilarityScore: similarity, Quality: goodQuality()})
		if outcome.ConfidenceScore < previous-1e-9 {
			t.Fatalf("confidence dropped as similarity rose: %f at similarity %f", outcome.ConfidenceScore, similarity)
		}
		previous = outcome.ConfidenceScore
	}
}

func TestDecideIsPure(t *testing.T) {
	input := Input{
		SimilarityScore:     0.37,
		ThresholdAdjustment: 0.05,
		Quality:             biometric_types.QualityMetrics{Brightness: 0.15, Sharpness: 0.25},
		VariationsCount:     2,
	}
	first := Decide(input)
	second := Decide(input)
	if first.Decision != second.Decision || first.ConfidenceScore != second.ConfidenceScore {
		t.Error("identical inputs produced different outcomes")
	}
	if len(first.Reasons) != len(second.Reasons) {
		t.Error("identical inputs produced different reasons")
	}
	if math.Abs(first.EffectiveApproveThreshold-second.EffectiveApproveThreshold) > 1e-12 {
		t.Error("identical inputs produced different thresholds")
	}
}
