package explanation

import (
	"strings"
	"testing"

	"verifid.io/application/services/decision"
	biometric_types "verifid.io/infrastructure/biometric/types"
)

func baseInput() Input {
	return Input{
		SimilarityScore: 0.82,
		ConfidenceLevel: decision.ConfidenceHigh,
		Decision:        decision.Approve,
		Quality:         biometric_types.QualityMetrics{Brightness: 0.5, Sharpness: 0.8},
		FeatureImportance: map[string]float64{
			"similarity": 0.8,
			"quality":    0.1,
			"variations": 0.1,
		},
	}
}

func TestExplainHeadlines(t *testing.T) {
	tests := []struct {
		name     string
		decision string
		want     string
	}{
		{"approve headline", decision.Approve, "**Verification Successful (82% Match)**."},
		{"review headline", decision.ManualReview, "**Manual Review Required (82% Match)**."},
		{"reject headline", decision.Reject, "**Verification Rejected (82% Match)**."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := baseInput()
			input.Decision = tt.decision
			got := Explain(input)
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("expected explanation to open with %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExplainDominantFactor(t *testing.T) {
	tests := []struct {
		name       string
		importance map[string]float64
		want       string
	}{
		{
			"similarity dominant",
			map[string]float64{"similarity": 0.8, "quality": 0.1, "variations": 0.1},
			"primarily driven by face geometry",
		},
		{
			"quality dominant",
			map[string]float64{"similarity": 0.1, "quality": 0.7, "variations": 0.2},
			"Image quality significantly impacted",
		},
		{
			"variations dominant",
			map[string]float64{"similarity": 0.1, "quality": 0.2, "variations": 0.7},
			"appearance changes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := baseInput()
			input.FeatureImportance = tt.importance
			got := Explain(input)
			if !strings.Contains(got, tt.want) {
				t.Errorf("expected explanation to mention %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExplainVariationBullets(t *testing.T) {
	input := baseInput()
	input.Variations = []string{"glasses", "aging_difference", "lighting_difference", "hair_change"}
	input.VariationDetails = map[string]biometric_types.VariationDetail{
		"hair_change": {Detected: true, Note: "forehead texture shift"},
	}
	got := Explain(input)

	for _, want := range []string{
		"Observations:",
		"- Eyewear detected (compared to ID).",
		"- Age-related features or makeup differences detected.",
		"- Significant lighting difference observed.",
		"- Hair Change: forehead texture shift.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in explanation, got %q", want, got)
		}
	}
}

func TestExplainFallbackBulletWithoutNote(t *testing.T) {
	input := baseInput()
	input.Variations = []string{"facial_marks"}
	got := Explain(input)
	if !strings.Contains(got, "- Facial Marks: Detected.") {
		t.Errorf("expected title-cased fallback bullet, got %q", got)
	}
}

func TestExplainQualityWarnings(t *testing.T) {
	t.Run("blurry and dark", func(t *testing.T) {
		input := baseInput()
		input.Quality = biometric_types.QualityMetrics{Brightness: 0.1, Sharpness: 0.2}
		got := Explain(input)
		if !strings.Contains(got, "Quality Warning: Live image is blurry, Lighting is too dark.") {
			t.Errorf("expected combined quality warning, got %q", got)
		}
	})
	t.Run("good quality has no warning", func(t *testing.T) {
		got := Explain(baseInput())
		if strings.Contains(got, "Quality Warning") {
			t.Errorf("expected no quality warning, got %q", got)
		}
	})
}

func TestExplainIsDeterministic(t *testing.T) {
	input := baseInput()
	input.Variations = []string{"glasses", "facial_marks"}
	first := Explain(input)
	for i := 0; i < 25; i++ {
		if next := Explain(input); next != first {
			t.Fatalf("explanation differs across identical runs:\n%s\n%s", first, next)
		}
	}
}
