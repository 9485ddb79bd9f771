package explanation

import (
	"fmt"
	"sort"
	"strings"

	"verifid.io/application/services/decision"
	biometric_types "verifid.io/infrastructure/biometric/types"
)

type Input struct {
	SimilarityScore   float64
	ConfidenceLevel   string
	Decision          string
	Variations        []string
	VariationDetails  map[string]biometric_types.VariationDetail
	Quality           biometric_types.QualityMetrics
	FeatureImportance map[string]float64
}

// Explain renders the verification signals as banker-friendly prose. It is
// deterministic: identical inputs always produce the identical string.
func Explain(input Input) string {
	var lines []string
	pct := int(input.SimilarityScore * 100)

	switch input.Decision {
	case decision.Approve:
		lines = append(lines, fmt.Sprintf("**Verification Successful (%d%% Match)**.", pct))
		lines = append(lines, "System confidently matched the live person to ID.")
	case decision.ManualReview:
		lines = append(lines, fmt.Sprintf("**Manual Review Required (%d%% Match)**.", pct))
		lines = append(lines, "Resemblance detected, but confidence is reduced due to quality or variations.")
	default:
		lines = append(lines, fmt.Sprintf("**Verification Rejected (%d%% Match)**.", pct))
		lines = append(lines, "Faces do not match sufficiently.")
	}

	if top := dominantFactor(input.FeatureImportance); top != "" {
		switch top {
		case "similarity":
			lines = append(lines, "Decision was primarily driven by face geometry.")
		case "quality":
			lines = append(lines, "Image quality significantly impacted the confidence score.")
		case "variations":
			lines = append(lines, "Detected appearance changes (glasses/beard/aging) were key factors.")
		}
	}

	if len(input.Variations) > 0 {
		lines = append(lines, "Observations:")
		for _, tag := range input.Variations {
			switch tag {
			case "glasses":
				lines = append(lines, "- Eyewear detected (compared to ID).")
			case "aging_difference":
				lines = append(lines, "- Age-related features or makeup differences detected.")
			case "lighting_difference":
				lines = append(lines, "- Significant lighting difference observed.")
			default:
				note := strings.TrimSpace(input.VariationDetails[tag].Note)
				if note == "" {
					note = "Detected"
				}
				lines = append(lines, fmt.Sprintf("- %s: %s.", titleCase(tag), note))
			}
		}
	}

	var qualityNotes []string
	if input.Quality.Sharpness < 0.3 {
		qualityNotes = append(qualityNotes, "Live image is blurry")
	}
	if input.Quality.Brightness < 0.2 {
		qualityNotes = append(qualityNotes, "Lighting is too dark")
	}
	if len(qualityNotes) > 0 {
		lines = append(lines, "Quality Warning: "+strings.Join(qualityNotes, ", ")+".")
	}

	return strings.Join(lines, " ")
}

// dominantFactor picks the highest-weighted factor, breaking weight ties
// alphabetically so output stays stable.
func dominantFactor(importance map[string]float64) string {
	if len(importance) == 0 {
		return ""
	}
	factors := make([]string, 0, len(importance))
	for factor := range importance {
		factors = append(factors, factor)
	}
	sort.Slice(factors, func(i, j int) bool {
		if importance[factors[i]] != importance[factors[j]] {
			return importance[factors[i]] > importance[factors[j]]
		}
		return factors[i] < factors[j]
	})
	return factors[0]
}

func titleCase(tag string) string {
	words := strings.Split(tag, "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}
