package verification

import (
	"fmt"
	"math"
	"strings"

	"verifid.io/application/repository"
	"verifid.io/application/services/audit"
	"verifid.io/application/services/decision"
	"verifid.io/application/services/explanation"
	"verifid.io/application/services/gallery"
	"verifid.io/application/utils"
	"verifid.io/entities"
	"verifid.io/infrastructure/biometric"
	biometric_types "verifid.io/infrastructure/biometric/types"
	"verifid.io/infrastructure/logger"
	queue_tasks "verifid.io/infrastructure/message_queue/tasks"
)

type Request struct {
	BankerID       string
	UserID         string
	LiveImage      []byte
	ReferenceImage []byte
	IPAddress      *string
	DeviceInfo     *string
}

// Verify runs the full pipeline for one live/reference pair and records the
// outcome. Returns the result payload or a validation/provider error from
// the pipeline.
func Verify(request Request) (*biometric_types.VerifyResult, error) {
	requestID := utils.GenerateRequestID()

	galleryImages := gallery.RecentImages(request.UserID)
	outcome, err := biometric.Verifier.Match(request.LiveImage, request.ReferenceImage, request.UserID, galleryImages)
	if err != nil {
		return nil, err
	}

	verdict := decision.Decide(decision.Input{
		SimilarityScore:     outcome.SimilarityScore,
		ThresholdAdjustment: outcome.Variations.ThresholdAdjustment,
		Quality:             outcome.Quality,
		VariationsCount:     len(outcome.Variations.Tags),
	})

	explanationText := explanation.Explain(explanation.Input{
		SimilarityScore:   outcome.SimilarityScore,
		ConfidenceLevel:   verdict.ConfidenceLevel,
		Decision:          verdict.Decision,
		Variations:        outcome.Variations.Tags,
		VariationDetails:  outcome.Variations.Details,
		Quality:           outcome.Quality,
		FeatureImportance: verdict.FeatureImportance,
	})

	adjustedScore := round4(outcome.SimilarityScore + outcome.Variations.ThresholdAdjustment)

	result := &biometric_types.VerifyResult{
		RequestID:           requestID,
		UserID:              request.UserID,
		SimilarityScore:     outcome.SimilarityScore,
		AdjustedScore:       adjustedScore,
		Decision:            verdict.Decision,
		Recommendation:      formatRecommendation(verdict.Decision, verdict.ConfidenceLevel),
		ConfidenceLevel:     verdict.ConfidenceLevel,
		ConfidenceScore:     verdict.ConfidenceScore,
		Variations:          outcome.Variations.Tags,
		VariationDetails:    outcome.Variations.Details,
		ThresholdAdjustment: verdict.ThresholdAdjustmentApplied,
		EffectiveThresholds: map[string]float64{
			"approve": verdict.EffectiveApproveThreshold,
			"review":  verdict.EffectiveReviewThreshold,
		},
		Quality:           outcome.Quality,
		Reasons:           verdict.Reasons,
		FeatureImportance: verdict.FeatureImportance,
		Explanation:       explanationText,
		IsAnomaly:         verdict.IsAnomaly,
		UsedGalleryMatch:  outcome.UsedGalleryMatch,
		CacheHit:          outcome.CacheHit,
		RetryCount:        outcome.RetryCount,
		ProcessingTimeMS:  outcome.ProcessingTimeMS,
		LiveRegion:        outcome.LiveRegion,
		ReferenceRegion:   outcome.ReferenceRegion,
	}

	variationDetails := map[string]any{}
	for tag, detail := range outcome.Variations.Details {
		variationDetails[tag] = detail
	}
	saved, err := repository.DecisionRepo().CreateOne(entities.Decision{
		BankerID:         request.BankerID,
		RequestID:        requestID,
		UserID:           request.UserID,
		MatchScore:       outcome.SimilarityScore,
		AdjustedScore:    adjustedScore,
		ConfidenceLevel:  verdict.ConfidenceLevel,
		Decision:         verdict.Decision,
		Variations:       outcome.Variations.Tags,
		VariationDetails: variationDetails,
		IsAnomaly:        verdict.IsAnomaly,
		ProcessingTimeMS: outcome.ProcessingTimeMS,
		IPAddress:        request.IPAddress,
		DeviceInfo:       request.DeviceInfo,
	})
	if err != nil {
		logger.Error("failed to persist verification decision", logger.LoggerOptions{
			Key:  "requestID",
			Data: requestID,
		})
	}

	if verdict.Decision == decision.Approve {
		gallery.SaveApproved(request.UserID, request.LiveImage)
	}

	var decisionID *string
	if saved != nil {
		decisionID = &saved.ID
		result.DecisionID = decisionID
	}
	audit.RecordAction(queue_tasks.AuditLogPayload{
		BankerID:   request.BankerID,
		Action:     audit.ActionVerify,
		DecisionID: decisionID,
		Details: map[string]any{
			"request_id": requestID,
			"user_id":    request.UserID,
			"result":     verdict.Decision,
		},
		Status: audit.StatusSuccess,
	})
	audit.RecordInference(queue_tasks.InferenceLogPayload{
		RequestID:       requestID,
		BankerID:        request.BankerID,
		UserID:          request.UserID,
		SimilarityScore: outcome.SimilarityScore,
		AdjustedScore:   adjustedScore,
		ConfidenceLevel: verdict.ConfidenceLevel,
		ConfidenceScore: verdict.ConfidenceScore,
		Decision:        verdict.Decision,
		Variations:      outcome.Variations.Tags,
		Quality: map[string]float64{
			"brightness":      outcome.Quality.Brightness,
			"sharpness":       outcome.Quality.Sharpness,
			"face_size_ratio": outcome.Quality.FaceSizeRatio,
		},
		Explanation:       explanationText,
		FeatureImportance: verdict.FeatureImportance,
		ProcessingTimeMS:  outcome.ProcessingTimeMS,
		IsAnomaly:         verdict.IsAnomaly,
		RetryCount:        outcome.RetryCount,
	})

	return result, nil
}

func formatRecommendation(verdict string, confidence string) string {
	switch verdict {
	case decision.Approve:
		return fmt.Sprintf("Auto Approve - %s confidence match", strings.ToLower(confidence))
	case decision.ManualReview:
		return "Manual Review Required - match is inconclusive"
	default:
		return "Reject - faces do not appear to match"
	}
}

func round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}
