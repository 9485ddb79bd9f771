package biometric_types

import "fmt"

// FaceRegion is a face bounding box in pixel coordinates plus the detector's
// confidence for it.
type FaceRegion struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"w"`
	Height     int     `json:"h"`
	Confidence float64 `json:"confidence"`
}

// QualityMetrics describes the live capture only. Reference images come from
// enrolment and are assumed vetted.
type QualityMetrics struct {
	Brightness    float64 `json:"brightness"`
	Sharpness     float64 `json:"sharpness"`
	FaceSizeRatio float64 `json:"face_size_ratio"`
}

// FaceEmbedding pairs an embedding vector with the region it was computed
// from.
type FaceEmbedding struct {
	Vector []float64
	Region FaceRegion
}

// Landmarks holds normalised facial keypoint coordinates when the model
// server exposes them. All fields are optional capabilities.
type Landmarks struct {
	NoseTip  *Point3  `json:"nose_tip,omitempty"`
	LeftEar  *Point3  `json:"left_ear,omitempty"`
	RightEar *Point3  `json:"right_ear,omitempty"`
	Pitch    *float64 `json:"pitch,omitempty"`
}

type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// VariationDetail reports one appearance check. Detected decides whether the
// tag shows up in the verification result.
type VariationDetail struct {
	Detected bool               `json:"detected"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
	Note     string             `json:"note,omitempty"`
}

// VariationAssessment aggregates all appearance checks over an image pair.
type VariationAssessment struct {
	Tags                []string                   `json:"variations"`
	Details             map[string]VariationDetail `json:"variation_details"`
	ThresholdAdjustment float64                    `json:"threshold_adjustment"`
}

// VerifyResult is the full outcome of one verification pipeline run.
type VerifyResult struct {
	RequestID           string                     `json:"request_id"`
	DecisionID          *string                    `json:"decision_id,omitempty"`
	UserID              string                     `json:"user_id"`
	SimilarityScore     float64                    `json:"similarity_score"`
	AdjustedScore       float64                    `json:"adjusted_score"`
	Decision            string                     `json:"decision"`
	Recommendation      string                     `json:"recommendation"`
	ConfidenceLevel     string                     `json:"confidence_level"`
	ConfidenceScore     float64                    `json:"confidence_score"`
	Variations          []string                   `json:"variations"`
	VariationDetails    map[string]VariationDetail `json:"variation_details"`
	ThresholdAdjustment float64                    `json:"threshold_adjustment"`
	EffectiveThresholds map[string]float64         `json:"effective_thresholds"`
	Quality             QualityMetrics             `json:"quality"`
	Reasons             []string                   `json:"reasons"`
	FeatureImportance   map[string]float64         `json:"feature_importance"`
	Explanation         string                     `json:"explanation"`
	IsAnomaly           bool                       `json:"is_anomaly"`
	UsedGalleryMatch    bool                       `json:"used_gallery_match"`
	CacheHit            bool                       `json:"cache_hit"`
	RetryCount          int                        `json:"-"` // telemetry only, carried to the inference log
	ProcessingTimeMS    int64                      `json:"processing_time_ms"`
	LiveRegion          FaceRegion                 `json:"live_region"`
	ReferenceRegion     FaceRegion                 `json:"reference_region"`
}

// CacheStats is a point-in-time snapshot of the embedding cache.
type CacheStats struct {
	Size    int     `json:"size"`
	MaxSize int     `json:"max_size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// ValidationError rejects an input image before any model work happens.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrNoFaceDetected is returned by embedding providers when strict detection
// finds no face. The orchestrator reacts by relaxing detection once.
type ErrNoFaceDetected struct {
	Strict bool
}

func (e *ErrNoFaceDetected) Error() string {
	if e.Strict {
		return "no face detected with strict detection"
	}
	return "no face detected"
}
