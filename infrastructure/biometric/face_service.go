package biometric

import (
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"verifid.io/application/constants"
	biometric_types "verifid.io/infrastructure/biometric/types"
	"verifid.io/infrastructure/logger"
)

// ErrProviderUnavailable wraps a model-server failure that survived every
// retry. Callers map it to a 503.
var ErrProviderUnavailable = errors.New("embedding provider unavailable")

// MatchOutcome is the raw pipeline output before decision scoring.
type MatchOutcome struct {
	SimilarityScore  float64
	Variations       biometric_types.VariationAssessment
	Quality          biometric_types.QualityMetrics
	LiveRegion       biometric_types.FaceRegion
	ReferenceRegion  biometric_types.FaceRegion
	UsedGalleryMatch bool
	CacheHit         bool
	RetryCount       int
	ProcessingTimeMS int64
}

// FaceService runs the verification pipeline: validate, embed (with cache
// and retries), compare against the reference and recent approved captures,
// and assess quality and appearance variations.
type FaceService struct {
	provider  EmbeddingProvider
	cache     *EmbeddingCache
	detector  *faceDetector
	variation *VariationDetector
}

func NewFaceService(provider EmbeddingProvider, cache *EmbeddingCache, detector *faceDetector, variation *VariationDetector) *FaceService {
	return &FaceService{
		provider:  provider,
		cache:     cache,
		detector:  detector,
		variation: variation,
	}
}

// Match compares a live capture against a reference image. gallery holds the
// user's recent approved captures, newest first; a gallery embedding only
// replaces the reference similarity when it strictly improves it.
func (fs *FaceService) Match(liveImage []byte, referenceImage []byte, userID string, gallery [][]byte) (*MatchOutcome, error) {
	started := time.Now()

	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	liveImg, err := validateImage(liveImage, "live_image")
	if err != nil {
		return nil, err
	}
	refImg, err := validateImage(referenceImage, "reference_image")
	if err != nil {
		return nil, err
	}

	liveEmbedding, liveRegion, liveCacheHit, liveRetries, err := fs.embeddingFor(liveImage, liveImg, "live_image")
	if err != nil {
		return nil, err
	}
	refEmbedding, refRegion, refCacheHit, refRetries, err := fs.embeddingFor(referenceImage, refImg, "reference_image")
	if err != nil {
		return nil, err
	}

	similarity := CosineSimilarity(liveEmbedding, refEmbedding)

	usedGallery := false
	for _, galleryImage := range gallery {
		galleryImg, err := decodeImage(galleryImage)
		if err != nil {
			continue
		}
		galleryEmbedding, _, _, _, err := fs.embeddingFor(galleryImage, galleryImg, "gallery_image")
		if err != nil {
			// a stale or broken gallery capture never blocks verification
			continue
		}
		galleryScore := CosineSimilarity(liveEmbedding, galleryEmbedding)
		if galleryScore > similarity {
			similarity = galleryScore
			usedGallery = true
		}
	}

	liveGray := toGray(liveImg)
	refGray := toGray(refImg)

	// cache hits carry a whole-frame region; a local detection pass gives
	// the appearance checks a real face box instead
	liveCheckRegion := &liveRegion
	if liveCacheHit {
		if detected := fs.detector.detectLargest(liveImg, false); detected != nil {
			liveCheckRegion = detected
		}
	}
	refCheckRegion := &refRegion
	if refCacheHit {
		if detected := fs.detector.detectLargest(refImg, false); detected != nil {
			refCheckRegion = detected
		}
	}

	variations := fs.variation.Assess(variationInput{
		liveImg:    liveImg,
		refImg:     refImg,
		liveGray:   liveGray,
		refGray:    refGray,
		liveRegion: liveCheckRegion,
		refRegion:  refCheckRegion,
		liveBytes:  liveImage,
		refBytes:   referenceImage,
	})

	quality := assessQuality(liveGray, liveCheckRegion)

	return &MatchOutcome{
		SimilarityScore:  similarity,
		Variations:       variations,
		Quality:          quality,
		LiveRegion:       liveRegion,
		ReferenceRegion:  refRegion,
		UsedGalleryMatch: usedGallery,
		CacheHit:         liveCacheHit && refCacheHit,
		RetryCount:       liveRetries + refRetries,
		ProcessingTimeMS: time.Since(started).Milliseconds(),
	}, nil
}

// CacheStats exposes embedding cache counters for the operations endpoint.
func (fs *FaceService) CacheStats() biometric_types.CacheStats {
	return fs.cache.Stats()
}

// ProviderAvailable reports whether the embedding provider answers its
// health probe. Providers without one are assumed reachable.
func (fs *FaceService) ProviderAvailable() bool {
	if checker, ok := fs.provider.(interface{ Healthy() bool }); ok {
		return checker.Healthy()
	}
	return fs.provider != nil
}

// embeddingFor resolves an embedding through the cache, falling back to the
// model server with bounded retries. Strict detection is relaxed exactly
// once if it reports no face.
func (fs *FaceService) embeddingFor(imageData []byte, img image.Image, field string) ([]float64, biometric_types.FaceRegion, bool, int, error) {
	key := CacheKey(imageData)
	if embedding, _, found := fs.cache.Get(key); found {
		// the cached vector carries no fresh detection, so the region is
		// the whole frame
		bounds := img.Bounds()
		region := biometric_types.FaceRegion{
			X:          0,
			Y:          0,
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
			Confidence: 1.0,
		}
		return embedding, region, true, 0, nil
	}

	strict := true
	retries := 0
	var lastErr error
	for attempt := 0; attempt < constants.EMBEDDING_MAX_ATTEMPTS; attempt++ {
		if attempt > 0 {
			retries++
			time.Sleep(constants.EMBEDDING_RETRY_BACKOFF)
		}
		embedding, err := fs.provider.Represent(imageData, strict)
		if err == nil {
			fs.cache.Put(key, embedding.Vector, embedding.Region)
			return embedding.Vector, embedding.Region, false, retries, nil
		}
		lastErr = err

		var noFace *biometric_types.ErrNoFaceDetected
		if errors.As(err, &noFace) {
			if strict {
				strict = false
				continue
			}
			return nil, biometric_types.FaceRegion{}, false, retries, &biometric_types.ValidationError{
				Field:   field,
				Message: "no face detected in image",
			}
		}
		logger.Warning("embedding attempt failed", logger.LoggerOptions{
			Key:  "attempt",
			Data: attempt + 1,
		}, logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}
	return nil, biometric_types.FaceRegion{}, false, retries, fmt.Errorf("%w: %v", ErrProviderUnavailable, lastErr)
}

// CosineSimilarity clamps to [0, 1]; negative cosine means no meaningful
// facial match. Zero-norm vectors score 0 rather than dividing by zero.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if similarity < 0 {
		return 0.0
	}
	if similarity > 1 {
		return 1.0
	}
	return similarity
}

func validateUserID(userID string) error {
	if userID == "" {
		return &biometric_types.ValidationError{Field: "user_id", Message: "user id is required"}
	}
	if len(userID) > constants.MAX_USER_ID_LENGTH {
		return &biometric_types.ValidationError{Field: "user_id", Message: fmt.Sprintf("user id must not exceed %d characters", constants.MAX_USER_ID_LENGTH)}
	}
	return nil
}

// validateImage enforces the acceptance bounds and returns the decoded
// image so later stages never decode twice.
func validateImage(data []byte, field string) (image.Image, error) {
	if len(data) == 0 {
		return nil, &biometric_types.ValidationError{Field: field, Message: "image data is required"}
	}
	if len(data) > constants.MAX_IMAGE_SIZE_BYTES {
		return nil, &biometric_types.ValidationError{Field: field, Message: "image exceeds the 10MB size limit"}
	}
	img, err := decodeImage(data)
	if err != nil {
		return nil, &biometric_types.ValidationError{Field: field, Message: "image could not be decoded"}
	}
	bounds := img.Bounds()
	if bounds.Dx() < constants.MIN_IMAGE_RESOLUTION || bounds.Dy() < constants.MIN_IMAGE_RESOLUTION {
		return nil, &biometric_types.ValidationError{Field: field, Message: fmt.Sprintf("image must be at least %dx%d pixels", constants.MIN_IMAGE_RESOLUTION, constants.MIN_IMAGE_RESOLUTION)}
	}
	if bounds.Dx() > constants.MAX_IMAGE_RESOLUTION || bounds.Dy() > constants.MAX_IMAGE_RESOLUTION {
		return nil, &biometric_types.ValidationError{Field: field, Message: fmt.Sprintf("image must not exceed %dx%d pixels", constants.MAX_IMAGE_RESOLUTION, constants.MAX_IMAGE_RESOLUTION)}
	}
	if _, isGray := img.(*image.Gray); isGray {
		return nil, &biometric_types.ValidationError{Field: field, Message: "image must have at least 3 colour channels"}
	}
	return img, nil
}
