package biometric

import (
	"fmt"
	"image"
	"math"

	biometric_types "verifid.io/infrastructure/biometric/types"
	"verifid.io/infrastructure/logger"
)

// Variation tags surfaced to bankers. Order here is the order checks run in,
// which keeps result payloads stable across identical inputs.
const (
	VariationGlasses   = "glasses"
	VariationLighting  = "lighting_difference"
	VariationOcclusion = "partial_occlusion"
	VariationPose      = "pose_difference"
	VariationAging     = "aging_difference"
	VariationLiveness  = "artificial_manipulation"
	VariationHairstyle = "hair_change"
	VariationMarks     = "facial_marks"
)

// Per-check threshold relaxations. Liveness is the one check that tightens
// the decision instead of relaxing it.
const (
	glassesAdjustment   = 0.05
	lightingAdjustment  = 0.03
	occlusionAdjustment = 0.05
	poseAdjustment      = 0.03
	agingAdjustment     = 0.02
	livenessAdjustment  = -0.10
	hairstyleAdjustment = 0.02
	marksAdjustment     = 0.03

	maxTotalAdjustment = 0.10
)

// VariationDetector compares a live capture against a reference and reports
// benign appearance changes plus liveness concerns.
type VariationDetector struct {
	landmarks LandmarkEstimator
}

func NewVariationDetector(landmarks LandmarkEstimator) *VariationDetector {
	return &VariationDetector{landmarks: landmarks}
}

// variationInput carries everything the checks share so each one stays a
// pure function of it.
type variationInput struct {
	liveImg    image.Image
	refImg     image.Image
	liveGray   *grayImage
	refGray    *grayImage
	liveRegion *biometric_types.FaceRegion
	refRegion  *biometric_types.FaceRegion
	liveBytes  []byte
	refBytes   []byte
}

// Assess runs every check in a fixed order. A check that panics is logged
// and recorded as not detected; one broken check never sinks the rest.
func (vd *VariationDetector) Assess(input variationInput) biometric_types.VariationAssessment {
	type check struct {
		name string
		run  func(variationInput) (biometric_types.VariationDetail, float64)
	}
	checks := []check{
		{VariationGlasses, vd.checkGlasses},
		{VariationLighting, vd.checkLighting},
		{VariationOcclusion, vd.checkOcclusion},
		{VariationPose, vd.checkPose},
		{VariationAging, vd.checkAging},
		{VariationLiveness, vd.checkLiveness},
		{VariationHairstyle, vd.checkHairstyle},
		{VariationMarks, vd.checkMarks},
	}

	assessment := biometric_types.VariationAssessment{
		Tags:    []string{},
		Details: map[string]biometric_types.VariationDetail{},
	}
	var total float64
	for _, c := range checks {
		detail, adjustment := vd.runIsolated(c.name, c.run, input)
		// only detected signals carry a detail entry, keeping the payload
		// to what a banker acts on
		if detail.Detected {
			assessment.Tags = append(assessment.Tags, c.name)
			assessment.Details[c.name] = detail
			total += adjustment
		}
	}
	if total > maxTotalAdjustment {
		total = maxTotalAdjustment
	}
	assessment.ThresholdAdjustment = total
	return assessment
}

func (vd *VariationDetector) runIsolated(name string, run func(variationInput) (biometric_types.VariationDetail, float64), input variationInput) (detail biometric_types.VariationDetail, adjustment float64) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("variation check failed", logger.LoggerOptions{
				Key:  "check",
				Data: name,
			}, logger.LoggerOptions{
				Key:  "error",
				Data: fmt.Sprintf("%v", r),
			})
			detail = biometric_types.VariationDetail{Detected: false, Note: "check unavailable"}
			adjustment = 0
		}
	}()
	detail, adjustment = run(input)
	return detail, adjustment
}

// eyeBand clips the strip of the face box where eyewear sits.
func eyeBand(gray *grayImage, region *biometric_types.FaceRegion) *grayImage {
	x0 := region.X + int(0.15*float64(region.Width))
	x1 := region.X + int(0.85*float64(region.Width))
	y0 := region.Y + int(0.28*float64(region.Height))
	y1 := region.Y + int(0.50*float64(region.Height))
	return gray.crop(image.Rect(x0, y0, x1, y1))
}

func (vd *VariationDetector) checkGlasses(input variationInput) (biometric_types.VariationDetail, float64) {
	if input.liveRegion == nil || input.refRegion == nil {
		return biometric_types.VariationDetail{Detected: false, Note: "face region unavailable"}, 0
	}
	liveScore := math.Min(1.0, edgeDensity(eyeBand(input.liveGray, input.liveRegion), 100)/0.60)
	refScore := math.Min(1.0, edgeDensity(eyeBand(input.refGray, input.refRegion), 100)/0.60)
	diff := liveScore - refScore
	detected := math.Abs(diff) > 0.30 || liveScore > 0.80 || refScore > 0.80
	return biometric_types.VariationDetail{
		Detected: detected,
		Metrics: map[string]float64{
			"live_eyewear_score":      liveScore,
			"reference_eyewear_score": refScore,
			"difference":              diff,
		},
	}, glassesAdjustment
}

func (vd *VariationDetector) checkLighting(input variationInput) (biometric_types.VariationDetail, float64) {
	brightnessDiff := math.Abs(input.liveGray.mean()-input.refGray.mean()) / 255.0
	contrastDiff := math.Abs(input.liveGray.stddev()-input.refGray.stddev()) / 128.0
	detected := brightnessDiff > 0.20 || contrastDiff > 0.30
	return biometric_types.VariationDetail{
		Detected: detected,
		Metrics: map[string]float64{
			"brightness_difference": brightnessDiff,
			"contrast_difference":   contrastDiff,
		},
	}, lightingAdjustment
}

func (vd *VariationDetector) checkOcclusion(input variationInput) (biometric_types.VariationDetail, float64) {
	if input.liveRegion == nil {
		return biometric_types.VariationDetail{
			Detected: true,
			Note:     "no face found in live capture",
		}, occlusionAdjustment
	}
	faceRatio := float64(input.liveRegion.Width*input.liveRegion.Height) /
		float64(input.liveGray.w*input.liveGray.h)
	detected := faceRatio < 0.03
	return biometric_types.VariationDetail{
		Detected: detected,
		Metrics: map[string]float64{
			"face_area_ratio": faceRatio,
		},
	}, occlusionAdjustment
}

// yawFromLandmarks estimates head yaw in degrees from how off-centre the
// nose sits between the ears.
func yawFromLandmarks(lm *biometric_types.Landmarks) *float64 {
	if lm == nil || lm.NoseTip == nil || lm.LeftEar == nil || lm.RightEar == nil {
		return nil
	}
	earSpan := lm.RightEar.X - lm.LeftEar.X
	if math.Abs(earSpan) < 1e-9 {
		return nil
	}
	ratio := (lm.NoseTip.X - lm.LeftEar.X) / earSpan
	yaw := (ratio - 0.5) * 180.0
	return &yaw
}

func (vd *VariationDetector) checkPose(input variationInput) (biometric_types.VariationDetail, float64) {
	if vd.landmarks == nil || !vd.landmarks.Available() {
		return biometric_types.VariationDetail{Detected: false, Note: "landmarks unavailable"}, 0
	}
	liveLm, err := vd.landmarks.Landmarks(input.liveBytes)
	if err != nil {
		return biometric_types.VariationDetail{Detected: false, Note: "landmarks unavailable"}, 0
	}
	refLm, err := vd.landmarks.Landmarks(input.refBytes)
	if err != nil {
		return biometric_types.VariationDetail{Detected: false, Note: "landmarks unavailable"}, 0
	}

	liveYaw := yawFromLandmarks(liveLm)
	refYaw := yawFromLandmarks(refLm)
	metrics := map[string]float64{}
	detected := false
	if liveYaw != nil && refYaw != nil {
		yawDiff := math.Abs(*liveYaw - *refYaw)
		metrics["yaw_difference"] = yawDiff
		if yawDiff > 15.0 {
			detected = true
		}
	}
	if liveLm.Pitch != nil && refLm.Pitch != nil {
		pitchDiff := math.Abs(*liveLm.Pitch - *refLm.Pitch)
		metrics["pitch_difference"] = pitchDiff
		if pitchDiff > 15.0 {
			detected = true
		}
	}
	if len(metrics) == 0 {
		return biometric_types.VariationDetail{Detected: false, Note: "landmarks unavailable"}, 0
	}
	return biometric_types.VariationDetail{Detected: detected, Metrics: metrics}, poseAdjustment
}

func faceCrop(gray *grayImage, region *biometric_types.FaceRegion) *grayImage {
	if region == nil {
		return gray
	}
	return gray.crop(image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height))
}

func (vd *VariationDetector) checkAging(input variationInput) (biometric_types.VariationDetail, float64) {
	liveTexture := gaborTextureStd(faceCrop(input.liveGray, input.liveRegion)) / 128.0
	refTexture := gaborTextureStd(faceCrop(input.refGray, input.refRegion)) / 128.0
	diff := math.Abs(liveTexture - refTexture)
	detected := diff > 0.15
	return biometric_types.VariationDetail{
		Detected: detected,
		Metrics: map[string]float64{
			"live_texture":       liveTexture,
			"reference_texture":  refTexture,
			"texture_difference": diff,
		},
	}, agingAdjustment
}

func (vd *VariationDetector) checkLiveness(input variationInput) (biometric_types.VariationDetail, float64) {
	metrics := map[string]float64{}
	flatDepth := false
	if vd.landmarks != nil && vd.landmarks.Available() {
		if lm, err := vd.landmarks.Landmarks(input.liveBytes); err == nil &&
			lm.NoseTip != nil && lm.LeftEar != nil && lm.RightEar != nil {
			earZ := (lm.LeftEar.Z + lm.RightEar.Z) / 2
			depthDelta := math.Abs(lm.NoseTip.Z - earZ)
			metrics["depth_delta"] = depthDelta
			flatDepth = depthDelta < 0.02
		}
	}

	liveVariance := laplacianVariance(faceCrop(input.liveGray, input.liveRegion))
	metrics["texture_variance"] = liveVariance
	flatTexture := liveVariance < 50.0

	detected := flatDepth || flatTexture
	return biometric_types.VariationDetail{
		Detected: detected,
		Metrics:  metrics,
	}, livenessAdjustment
}

// forehead is the strip above the face box where hairstyle changes show.
func forehead(gray *grayImage, region *biometric_types.FaceRegion) *grayImage {
	height := int(0.25 * float64(region.Height))
	return gray.crop(image.Rect(region.X, region.Y, region.X+region.Width, region.Y+height))
}

func (vd *VariationDetector) checkHairstyle(input variationInput) (biometric_types.VariationDetail, float64) {
	if input.liveRegion == nil || input.refRegion == nil {
		return biometric_types.VariationDetail{Detected: false, Note: "face region unavailable"}, 0
	}
	liveVariance := laplacianVariance(forehead(input.liveGray, input.liveRegion))
	refVariance := laplacianVariance(forehead(input.refGray, input.refRegion))
	diff := math.Abs(liveVariance - refVariance)
	detected := diff > 20.0
	return biometric_types.VariationDetail{
		Detected: detected,
		Metrics: map[string]float64{
			"live_forehead_variance":      liveVariance,
			"reference_forehead_variance": refVariance,
			"difference":                  diff,
		},
	}, hairstyleAdjustment
}

// cheekEdgeScore counts edge pixels in the two cheek regions of a capture
// normalised to 200x200 with contrast stretched, so moles, scars and
// tattoos register as persistent edges.
func cheekEdgeScore(img image.Image) float64 {
	normalised := enhanceContrast(resizeGray(img, 200, 200))
	leftCheek := normalised.crop(image.Rect(30, 90, 70, 140))
	rightCheek := normalised.crop(image.Rect(130, 90, 170, 140))
	return edgeCount(leftCheek, 100) + edgeCount(rightCheek, 100)
}

func (vd *VariationDetector) checkMarks(input variationInput) (biometric_types.VariationDetail, float64) {
	liveScore := cheekEdgeScore(input.liveImg)
	refScore := cheekEdgeScore(input.refImg)
	diff := math.Abs(liveScore - refScore)
	detected := diff > 15.0
	return biometric_types.VariationDetail{
		Detected: detected,
		Metrics: map[string]float64{
			"live_mark_score":      liveScore,
			"reference_mark_score": refScore,
			"difference":           diff,
		},
	}, marksAdjustment
}
