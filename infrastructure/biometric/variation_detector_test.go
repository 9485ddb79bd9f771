package biometric

import (
	"image"
	"image/color"
	"math"
	"testing"

	biometric_types "verifid.io/infrastructure/biometric/types"
)

func uniformImage(size int, shade uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: shade, G: shade, B: shade, A: 255})
		}
	}
	return img
}

func checkerboardImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			shade := uint8(0)
			if (x+y)%2 == 0 {
				shade = 255
			}
			img.SetNRGBA(x, y, color.NRGBA{R: shade, G: shade, B: shade, A: 255})
		}
	}
	return img
}

func inputFor(live, ref image.Image, liveRegion, refRegion *biometric_types.FaceRegion) variationInput {
	return variationInput{
		liveImg:    live,
		refImg:     ref,
		liveGray:   toGray(live),
		refGray:    toGray(ref),
		liveRegion: liveRegion,
		refRegion:  refRegion,
	}
}

func hasTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}

func TestAssessLivenessPenaltyCanTurnAdjustmentNegative(t *testing.T) {
	detector := NewVariationDetector(nil)
	fullFace := &biometric_types.FaceRegion{X: 8, Y: 8, Width: 64, Height: 64, Confidence: 0.9}

	// flat bright live against flat dark reference: lighting fires (+0.03)
	// and the featureless live face trips the liveness check (-0.10)
	assessment := detector.Assess(inputFor(uniformImage(80, 230), uniformImage(80, 20), fullFace, fullFace))

	if !hasTag(assessment.Tags, VariationLighting) {
		t.Error("expected lighting_difference tag")
	}
	if !hasTag(assessment.Tags, VariationLiveness) {
		t.Error("expected artificial_manipulation tag for featureless capture")
	}
	if assessment.ThresholdAdjustment >= 0 {
		t.Errorf("expected negative aggregate adjustment, got %f", assessment.ThresholdAdjustment)
	}
	want := lightingAdjustment + livenessAdjustment
	if math.Abs(assessment.ThresholdAdjustment-want) > 1e-9 {
		t.Errorf("expected adjustment %f, got %f", want, assessment.ThresholdAdjustment)
	}
}

func TestAssessCapsAggregateAdjustment(t *testing.T) {
	detector := NewVariationDetector(nil)
	// tiny face box: occlusion fires; the checkerboard live capture fires
	// glasses, lighting, hairstyle and marks against the flat reference
	tinyFace := &biometric_types.FaceRegion{X: 10, Y: 10, Width: 8, Height: 8, Confidence: 0.9}
	refFace := &biometric_types.FaceRegion{X: 8, Y: 8, Width: 64, Height: 64, Confidence: 0.9}

	assessment := detector.Assess(inputFor(checkerboardImage(80), uniformImage(80, 20), tinyFace, refFace))

	if !hasTag(assessment.Tags, VariationOcclusion) {
		t.Error("expected partial_occlusion tag for undersized face")
	}
	if !hasTag(assessment.Tags, VariationLighting) {
		t.Error("expected lighting_difference tag")
	}
	if len(assessment.Tags) < 3 {
		t.Fatalf("expected several variations for this pair, got %v", assessment.Tags)
	}
	if math.Abs(assessment.ThresholdAdjustment-maxTotalAdjustment) > 1e-9 {
		t.Errorf("expected aggregate capped at %f, got %f", maxTotalAdjustment, assessment.ThresholdAdjustment)
	}
}

func TestAssessReportsOcclusionWhenNoFaceFound(t *testing.T) {
	detector := NewVariationDetector(nil)
	refFace := &biometric_types.FaceRegion{X: 8, Y: 8, Width: 64, Height: 64, Confidence: 0.9}

	assessment := detector.Assess(inputFor(uniformImage(80, 128), uniformImage(80, 128), nil, refFace))

	if !hasTag(assessment.Tags, VariationOcclusion) {
		t.Error("expected partial_occlusion tag when live capture has no face")
	}
	detail := assessment.Details[VariationOcclusion]
	if detail.Note == "" {
		t.Error("expected a note explaining the missing face")
	}
	// pose and depth data need landmarks, so neither may fire here
	if hasTag(assessment.Tags, VariationPose) {
		t.Error("pose must not fire without a landmark estimator")
	}
}

func TestAssessTagsMatchDetectedDetails(t *testing.T) {
	detector := NewVariationDetector(nil)
	fullFace := &biometric_types.FaceRegion{X: 8, Y: 8, Width: 64, Height: 64, Confidence: 0.9}

	assessment := detector.Assess(inputFor(checkerboardImage(80), uniformImage(80, 20), fullFace, fullFace))

	for _, tag := range assessment.Tags {
		detail, present := assessment.Details[tag]
		if !present {
			t.Errorf("tag %s present but detail missing", tag)
			continue
		}
		if !detail.Detected {
			t.Errorf("tag %s present but detail not marked detected", tag)
		}
	}
	// details carry only detected signals, so the maps mirror the tag list
	if len(assessment.Details) != len(assessment.Tags) {
		t.Errorf("details must cover exactly the detected tags, got %d details for %d tags",
			len(assessment.Details), len(assessment.Tags))
	}
	for name := range assessment.Details {
		if !hasTag(assessment.Tags, name) {
			t.Errorf("detail %s reported without a matching tag", name)
		}
	}
}

func TestAssessOmitsDetailsForUndetectedChecks(t *testing.T) {
	detector := NewVariationDetector(nil)
	fullFace := &biometric_types.FaceRegion{X: 8, Y: 8, Width: 64, Height: 64, Confidence: 0.9}

	// identical images: no check has anything to report
	assessment := detector.Assess(inputFor(uniformImage(80, 128), uniformImage(80, 128), fullFace, fullFace))

	for _, name := range []string{VariationGlasses, VariationLighting, VariationPose, VariationAging} {
		if _, present := assessment.Details[name]; present {
			t.Errorf("undetected check %s must not appear in details", name)
		}
	}
}

func TestRunIsolatedRecoversPanickingCheck(t *testing.T) {
	detector := NewVariationDetector(nil)
	detail, adjustment := detector.runIsolated("exploding", func(variationInput) (biometric_types.VariationDetail, float64) {
		panic("boom")
	}, variationInput{})

	if detail.Detected {
		t.Error("a panicking check must report not detected")
	}
	if adjustment != 0 {
		t.Errorf("a panicking check must contribute no adjustment, got %f", adjustment)
	}
	if detail.Note == "" {
		t.Error("expected an explanatory note for the failed check")
	}
}

func TestAssessIsDeterministic(t *testing.T) {
	detector := NewVariationDetector(nil)
	fullFace := &biometric_types.FaceRegion{X: 8, Y: 8, Width: 64, Height: 64, Confidence: 0.9}

	first := detector.Assess(inputFor(checkerboardImage(80), uniformImage(80, 20), fullFace, fullFace))
	second := detector.Assess(inputFor(checkerboardImage(80), uniformImage(80, 20), fullFace, fullFace))

	if len(first.Tags) != len(second.Tags) {
		t.Fatalf("tag counts differ across identical runs: %v vs %v", first.Tags, second.Tags)
	}
	for i := range first.Tags {
		if first.Tags[i] != second.Tags[i] {
			t.Errorf("tag order differs across identical runs: %v vs %v", first.Tags, second.Tags)
		}
	}
	if first.ThresholdAdjustment != second.ThresholdAdjustment {
		t.Errorf("adjustment differs across identical runs: %f vs %f",
			first.ThresholdAdjustment, second.ThresholdAdjustment)
	}
}

func TestAssessQuality(t *testing.T) {
	region := &biometric_types.FaceRegion{X: 0, Y: 0, Width: 40, Height: 40, Confidence: 0.9}

	t.Run("flat dark capture", func(t *testing.T) {
		metrics := assessQuality(toGray(uniformImage(80, 25)), region)
		if metrics.Sharpness != 0 {
			t.Errorf("flat image must have zero sharpness, got %f", metrics.Sharpness)
		}
		if metrics.Brightness > 0.2 {
			t.Errorf("dark image must have low brightness, got %f", metrics.Brightness)
		}
		wantRatio := float64(40*40) / float64(80*80)
		if math.Abs(metrics.FaceSizeRatio-wantRatio) > 1e-9 {
			t.Errorf("expected face size ratio %f, got %f", wantRatio, metrics.FaceSizeRatio)
		}
	})

	t.Run("high frequency capture saturates sharpness", func(t *testing.T) {
		metrics := assessQuality(toGray(checkerboardImage(80)), region)
		if metrics.Sharpness != 1.0 {
			t.Errorf("expected sharpness capped at 1.0, got %f", metrics.Sharpness)
		}
	})

	t.Run("missing region yields zero face ratio", func(t *testing.T) {
		metrics := assessQuality(toGray(uniformImage(80, 128)), nil)
		if metrics.FaceSizeRatio != 0 {
			t.Errorf("expected zero face ratio without a region, got %f", metrics.FaceSizeRatio)
		}
	})
}
