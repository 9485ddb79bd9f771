package biometric

import (
	biometric_types "verifid.io/infrastructure/biometric/types"
)

// Sharpness normalisation constant. A Laplacian variance at or above this is
// treated as perfectly sharp.
const sharpnessScale = 500.0

// assessQuality scores the live capture. Reference images are vetted at
// enrolment and never scored.
func assessQuality(gray *grayImage, region *biometric_types.FaceRegion) biometric_types.QualityMetrics {
	metrics := biometric_types.QualityMetrics{
		Brightness: gray.mean() / 255.0,
	}

	sharpness := laplacianVariance(gray) / sharpnessScale
	if sharpness > 1.0 {
		sharpness = 1.0
	}
	metrics.Sharpness = sharpness

	if region != nil && gray.w > 0 && gray.h > 0 {
		faceArea := float64(region.Width * region.Height)
		imageArea := float64(gray.w * gray.h)
		metrics.FaceSizeRatio = faceArea / imageArea
	}
	return metrics
}
