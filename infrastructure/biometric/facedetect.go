package biometric

import (
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"

	biometric_types "verifid.io/infrastructure/biometric/types"
	"verifid.io/infrastructure/logger"
)

// Quality thresholds for the pixel-intensity cascade. Strict mode keeps only
// confident detections; loose mode trades precision for recall when a retry
// found nothing.
const (
	strictDetectionQ = 10.0
	looseDetectionQ  = 3.0
)

type faceDetector struct {
	classifier *pigo.Pigo
}

// newFaceDetector unpacks the binary cascade at path. A missing cascade is
// not fatal: callers degrade to full-image analysis.
func newFaceDetector(cascadePath string) *faceDetector {
	if cascadePath == "" {
		return nil
	}
	cascade, err := os.ReadFile(cascadePath)
	if err != nil {
		logger.Warning("face cascade could not be read, local detection disabled", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "path",
			Data: cascadePath,
		})
		return nil
	}
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		logger.Warning("face cascade could not be unpacked, local detection disabled", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil
	}
	return &faceDetector{classifier: classifier}
}

// detectLargest returns the biggest face in img, or nil when none passes the
// quality bar.
func (fd *faceDetector) detectLargest(img image.Image, strict bool) *biometric_types.FaceRegion {
	if fd == nil || fd.classifier == nil {
		return nil
	}
	bounds := img.Bounds()
	cols := bounds.Dx()
	rows := bounds.Dy()
	pixels := pigo.RgbToGrayscale(img)

	minSize := cols / 10
	if minSize < 20 {
		minSize = 20
	}
	params := pigo.CascadeParams{
		MinSize:     minSize,
		MaxSize:     cols,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	qThreshold := looseDetectionQ
	if strict {
		qThreshold = strictDetectionQ
	}
	detections := fd.classifier.RunCascade(params, 0.0)
	detections = fd.classifier.ClusterDetections(detections, 0.2)

	var best *biometric_types.FaceRegion
	for _, det := range detections {
		if float64(det.Q) < qThreshold {
			continue
		}
		region := biometric_types.FaceRegion{
			X:          det.Col - det.Scale/2,
			Y:          det.Row - det.Scale/2,
			Width:      det.Scale,
			Height:     det.Scale,
			Confidence: float64(det.Q),
		}
		if region.X < 0 {
			region.X = 0
		}
		if region.Y < 0 {
			region.Y = 0
		}
		if best == nil || region.Width*region.Height > best.Width*best.Height {
			r := region
			best = &r
		}
	}
	return best
}
