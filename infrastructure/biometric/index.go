package biometric

import (
	"os"

	"verifid.io/application/constants"
	"verifid.io/infrastructure/logger"
)

// Verifier is the process-wide verification pipeline, assigned once during
// start up.
var Verifier *FaceService

func InitialiseBiometricService() {
	provider := NewModelServerProvider()
	cache := NewEmbeddingCache(constants.EMBEDDING_CACHE_SIZE)
	detector := newFaceDetector(os.Getenv("FACE_CASCADE_PATH"))
	variation := NewVariationDetector(provider)
	Verifier = NewFaceService(provider, cache, detector, variation)
	logger.Info("biometric service initialised")
}
