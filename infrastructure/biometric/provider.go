package biometric

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	biometric_types "verifid.io/infrastructure/biometric/types"
	"verifid.io/infrastructure/logger"
	"verifid.io/infrastructure/network"
)

// EmbeddingProvider turns an image into a face embedding. Strict mode uses
// tight detection thresholds; loose mode is the fallback after strict finds
// no face.
type EmbeddingProvider interface {
	Represent(image []byte, strict bool) (*biometric_types.FaceEmbedding, error)
}

// LandmarkEstimator is an optional capability. When unavailable the pose and
// depth checks report not-significant instead of failing.
type LandmarkEstimator interface {
	Landmarks(image []byte) (*biometric_types.Landmarks, error)
	Available() bool
}

// ModelServerProvider talks to the embedding model server over its JSON API.
type ModelServerProvider struct {
	network     *network.NetworkController
	landmarksOn bool
}

func NewModelServerProvider() *ModelServerProvider {
	return &ModelServerProvider{
		network: &network.NetworkController{
			BaseUrl: os.Getenv("MODEL_SERVER_URL"),
		},
		landmarksOn: os.Getenv("MODEL_SERVER_LANDMARKS") == "true",
	}
}

type representRequest struct {
	Image  string `json:"image"`
	Strict bool   `json:"strict"`
}

type representResponse struct {
	Embedding []float64                  `json:"embedding"`
	Region    biometric_types.FaceRegion `json:"region"`
	Error     string                     `json:"error"`
}

func (p *ModelServerProvider) Represent(image []byte, strict bool) (*biometric_types.FaceEmbedding, error) {
	response, statusCode, err := p.network.Post("/represent", nil, representRequest{
		Image:  base64.StdEncoding.EncodeToString(image),
		Strict: strict,
	})
	if err != nil {
		return nil, err
	}
	var parsed representResponse
	if err := json.Unmarshal(*response, &parsed); err != nil {
		return nil, err
	}
	if *statusCode == http.StatusNotFound || parsed.Error == "no_face_detected" {
		return nil, &biometric_types.ErrNoFaceDetected{Strict: strict}
	}
	if *statusCode != http.StatusOK {
		logger.Error("model server returned an unexpected status", logger.LoggerOptions{
			Key:  "statusCode",
			Data: *statusCode,
		})
		return nil, fmt.Errorf("model server returned status %d", *statusCode)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("model server returned an empty embedding")
	}
	return &biometric_types.FaceEmbedding{
		Vector: parsed.Embedding,
		Region: parsed.Region,
	}, nil
}

type landmarksRequest struct {
	Image string `json:"image"`
}

func (p *ModelServerProvider) Landmarks(image []byte) (*biometric_types.Landmarks, error) {
	if !p.landmarksOn {
		return nil, fmt.Errorf("landmark estimation not enabled")
	}
	response, statusCode, err := p.network.Post("/landmarks", nil, landmarksRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, err
	}
	if *statusCode != http.StatusOK {
		return nil, fmt.Errorf("model server returned status %d", *statusCode)
	}
	var parsed biometric_types.Landmarks
	if err := json.Unmarshal(*response, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (p *ModelServerProvider) Available() bool {
	return p.landmarksOn
}

// Healthy probes the model server's health endpoint.
func (p *ModelServerProvider) Healthy() bool {
	_, statusCode, err := p.network.Get("/health", nil)
	return err == nil && statusCode != nil && *statusCode == http.StatusOK
}
