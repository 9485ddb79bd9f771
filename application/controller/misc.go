package controller

import (
	"net/http"
	"time"

	"verifid.io/application/interfaces"
	"verifid.io/infrastructure/biometric"
	server_response "verifid.io/infrastructure/serverResponse"
)

func Ping(ctx *interfaces.ApplicationContext[any]) {
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "pong", nil, nil)
}

func Health(ctx *interfaces.ApplicationContext[any]) {
	modelServerUp := false
	if biometric.Verifier != nil {
		modelServerUp = biometric.Verifier.ProviderAvailable()
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "healthy", map[string]any{
		"service":         "verifid-core",
		"model_server_up": modelServerUp,
		"time":            time.Now().UTC().Format(time.RFC3339),
	}, nil)
}
