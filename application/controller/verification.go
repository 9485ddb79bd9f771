package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	apperrors "verifid.io/application/appErrors"
	"verifid.io/application/controller/dto"
	"verifid.io/application/interfaces"
	"verifid.io/application/repository"
	"verifid.io/application/services/audit"
	"verifid.io/application/services/verification"
	"verifid.io/application/utils"
	"verifid.io/infrastructure/biometric"
	biometric_types "verifid.io/infrastructure/biometric/types"
	mongo_repo "verifid.io/infrastructure/database/repository/mongo"
	queue_tasks "verifid.io/infrastructure/message_queue/tasks"
	server_response "verifid.io/infrastructure/serverResponse"
	"verifid.io/infrastructure/validator"
)

// VerifyFaces runs the verification pipeline for a live/reference image pair
// on behalf of the authenticated banker.
func VerifyFaces(ctx *interfaces.ApplicationContext[dto.VerifyFacesDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	var deviceInfo *string
	if info, exists := ctx.Ctx.Get("DeviceInfo"); exists {
		if parsed, ok := info.(string); ok {
			deviceInfo = &parsed
		}
	}

	result, err := verification.Verify(verification.Request{
		BankerID:       ctx.BankerID,
		UserID:         ctx.Body.UserID,
		LiveImage:      ctx.Body.LiveImage,
		ReferenceImage: ctx.Body.ReferenceImage,
		IPAddress:      utils.GetStringPointer(ctx.Ctx.ClientIP()),
		DeviceInfo:     deviceInfo,
	})
	if err != nil {
		var invalidInput *biometric_types.ValidationError
		if errors.As(err, &invalidInput) {
			apperrors.ValidationFailedError(ctx.Ctx, &[]error{invalidInput})
			return
		}
		if errors.Is(err, biometric.ErrProviderUnavailable) {
			apperrors.ExternalDependencyError(ctx.Ctx, "embedding model server", err)
			return
		}
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "verification completed", result, nil)
}

// BankerDecide records the banker's final call on one of their decisions.
func BankerDecide(ctx *interfaces.ApplicationContext[dto.BankerDecideDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	decisionRecord, err := repository.DecisionRepo().FindOneByID(ctx.Body.DecisionID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if decisionRecord == nil {
		apperrors.NotFoundError(ctx.Ctx, "decision not found")
		return
	}
	if decisionRecord.BankerID != ctx.BankerID {
		audit.RecordAction(queue_tasks.AuditLogPayload{
			BankerID:   ctx.BankerID,
			Action:     audit.ActionUnauthorizedDecide,
			DecisionID: &ctx.Body.DecisionID,
			Details:    map[string]any{"attempted_action": ctx.Body.Action},
			Status:     audit.StatusFailed,
		})
		apperrors.ForbiddenError(ctx.Ctx, "you can only act on your own decisions")
		return
	}

	_, err = repository.DecisionRepo().UpdatePartialByID(ctx.Body.DecisionID, bson.M{
		"bankerAction":    ctx.Body.Action,
		"bankerReasoning": ctx.Body.Reasoning,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	audit.RecordAction(queue_tasks.AuditLogPayload{
		BankerID:   ctx.BankerID,
		Action:     strings.TrimPrefix(ctx.Body.Action, "BANKER_"),
		DecisionID: &ctx.Body.DecisionID,
		Details:    map[string]any{"reasoning": ctx.Body.Reasoning, "ip": ctx.Ctx.ClientIP()},
		Status:     audit.StatusSuccess,
	})

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "decision recorded", map[string]any{
		"action": ctx.Body.Action,
	}, nil)
}

// MyDecisions lists the authenticated banker's decisions, newest first.
func MyDecisions(ctx *interfaces.ApplicationContext[any]) {
	limit := int64(50)
	if raw := ctx.Ctx.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > 500 {
			apperrors.ClientError(ctx.Ctx, "limit must be between 1 and 500", nil)
			return
		}
		limit = parsed
	}

	var sort interface{} = bson.M{"createdAt": -1}
	decisions, err := repository.DecisionRepo().FindMany(bson.M{"bankerID": ctx.BankerID}, &mongo_repo.FindOptions{
		Sort:  &sort,
		Limit: &limit,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "decisions fetched", map[string]any{
		"bankerID":  ctx.BankerID,
		"total":     len(*decisions),
		"decisions": decisions,
	}, nil)
}

// CacheStats reports embedding cache effectiveness for operators.
func CacheStats(ctx *interfaces.ApplicationContext[any]) {
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "cache stats fetched",
		biometric.Verifier.CacheStats(), nil)
}
