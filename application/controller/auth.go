package controller

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	apperrors "verifid.io/application/appErrors"
	"verifid.io/application/controller/dto"
	"verifid.io/application/interfaces"
	"verifid.io/application/repository"
	"verifid.io/application/services/audit"
	"verifid.io/entities"
	"verifid.io/infrastructure/auth"
	"verifid.io/infrastructure/cryptography"
	"verifid.io/infrastructure/logger"
	queue_tasks "verifid.io/infrastructure/message_queue/tasks"
	server_response "verifid.io/infrastructure/serverResponse"
	"verifid.io/infrastructure/validator"
)

func RegisterBanker(ctx *interfaces.ApplicationContext[dto.RegisterBankerDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	existing, err := repository.BankerRepo().FindOneByFilter(bson.M{"email": ctx.Body.Email})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if existing != nil {
		apperrors.ClientError(ctx.Ctx, "email already registered", nil)
		return
	}

	passwordHash, err := cryptography.CryptoHasher.HashString(ctx.Body.Password, nil)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	banker, err := repository.BankerRepo().CreateOne(entities.Banker{
		Name:         ctx.Body.Name,
		Email:        ctx.Body.Email,
		Phone:        ctx.Body.Phone,
		BranchCode:   ctx.Body.BranchCode,
		PasswordHash: string(passwordHash),
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	token, err := issueSession(banker, ctx.UserAgent, ctx.DeviceID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	audit.RecordAction(queue_tasks.AuditLogPayload{
		BankerID: banker.ID,
		Action:   audit.ActionRegister,
		Details:  map[string]any{"email": banker.Email},
		Status:   audit.StatusSuccess,
	})

	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "banker registered", map[string]any{
		"token":      token,
		"bankerID":   banker.ID,
		"bankerName": banker.Name,
		"email":      banker.Email,
		"branchCode": banker.BranchCode,
	}, nil)
}

func Login(ctx *interfaces.ApplicationContext[dto.LoginDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	banker, err := repository.BankerRepo().FindOneByFilter(bson.M{"email": ctx.Body.Email})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if banker == nil {
		logger.Warning("login attempt with unknown email")
		apperrors.AuthenticationError(ctx.Ctx, "invalid credentials")
		return
	}
	if !banker.IsActive {
		apperrors.ForbiddenError(ctx.Ctx, "account is disabled")
		return
	}
	if !cryptography.CryptoHasher.VerifyHashData(banker.PasswordHash, ctx.Body.Password) {
		audit.RecordAction(queue_tasks.AuditLogPayload{
			BankerID: banker.ID,
			Action:   audit.ActionLogin,
			Details:  map[string]any{"reason": "wrong_password", "ip": ctx.Ctx.ClientIP()},
			Status:   audit.StatusFailed,
		})
		apperrors.AuthenticationError(ctx.Ctx, "invalid credentials")
		return
	}

	now := time.Now()
	repository.BankerRepo().UpdatePartialByID(banker.ID, bson.M{
		"lastLogin":  now,
		"loginCount": banker.LoginCount + 1,
	})

	token, err := issueSession(banker, ctx.UserAgent, ctx.DeviceID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	audit.RecordAction(queue_tasks.AuditLogPayload{
		BankerID: banker.ID,
		Action:   audit.ActionLogin,
		Details:  map[string]any{"ip": ctx.Ctx.ClientIP()},
		Status:   audit.StatusSuccess,
	})

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "login successful", map[string]any{
		"token":      token,
		"bankerID":   banker.ID,
		"bankerName": banker.Name,
		"email":      banker.Email,
		"branchCode": banker.BranchCode,
	}, nil)
}

func Logout(ctx *interfaces.ApplicationContext[any]) {
	auth.SignOutBanker(ctx.BankerID, "banker initiated logout")
	audit.RecordAction(queue_tasks.AuditLogPayload{
		BankerID: ctx.BankerID,
		Action:   audit.ActionLogout,
		Status:   audit.StatusSuccess,
	})
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "logged out", nil, nil)
}

// CurrentBanker returns the authenticated banker's identity.
func CurrentBanker(ctx *interfaces.ApplicationContext[any]) {
	banker, err := repository.BankerRepo().FindOneByID(ctx.BankerID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if banker == nil {
		apperrors.AuthenticationError(ctx.Ctx, "this session has expired")
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "banker retrieved", map[string]any{
		"bankerID":   banker.ID,
		"bankerName": banker.Name,
		"email":      banker.Email,
		"branchCode": banker.BranchCode,
	}, nil)
}

func issueSession(banker *entities.Banker, userAgent string, deviceID string) (*string, error) {
	now := time.Now()
	return auth.GenerateAuthToken(auth.ClaimsData{
		BankerID:  banker.ID,
		Name:      banker.Name,
		Email:     banker.Email,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(auth.SessionTTL).Unix(),
		UserAgent: userAgent,
		DeviceID:  deviceID,
	})
}
