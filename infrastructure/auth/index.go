package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt"

	"verifid.io/infrastructure/database/repository/cache"
	"verifid.io/infrastructure/logger"
)

// SessionTTL bounds how long an issued banker token stays usable. The token
// itself carries the same expiry so the cache entry and the claim agree.
const SessionTTL = 8 * time.Hour

func GenerateAuthToken(claimsData ClaimsData) (*string, error) {
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":       os.Getenv("JWT_ISSUER"),
		"bankerID":  claimsData.BankerID,
		"name":      claimsData.Name,
		"email":     claimsData.Email,
		"exp":       claimsData.ExpiresAt,
		"iat":       claimsData.IssuedAt,
		"deviceID":  claimsData.DeviceID,
		"userAgent": claimsData.UserAgent,
	}).SignedString([]byte(os.Getenv("JWT_SIGNING_KEY")))
	if err != nil {
		return nil, err
	}
	saved := cache.Cache.CreateEntry(claimsData.BankerID, tokenString, SessionTTL)
	if !saved {
		return nil, errors.New("could not persist session")
	}
	return &tokenString, nil
}

func DecodeAuthToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SIGNING_KEY")), nil
	})
	if err != nil {
		if err == jwt.ErrSignatureInvalid {
			return nil, errors.New("invalid token signature used")
		}
		logger.Error("error decoding jwt", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	if !token.Valid {
		err := errors.New("invalid token used")
		logger.Error(err.Error())
		return nil, err
	}
	return token, nil
}

// VerifySession checks the decoded token against the cached session so that
// sign-out invalidates tokens before their expiry.
func VerifySession(bankerID string, tokenString string) bool {
	cached := cache.Cache.FindOne(bankerID)
	if cached == nil {
		return false
	}
	return *cached == tokenString
}

func SignOutBanker(bankerID string, reason string) {
	logger.Info("banker signout initiated", logger.LoggerOptions{
		Key:  "reason",
		Data: reason,
	})
	deleted := cache.Cache.DeleteOne(bankerID)
	if !deleted {
		logger.Error("failed to sign out banker", logger.LoggerOptions{
			Key:  "bankerID",
			Data: bankerID,
		})
	}
}
