package response

import (
	"errors"
	"fmt"
	"net/http"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/logger"
	"anoa.com/hennahub/pkg/apperror"
	"anoa.com/hennahub/pkg/ratelimiter"
	"anoa.com/hennahub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the auth middleware.
const (
	ContextUserID    = "user_id"
	ContextRole      = "role"
	ContextSuperuser = "is_superuser"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	s, ok := userIDStr.(string)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// GetActor builds the authenticated actor from the context.
func GetActor(c *gin.Context) (entity.Actor, error) {
	userID, err := GetUserID(c)
	if err != nil {
		return entity.Actor{}, err
	}
	return entity.Actor{
		UserID:      userID,
		Role:        c.GetString(ContextRole),
		IsSuperuser: c.GetBool(ContextSuperuser),
	}, nil
}

// ParamUUID parses a uuid path parameter.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, apperror.ErrBadRequest)
	}
	return id, nil
}

// BindError reports a request binding failure as a validation error.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": validator.FormatValidationError(err),
		"kind":  apperror.KindValidation,
	})
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	var rlErr *ratelimiter.RateLimitError
	if errors.As(err, &rlErr) {
		c.Header("Retry-After", fmt.Sprintf("%.0f", rlErr.RetryAfter.Seconds()))
	}

	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
	}

	c.JSON(code, gin.H{"error": err.Error(), "kind": apperror.Kind(err)})
}
