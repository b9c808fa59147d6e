// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kartify/storefront-backend/internal/services"
	"github.com/kartify/storefront-backend/internal/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		utils.InternalErrorResponse(c, "")
		return
	}

	switch svcErr.Kind {
	case services.KindNotFound:
		utils.NotFoundResponse(c, svcErr.Message)
	case services.KindValidationFailed:
		if details := utils.GetValidationErrors(svcErr.Err); len(details) > 0 {
			utils.ValidationErrorResponse(c, details)
			return
		}
		utils.BadRequestResponse(c, svcErr.Message, nil)
	case services.KindRemoteUnavailable:
		utils.UnavailableResponse(c, svcErr.Message)
	default:
		utils.InternalErrorResponse(c, svcErr.Message)
	}
}

// currentUserID parses the optional authenticated identity set by
// OptionalAuth.
func currentUserID(c *gin.Context) *uuid.UUID {
	userIDStr, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return nil
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil
	}
	return &userID
}
