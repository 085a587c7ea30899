package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arborcare/booking-core/internal/domain"
)

// writeError renders a domain error as the standard JSON envelope. Unknown
// error values are treated as dependency failures and logged; their content
// never reaches the caller.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		logger.Error("unhandled error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		de = domain.New(domain.CodeDependency, "internal failure")
	}

	if de.Code == domain.CodeDependency {
		logger.Error("dependency failure",
			zap.String("path", c.FullPath()),
			zap.Error(de),
		)
	}

	c.JSON(statusFor(de.Code), gin.H{
		"success": false,
		"error": gin.H{
			"type":    de.Code,
			"message": de.Message,
			"details": de.Details,
		},
	})
}

func statusFor(code domain.Code) int {
	switch code {
	case domain.CodeValidation, domain.CodePastDate:
		return http.StatusBadRequest
	case domain.CodeTimeSlotConflict,
		domain.CodeWeekendBlocked,
		domain.CodeDateBlocked,
		domain.CodeSameDateBooking,
		domain.CodeMaxActiveBookings:
		return http.StatusConflict
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidStatus, domain.CodeInvalidState:
		return http.StatusUnprocessableEntity
	case domain.CodeDependency:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
