package salon

import (
	"errors"

	"github.com/ava-bijoux/ava-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getSalonID(c *gin.Context) (uint, bool) {
	return shared.GetContextUintWithKeys(c, "salon_id", "salon id invalid", "salon id type invalid")
}

func respondError(c *gin.Context, code int, msg string, err error) {
	shared.RespondError(c, code, msg, err)
}

// mappedHandlerError maps one business error onto an API error response.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}
