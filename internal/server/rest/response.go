package rest

import (
	"net/http"

	"github.com/dmitrijs2005/promptkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

const (
	msgInternal       = "Internal Server Error"
	msgInvalidRequest = "Invalid request body"
	msgBodyTooLarge   = "Request body too large"
)

// statusFor maps an error kind to an HTTP status. The two parameters cover
// the only mappings that differ between routes.
func statusFor(err error, missingFields, notFound int) int {
	switch common.KindOf(err) {
	case common.KindValidation:
		if common.ReasonOf(err) == common.ReasonMissingFields {
			return missingFields
		}
		return http.StatusBadRequest
	case common.KindConflict:
		return http.StatusBadRequest
	case common.KindNotFound:
		return notFound
	case common.KindUnauthorized, common.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(msg string) gin.H {
	return gin.H{"success": false, "message": msg}
}

// abortWithError writes the failure envelope. Only the error's public
// message reaches the client.
func abortWithError(c *gin.Context, err error, status int) {
	c.AbortWithStatusJSON(status, errorBody(common.MessageOf(err, msgInternal)))
}

// outcome labels an operation result for metrics.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return common.KindOf(err).String()
}
