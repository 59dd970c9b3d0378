package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/promptkeeper/internal/common"
	"github.com/dmitrijs2005/promptkeeper/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

const (
	corsAllowMethods = "GET, HEAD, PUT, PATCH, POST, DELETE"
	corsAllowHeaders = "Content-Type, " + common.TokenHeaderName
)

// authRequired runs the access guard and stores the caller's identity on the
// context for the downstream handler.
func (s *HTTPServer) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := s.guard.Authorize(ginCarrier{c: c})
		if err != nil {
			s.metrics.TokenCheck(common.KindOf(err).String())
			if common.KindOf(err) == common.KindInternal {
				s.logger.Error(c.Request.Context(), "token validation failed", "error", err)
			} else {
				s.logger.Debug(c.Request.Context(), "token rejected", "error", err)
			}
			abortWithError(c, err, statusFor(err, http.StatusBadRequest, http.StatusNotFound))
			return
		}

		s.metrics.TokenCheck("ok")
		c.Set(identityKey, id)
		c.Next()
	}
}

func identityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

// requestLogger writes one line per request and feeds the latency histogram.
func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.ObserveRequest(route, strconv.Itoa(status), latency.Seconds())

		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency.String(),
		)
	}
}

// recovery turns a panic in any handler into the internal-error envelope.
func (s *HTTPServer) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		s.logger.Error(c.Request.Context(), "panic while serving request",
			"path", c.Request.URL.Path,
			"panic", fmt.Sprint(recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody(msgInternal))
	})
}

// cors allows every origin and answers preflight requests directly.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")

		if c.Request.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			if req := c.GetHeader("Access-Control-Request-Headers"); req != "" {
				h.Set("Access-Control-Allow-Headers", req)
			} else {
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			}
			h.Add("Vary", "Access-Control-Request-Headers")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// bodyLimit caps the request body at limit bytes and buffers it for the
// guard and the handlers. Oversized bodies get 413.
func bodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		if _, err := cachedBody(c); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorBody(msgBodyTooLarge))
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, errorBody(msgInvalidRequest))
			return
		}

		c.Next()
	}
}
