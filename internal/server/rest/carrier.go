package rest

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps request bodies on every route.
const MaxBodyBytes = 100 << 10

// ginCarrier exposes a gin request to the access guard.
type ginCarrier struct {
	c *gin.Context
}

func (g ginCarrier) Header(name string) string {
	return g.c.GetHeader(name)
}

// BodyField returns a top-level field of a JSON body. A body that is empty,
// not JSON or lacks the field yields "", as do null, false, 0 and "".
// Any other non-string value is returned in its JSON form so that it is
// presented, and rejected, as a token instead of being skipped.
func (g ginCarrier) BodyField(name string) (string, error) {
	body, err := cachedBody(g.c)
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", nil
	}

	raw, ok := fields[name]
	if !ok {
		return "", nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", nil
	}

	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		if !v {
			return "", nil
		}
		return strconv.FormatBool(v), nil
	case float64:
		if v == 0 {
			return "", nil
		}
		return string(raw), nil
	default:
		return string(raw), nil
	}
}

// cachedBody reads the request body once and keeps it under gin.BodyBytesKey
// so that the guard and the handler can both decode it.
func cachedBody(c *gin.Context) ([]byte, error) {
	if cb, ok := c.Get(gin.BodyBytesKey); ok {
		if b, ok := cb.([]byte); ok {
			return b, nil
		}
	}
	if c.Request.Body == nil {
		return nil, nil
	}

	b, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	c.Set(gin.BodyBytesKey, b)
	return b, nil
}
