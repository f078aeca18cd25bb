package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/routinepro/routine-pro-api/pkg/errors"
)

const sessionHeader = "X-Session-ID"

// sessionID extracts the caller's session identifier. Sessions are
// client-assigned opaque ids; the server never mints them.
func sessionID(c *gin.Context) (string, error) {
	id := c.GetHeader(sessionHeader)
	if id == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "missing X-Session-ID header")
	}
	return id, nil
}

func pathIndex(c *gin.Context, name string) (int, error) {
	idx, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "index must be an integer")
	}
	return idx, nil
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func queryBool(c *gin.Context, name string) bool {
	value, _ := strconv.ParseBool(c.Query(name))
	return value
}
