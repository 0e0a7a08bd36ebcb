package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID parses a numeric path parameter. The raw string must never reach a
// query builder: a non-numeric value cannot name a resource, so callers treat
// a false return as not-found.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
