package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// bindStrictJSON decodes the request body into dst and rejects unknown
// fields, so clients cannot smuggle extra columns into a mutation. Validation
// tags on dst still apply.
func bindStrictJSON(c *gin.Context, dst any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return fmt.Errorf("body contains %s", strings.TrimPrefix(err.Error(), "json: "))
		}
		return errors.New("invalid request body")
	}
	if err := binding.Validator.ValidateStruct(dst); err != nil {
		return err
	}
	return nil
}

// pagination parses page/limit query parameters with the documented defaults
// (page 1, limit 10). Absent, non-numeric and non-positive values fall back
// to the default.
func pagination(c *gin.Context) (page, limit int) {
	page = 1
	limit = 10

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return page, limit
}

// pathID parses the numeric :id path parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
