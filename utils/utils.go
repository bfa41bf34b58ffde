package utils

import (
	"encoding/json"
	"time"

	"finance-tracker/types"

	"github.com/gofiber/fiber/v2"
)

// Request body fields that never belong in a log
var secretFields = []string{"password", "newPassword", "currentPassword", "code"}

func sanitizeRequestBody(c *fiber.Ctx) string {
	body := c.Body()
	if len(body) == 0 {
		return ""
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return string(append([]byte(nil), body...))
	}

	for _, field := range secretFields {
		if _, ok := parsed[field]; ok {
			parsed[field] = "[REDACTED]"
		}
	}

	sanitized, err := json.Marshal(parsed)
	if err != nil {
		return "[UNLOGGABLE_REQUEST_BODY]"
	}
	return string(sanitized)
}

// CreateSanitizedLogEntry builds a request log entry with credential fields
// redacted. All data is deep-copied because fiber recycles its buffers after
// the handler returns.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	method := string([]byte(c.Method()))
	url := string([]byte(c.OriginalURL()))
	requestBody := sanitizeRequestBody(c)
	responseBody := string(append([]byte(nil), c.Response().Body()...))

	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	entry := types.LogEntry{
		Method:          method,
		URL:             url,
		RequestBody:     requestBody,
		ResponseBody:    responseBody,
		RequestHeaders:  string(requestHeaders),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
	if userID, ok := c.Locals("userID").(uint); ok {
		entry.UserID = &userID
	}
	return entry
}
