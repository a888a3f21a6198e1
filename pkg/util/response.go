package util

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/oops"
)

// ResponseBody renders the client-facing error payload.
// Outside development mode only the stable message is exposed.
func ResponseBody(de *DomainError, devMode bool) fiber.Map {
	message := de.Message
	if devMode && !de.Operational && de.HTTPStatus >= http.StatusInternalServerError && de.Err != nil {
		message = de.Err.Error()
	}

	body := fiber.Map{
		"status":  "error",
		"message": message,
		"error":   message,
	}
	if len(de.Details) > 0 {
		body["details"] = de.Details
	}

	if !devMode {
		return body
	}

	body["errorCode"] = de.Code
	if de.Err != nil && !de.Operational {
		body["stack"] = stackOf(de.Err)
	}
	return body
}

// IsInternal reports whether the error should be logged with its full cause.
func (e *DomainError) IsInternal() bool {
	return !e.Operational
}

func stackOf(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		if st := oopsErr.Stacktrace(); st != "" {
			return st
		}
	}
	return fmt.Sprintf("%+v", err)
}
