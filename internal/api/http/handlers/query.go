package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

const dateLayout = "2006-01-02"

var errInvalidBody = fiber.NewError(http.StatusBadRequest, "Invalid request body")

// parseListOptions reads page, limit, sortBy, sortOrder, search, startDate and endDate.
// Defaults are left to the services.
func parseListOptions(c *fiber.Ctx) (domain.ListOptions, error) {
	opts := domain.ListOptions{
		Page:      c.QueryInt("page", domain.DefaultPage),
		Limit:     c.QueryInt("limit", domain.DefaultLimit),
		SortBy:    c.Query("sortBy"),
		SortOrder: domain.SortOrder(strings.ToLower(c.Query("sortOrder"))),
		Search:    strings.TrimSpace(c.Query("search")),
	}

	var errs apperrors.ValidationErrors
	if raw := c.Query("startDate"); raw != "" {
		start, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			errs = append(errs, apperrors.FieldError{Field: "startDate", Message: "startDate must be YYYY-MM-DD"})
		} else {
			opts.StartDate = &start
		}
	}
	if raw := c.Query("endDate"); raw != "" {
		end, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			errs = append(errs, apperrors.FieldError{Field: "endDate", Message: "endDate must be YYYY-MM-DD"})
		} else {
			// inclusive through the last millisecond of the day
			end = end.Add(24*time.Hour - time.Millisecond)
			opts.EndDate = &end
		}
	}
	if len(errs) > 0 {
		return domain.ListOptions{}, errs
	}
	return opts, nil
}
