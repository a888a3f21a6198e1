package util

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// mongo duplicate key messages look like: ... index: email_1 dup key: { email: "a@b.c" }
var mongoDupKeyPattern = regexp.MustCompile(`dup key: \{ ?"?([A-Za-z0-9_.]+)"?\s*:`)

// ToDomainError converts any error into the stable error taxonomy.
// The original error is kept in Err so it can be logged server-side.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var validationErrs ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		return asDomain(NewValidationError(validationErrs.Error(), map[string]any{"fields": validationErrs.Fields()}), err)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &DomainError{
			Code:        fiberCode(fiberErr.Code),
			Message:     fiberErr.Message,
			HTTPStatus:  fiberErr.Code,
			Operational: true,
			Err:         err,
		}
	}

	if de := fromToken(err); de != nil {
		return de
	}
	if de := fromPostgres(err); de != nil {
		return de
	}
	if de := fromMongo(err); de != nil {
		return de
	}

	switch {
	case errors.Is(err, ErrInvalidID):
		return asDomain(NewInvalidID(), err)
	case errors.Is(err, ErrRecordNotFound), errors.Is(err, pgx.ErrNoRows), errors.Is(err, mongo.ErrNoDocuments):
		return asDomain(NewNotFound("Resource"), err)
	case isUnavailable(err):
		return asDomain(NewUnavailable(err), err)
	}

	return asDomain(NewInternalError(err), err)
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

func asDomain(err error, cause error) *DomainError {
	de := err.(*DomainError)
	if de.Err == nil {
		de.Err = cause
	}
	return de
}

func fromToken(err error) *DomainError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return asDomain(NewTokenExpired(), err)
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return asDomain(NewInvalidToken(), err)
	}
	return nil
}

func fromPostgres(err error) *DomainError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return asDomain(NewDuplicateKey(fieldFromConstraint(pgErr.ConstraintName, pgErr.TableName)), err)
	case pgerrcode.InvalidTextRepresentation:
		return asDomain(NewInvalidID(), err)
	case pgerrcode.NotNullViolation:
		return asDomain(NewValidationError(fmt.Sprintf("%s is required", pgErr.ColumnName), nil), err)
	case pgerrcode.ForeignKeyViolation:
		return asDomain(NewValidationError("referenced record does not exist", nil), err)
	case pgerrcode.CheckViolation:
		return asDomain(NewValidationError("invalid value", nil), err)
	case pgerrcode.QueryCanceled, pgerrcode.AdminShutdown, pgerrcode.CannotConnectNow, pgerrcode.TooManyConnections:
		return asDomain(NewUnavailable(err), err)
	}
	if pgerrcode.IsConnectionException(pgErr.Code) {
		return asDomain(NewUnavailable(err), err)
	}
	return nil
}

func fromMongo(err error) *DomainError {
	if mongo.IsDuplicateKeyError(err) {
		field := "field"
		if m := mongoDupKeyPattern.FindStringSubmatch(err.Error()); len(m) == 2 {
			field = m[1]
		}
		return asDomain(NewDuplicateKey(field), err)
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return asDomain(NewUnavailable(err), err)
	}
	return nil
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// fieldFromConstraint turns "vets_email_key" into "email".
func fieldFromConstraint(constraint, table string) string {
	if constraint == "" {
		return "field"
	}
	field := strings.TrimPrefix(constraint, table+"_")
	for _, suffix := range []string{"_key", "_idx", "_unique"} {
		field = strings.TrimSuffix(field, suffix)
	}
	return field
}

func fiberCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusTooManyRequests:
		return CodeRateLimited
	}
	if status >= http.StatusInternalServerError {
		return CodeInternal
	}
	return CodeValidation
}
