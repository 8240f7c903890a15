package validation

import (
	"errors"
	"fmt"
	"strings"

	"robin/internal/database"

	"github.com/jackc/pgx/v5/pgconn"
)

// DatabaseError represents common database errors
type DatabaseError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error implements the error interface
func (de *DatabaseError) Error() string {
	return de.Message
}

// Common database error types
const (
	ErrorTypeUniqueViolation = "unique_violation"
	ErrorTypeNotFound        = "not_found"
	ErrorTypeInternal        = "internal"
)

// NotFoundError reports a request that names a team, member or repository that does not exist.
// Field is the request parameter that carried Key.
type NotFoundError struct {
	Resource string `json:"resource"`
	Key      string `json:"key"`
	Field    string `json:"field"`
}

// resourceFields maps a resource to the request parameter naming it
var resourceFields = map[string]string{
	"team":       "team_code",
	"member":     "kerberos_id",
	"repository": "repository_id",
	"result":     "result_id",
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// NotFound wraps a lookup failure into a NotFoundError when the row is missing.
// Other errors are returned as they are.
func NotFound(err error, resource, key string) error {
	if errors.Is(err, database.ErrNotFound) {
		return &NotFoundError{Resource: resource, Key: key, Field: resourceFields[resource]}
	}
	return err
}

// ParseDatabaseError converts database errors into user-friendly errors
func ParseDatabaseError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, database.ErrNotFound) {
		return &DatabaseError{
			Type:    ErrorTypeNotFound,
			Message: err.Error(),
		}
	}

	// Check for PostgreSQL error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return handleUniqueViolation(pgErr)
		case "23502": // not_null_violation
			return handleNotNullViolation(pgErr)
		}
	}

	// Return original error if not a known database error
	return err
}

// handleUniqueViolation processes unique constraint violations. A primary key violation
// can only come from a snapshot write carrying one bug twice.
func handleUniqueViolation(pgErr *pgconn.PgError) error {
	if strings.HasSuffix(pgErr.ConstraintName, "_pkey") {
		return &DatabaseError{
			Type:    ErrorTypeUniqueViolation,
			Message: "The bug snapshot contains the same bug twice",
			Field:   "bug_id",
		}
	}

	return &DatabaseError{
		Type:    ErrorTypeUniqueViolation,
		Message: "This value already exists in the system",
		Field:   parseFieldFromConstraint(pgErr.ConstraintName),
	}
}

// handleNotNullViolation processes not null constraint violations
func handleNotNullViolation(pgErr *pgconn.PgError) error {
	field := pgErr.ColumnName
	if field == "" {
		field = parseFieldFromConstraint(pgErr.ConstraintName)
	}

	return &DatabaseError{
		Type:    ErrorTypeInternal,
		Message: "Required field is missing: " + field,
		Field:   field,
	}
}

// parseFieldFromConstraint extracts the field name from a constraint name
// Example: "teams_team_code_key" -> "code"
func parseFieldFromConstraint(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	parts := strings.Split(constraintName, "_")
	if len(parts) >= 2 {
		// Return the second-to-last part (field name)
		return parts[len(parts)-2]
	}
	return constraintName
}

// IsNotFound checks if an error reports a missing record
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}

	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return dbErr.Type == ErrorTypeNotFound
	}

	return errors.Is(err, database.ErrNotFound)
}
