package application

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sustentai/ods-platform/internal/domain/project"
	"gorm.io/gorm"
)

// Error kinds. Handlers map each kind to one status code.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrIllegalState = errors.New("illegal state transition")
	ErrStorage      = errors.New("storage failure")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrProjectNotFound = &Error{kind: ErrNotFound, msg: "project not found"}
	ErrReviewNotFound  = &Error{kind: ErrNotFound, msg: "review not found"}
)

// Error carries a kind, a user facing message and the underlying cause.
type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Message is safe to show to API clients.
func (e *Error) Message() string { return e.msg }

func (e *Error) Kind() error { return e.kind }

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

func validationf(format string, args ...any) *Error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func forbidden(msg string) *Error {
	return &Error{kind: ErrForbidden, msg: msg}
}

func illegalState(err error) *Error {
	return &Error{kind: ErrIllegalState, msg: err.Error(), cause: err}
}

func fieldError(err error) *Error {
	var fe *project.FieldError
	if errors.As(err, &fe) {
		return &Error{kind: ErrValidation, msg: fe.Error()}
	}
	return &Error{kind: ErrValidation, msg: err.Error()}
}

// storageErr classifies an unexpected persistence error. duplicateMsg is used
// when a unique index rejected the write.
func storageErr(err error, duplicateMsg string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &Error{kind: ErrValidation, msg: duplicateMsg, cause: err}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &Error{kind: ErrValidation, msg: duplicateMsg, cause: err}
		case "22001":
			return &Error{kind: ErrStorage, msg: oversizedMessage(pgErr.Message), cause: err}
		}
	}
	return &Error{kind: ErrStorage, msg: "internal storage error", cause: err}
}

var varcharLimit = regexp.MustCompile(`\((\d+)\)`)

// oversizedMessage names the offending field when only one has that limit.
func oversizedMessage(pgMsg string) string {
	m := varcharLimit.FindStringSubmatch(pgMsg)
	if m == nil {
		return "a field exceeds its maximum length"
	}
	limit := "max=" + m[1]
	var candidates []string
	for _, f := range project.Fields() {
		for _, part := range strings.Split(f.Rule, ",") {
			if part == limit {
				candidates = append(candidates, f.Key)
			}
		}
	}
	if len(candidates) == 1 {
		return fmt.Sprintf("field %s exceeds the maximum length of %s characters", candidates[0], m[1])
	}
	return fmt.Sprintf("a field exceeds the maximum length of %s characters", m[1])
}

func notFoundOr(err error, nf *Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nf
	}
	return storageErr(err, "duplicate record")
}
