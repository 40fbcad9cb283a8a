package errors

import (
	"context"
	"database/sql/driver"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Class is the recovery category of a failure.
type Class string

const (
	ClassNone       Class = "none"
	ClassValidation Class = "validation"
	ClassTransient  Class = "transient"
	ClassLogical    Class = "logical"
)

var networkVocabulary = []string{"failed to fetch", "networkerror", "fetch", "network", "connection", "timeout"}

// Backend codes reported for unreachable backends. SQLSTATE class 08 is matched separately.
var networkCodes = map[string]struct{}{
	"57P01":         {}, // admin_shutdown
	"57P02":         {}, // crash_shutdown
	"57P03":         {}, // cannot_connect_now
	"NETWORK_ERROR": {},
	"FETCH_ERROR":   {},
}

type coder interface {
	Code() string
}

// Classify sorts err into the recovery category the listing pipeline acts on.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassNone
	case IsValidationError(err):
		return ClassValidation
	case IsNetworkError(err):
		return ClassTransient
	default:
		return ClassLogical
	}
}

// IsNetworkError reports whether err is a transient connectivity failure.
// Checks run in order: runtime category, message text, type name, backend detail text,
// backend code, then each wrapped cause. Anything unmatched is not a network error.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	if isNetworkCategory(err) {
		return true
	}
	if containsVocabulary(err.Error()) {
		return true
	}
	if containsVocabulary(typeName(err)) {
		return true
	}
	if containsVocabulary(detail(err)) {
		return true
	}
	if isNetworkCode(err) {
		return true
	}

	for _, cause := range causes(err) {
		if containsVocabulary(cause.Error()) || containsVocabulary(typeName(cause)) {
			return true
		}
	}

	return false
}

func isNetworkCategory(err error) bool {
	var netErr net.Error
	var opErr *net.OpError
	var dnsErr *net.DNSError
	var urlErr *url.Error
	var connectErr *pgconn.ConnectError

	switch {
	case stderrors.As(err, &opErr), stderrors.As(err, &dnsErr), stderrors.As(err, &urlErr):
		return true
	case stderrors.As(err, &connectErr):
		return true
	case stderrors.As(err, &netErr):
		return true
	case stderrors.Is(err, syscall.ECONNREFUSED), stderrors.Is(err, syscall.ECONNRESET), stderrors.Is(err, syscall.EPIPE):
		return true
	case stderrors.Is(err, driver.ErrBadConn), stderrors.Is(err, io.ErrUnexpectedEOF):
		return true
	case stderrors.Is(err, context.DeadlineExceeded):
		return true
	case pgconn.Timeout(err):
		return true
	}
	return false
}

func containsVocabulary(text string) bool {
	if text == "" {
		return false
	}
	text = strings.ToLower(text)
	for _, word := range networkVocabulary {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

func typeName(err error) string {
	return fmt.Sprintf("%T", err)
}

func detail(err error) string {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return pqErr.Detail + " " + pqErr.Hint
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Detail + " " + pgErr.Hint
	}
	return ""
}

func isNetworkCode(err error) bool {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return isNetworkSQLState(string(pqErr.Code))
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return isNetworkSQLState(pgErr.Code)
	}
	var c coder
	if stderrors.As(err, &c) {
		_, ok := networkCodes[strings.ToUpper(c.Code())]
		return ok
	}
	return false
}

func isNetworkSQLState(code string) bool {
	if strings.HasPrefix(code, "08") {
		return true
	}
	_, ok := networkCodes[code]
	return ok
}

// causes flattens the wrapped errors below err, including joined errors.
func causes(err error) []error {
	var out []error
	queue := unwrap(err)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		out = append(out, next)
		queue = append(queue, unwrap(next)...)
	}
	return out
}

func unwrap(err error) []error {
	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		return e.Unwrap()
	case interface{ Unwrap() error }:
		return []error{e.Unwrap()}
	case interface{ Cause() error }:
		return []error{e.Cause()}
	}
	return nil
}
