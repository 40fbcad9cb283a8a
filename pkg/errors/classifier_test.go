package errors

import (
	"context"
	"database/sql/driver"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type codedError struct {
	code string
}

func (e codedError) Error() string { return "backend rejected request" }
func (e codedError) Code() string  { return e.code }

type FetchError struct{}

func (FetchError) Error() string { return "request aborted" }

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"failed to fetch message", stderrors.New("Failed to fetch"), true},
		{"network message mixed case", stderrors.New("NetworkError when attempting to reach backend"), true},
		{"connection message", stderrors.New("connection reset by peer"), true},
		{"timeout message", stderrors.New("request Timeout"), true},
		{"constraint violation", stderrors.New("constraint violation"), false},
		{"plain logical", stderrors.New("column \"prise\" does not exist"), false},
		{"op error", &net.OpError{Op: "dial", Net: "tcp", Err: stderrors.New("refused")}, true},
		{"dns error", &net.DNSError{Err: "no such host", Name: "db"}, true},
		{"econnrefused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"bad conn", driver.ErrBadConn, true},
		{"unexpected eof", io.ErrUnexpectedEOF, true},
		{"deadline", context.DeadlineExceeded, true},
		{"type name", FetchError{}, true},
		{"pq class 08", &pq.Error{Code: "08006", Message: "server closed"}, true},
		{"pq admin shutdown", &pq.Error{Code: "57P01", Message: "terminating"}, true},
		{"pq unique violation", &pq.Error{Code: "23505", Message: "duplicate key value"}, false},
		{"pq invalid text", &pq.Error{Code: "22P02", Message: "invalid input syntax for type uuid"}, false},
		{"pq detail", &pq.Error{Code: "XX000", Message: "internal", Detail: "upstream network unreachable"}, true},
		{"pgconn class 08", &pgconn.PgError{Code: "08001", Message: "unable to establish"}, true},
		{"pgconn logical", &pgconn.PgError{Code: "42703", Message: "undefined column"}, false},
		{"network code", codedError{code: "NETWORK_ERROR"}, true},
		{"fetch code lower", codedError{code: "fetch_error"}, true},
		{"other code", codedError{code: "PGRST116"}, false},
		{"wrapped pq 08", pkgerrors.Wrap(&pq.Error{Code: "08003"}, "querying listings page"), true},
		{"wrapped logical", pkgerrors.Wrap(&pq.Error{Code: "42P01", Message: "relation does not exist"}, "querying listings page"), false},
		{"joined cause", stderrors.Join(stderrors.New("first"), stderrors.New("connection refused")), true},
		{"wrapped validation", fmt.Errorf("rejected: %w", NewValidationError("id", "x", "must be a uuid")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNetworkError(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ClassNone, Classify(nil))
	assert.Equal(t, ClassValidation, Classify(NewValidationError("id", "nope", "must be a uuid")))
	assert.Equal(t, ClassTransient, Classify(stderrors.New("Failed to fetch")))
	assert.Equal(t, ClassLogical, Classify(stderrors.New("constraint violation")))
}

func TestValidationError(t *testing.T) {
	err := NewValidationErrorf("page_size", "abc", "must be an integer, got %q", "abc")

	assert.Equal(t, `invalid page_size: must be an integer, got "abc"`, err.Error())
	assert.True(t, IsValidationError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsValidationError(ErrNotFound))

	httpErr := err.ToHTTPError()
	assert.Equal(t, "page_size", httpErr.Meta["field"])
	assert.Equal(t, "abc", httpErr.Meta["value"])
}
