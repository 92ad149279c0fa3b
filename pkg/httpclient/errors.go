package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
)

// errorEnvelope mirrors the error half of the httputil response envelope.
type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads a non-2xx response and returns an *apperrors.AppError
// that matches the sentinel for its status, so a 409 ALREADY_EXISTS from the
// API satisfies errors.Is(err, apperrors.ErrAlreadyExists) on the caller side.
// The body is consumed and closed.
func ParseResponseError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("status %d (read body: %w)", resp.StatusCode, err)
	}

	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil && env.Error != nil {
		return apperrors.FromStatus(resp.StatusCode, env.Error.Code, env.Error.Message)
	}
	return apperrors.FromStatus(resp.StatusCode, "", http.StatusText(resp.StatusCode))
}

// AsServerError converts a *ServerError produced by the circuit breaker into
// an AppError carrying the upstream status, or returns err unchanged.
func AsServerError(err error) error {
	var se *ServerError
	if !errors.As(err, &se) {
		return err
	}
	var env errorEnvelope
	if json.Unmarshal(se.Body, &env) == nil && env.Error != nil {
		return apperrors.FromStatus(se.StatusCode, env.Error.Code, env.Error.Message)
	}
	return apperrors.FromStatus(se.StatusCode, "", http.StatusText(se.StatusCode))
}
