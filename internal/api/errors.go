package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/san-kum/ballistics/internal/physics"
)

var (
	// ErrMissingOperand indicates a collision request without both objects.
	ErrMissingOperand = errors.New("api: collision requires object1 and object2")

	ErrBadRequest = errors.New("api: malformed request")
	ErrBatchSize  = errors.New("api: batch size out of range")
)

// Error is the client-visible failure of a request.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

type errorBody struct {
	Error *Error `json:"error"`
}

var clientErrors = []struct {
	err  error
	code string
}{
	{physics.ErrInvalidVelocity, "invalid_velocity"},
	{physics.ErrInvalidAngle, "invalid_angle"},
	{physics.ErrInvalidHeight, "invalid_height"},
	{physics.ErrInvalidWind, "invalid_wind"},
	{physics.ErrInvalidEnvironment, "invalid_environment"},
	{physics.ErrInvalidMass, "invalid_mass"},
	{physics.ErrInvalidRestitution, "invalid_restitution"},
	{ErrMissingOperand, "missing_operand"},
	{ErrBatchSize, "invalid_batch"},
	{ErrBadRequest, "bad_request"},
}

// toError classifies err. Anything not recognised as a client mistake is
// reported as a generic internal error so internals do not leak.
func toError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &Error{
			Status:  http.StatusRequestEntityTooLarge,
			Code:    "body_too_large",
			Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		}
	}

	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			return &Error{Status: http.StatusBadRequest, Code: ce.code, Message: err.Error()}
		}
	}

	return &Error{Status: http.StatusInternalServerError, Code: "internal_error", Message: "internal error"}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(append(data, '\n'))
	return err
}
