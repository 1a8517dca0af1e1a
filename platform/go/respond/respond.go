// Package respond owns the uniform JSON envelope of the API and the single
// place where downstream failures are mapped onto it. Every handler
// terminates through this package; no error leaves the process un-normalized.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/courseloop/classroom-media/platform/go/muxvideo"
	"github.com/courseloop/classroom-media/platform/go/tenantdb"
)

// OperationResult is the envelope every route answers with.
// Success implies Error is empty; failure implies Error is set and Data is nil.
type OperationResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// InvalidInputError marks a caller mistake (missing or malformed parameter).
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

// ConfigError marks server-side misconfiguration, such as absent vendor
// credentials in the environment.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// NotFoundError is produced when a mutation matched zero rows. Absence and
// lack of permission are deliberately indistinguishable in the message.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found or no permission", e.Entity)
}

// Normalize maps any failure onto a status code and envelope. The rules are
// ordered; the first matching category wins. Normalize is pure: the same
// error always yields the same result.
func Normalize(err error) (int, OperationResult) {
	var (
		invalidInput    *InvalidInputError
		configErr       *ConfigError
		recordNotFound  *tenantdb.RecordNotFoundError
		incompleteCreds *tenantdb.IncompleteCredentialsError
		queryErr        *tenantdb.QueryError
		notFound        *NotFoundError
		vendorErr       *muxvideo.APIError
	)

	switch {
	case errors.Is(err, tenantdb.ErrMissingTenantKey):
		return http.StatusBadRequest, failure(err.Error(), "")
	case errors.As(err, &invalidInput):
		return http.StatusBadRequest, failure(invalidInput.Message, "")
	case errors.As(err, &recordNotFound):
		return http.StatusInternalServerError, failure(recordNotFound.Error(), "")
	case errors.As(err, &incompleteCreds):
		return http.StatusInternalServerError, failure(incompleteCreds.Error(), "")
	case errors.Is(err, muxvideo.ErrNotConfigured):
		return http.StatusInternalServerError, failure(err.Error(), "")
	case errors.As(err, &configErr):
		return http.StatusInternalServerError, failure(configErr.Message, "")
	case errors.As(err, &queryErr):
		return http.StatusInternalServerError, failure(queryErr.Error(), queryErr.Details)
	case errors.As(err, &notFound):
		return http.StatusNotFound, failure(notFound.Error(), "")
	case errors.As(err, &vendorErr):
		return http.StatusInternalServerError, failure(ClassifyVendorError(vendorErr.Error()), "")
	case err != nil && err.Error() != "":
		return http.StatusInternalServerError, failure(err.Error(), "")
	default:
		return http.StatusInternalServerError, failure("Unknown error", "")
	}
}

func failure(message, details string) OperationResult {
	return OperationResult{Success: false, Error: message, Details: details}
}

// JSON writes the envelope with the given status.
func JSON(w http.ResponseWriter, status int, result OperationResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}

// Success writes a 200 envelope around data.
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, OperationResult{Success: true, Data: data})
}

// Err normalizes the error, logs it at a level matching the status, and
// writes the failure envelope.
func Err(w http.ResponseWriter, logger *zap.Logger, err error) {
	status, result := Normalize(err)

	if logger != nil {
		fields := []zap.Field{zap.Int("status", status), zap.Error(err)}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request failed", fields...)
		case status == http.StatusNotFound:
			logger.Info("resource not found", fields...)
		default:
			logger.Warn("request rejected", fields...)
		}
	}

	JSON(w, status, result)
}
