// Package respond writes the JSON envelopes shared by handlers and middleware
package respond

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/savorly/savorly/pkg/errors"
	"go.uber.org/zap"
)

// Envelope is the success response body. Data is always present, so an absent
// recipe is sent as {"success":true,"data":null}.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// JSON writes data wrapped in the success envelope
func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Envelope{Success: true, Data: data})
}

// Error writes err as an error envelope with the AppError's status code.
// Errors that are not AppErrors are logged and reported as INTERNAL_ERROR.
func Error(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewInternalError("An unexpected error occurred").WithCause(err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("code", string(appErr.Code)),
			zap.Error(err),
		)
	}

	write(w, status, errors.ToErrorResponse(appErr, chimiddleware.GetReqID(r.Context())))
}

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
