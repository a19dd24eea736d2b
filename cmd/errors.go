package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/validator"
)

type envelope map[string]any

type AppError struct {
	ErrorStack   error
	ErrorMessage string
	ErrorDetails []validator.FieldError
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, appError *AppError) {
	app.errorResponse(w, r, http.StatusBadRequest, appError)
}

func (app *application) validationErrorResponse(w http.ResponseWriter, r *http.Request, v *validator.Validator) {
	app.errorResponse(w, r, http.StatusBadRequest, &AppError{ErrorDetails: v.Errors})
}

func (app *application) unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string, err error) {
	app.errorResponse(w, r, http.StatusUnauthorized, &AppError{ErrorMessage: message, ErrorStack: err})
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.notFoundMessageResponse(w, r, "The requested resource could not be found", nil)
}

func (app *application) notFoundMessageResponse(w http.ResponseWriter, r *http.Request, message string, err error) {
	app.errorResponse(w, r, http.StatusNotFound, &AppError{ErrorMessage: message, ErrorStack: err})
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, &AppError{
		ErrorMessage: "The " + r.Method + " method is not supported for this resource",
	})
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusTooManyRequests, &AppError{ErrorMessage: "Rate limit exceeded"})
}

func (app *application) internalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusInternalServerError, &AppError{ErrorStack: err,
		ErrorMessage: "Server Error",
	})
}

// errorResponse writes {"errors":[...]} for validation failures and
// {"msg":"..."} for everything else.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, appError *AppError) {
	var body envelope
	if len(appError.ErrorDetails) > 0 {
		body = envelope{"errors": appError.ErrorDetails}
	} else {
		body = envelope{"msg": appError.ErrorMessage}
	}

	var attrs []slog.Attr
	attrs = append(attrs, slog.String("request_url", r.URL.String()))
	attrs = append(attrs, slog.String("request_method", r.Method))
	attrs = append(attrs, slog.Int("status", status))
	if requestID := requestIDFromContext(r); requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}
	if appError.ErrorStack != nil {
		attrs = append(attrs, slog.String("stack", xerrors.Sprint(appError.ErrorStack)))
	}
	for _, detail := range appError.ErrorDetails {
		attrs = append(attrs, slog.String(detail.Param, detail.Msg))
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	app.logger.LogAttrs(r.Context(), level, "Error in handling request", attrs...)

	if err := app.writeJSON(w, status, body, nil); err != nil {
		app.logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return xerrors.New(err)
	}

	// Append a newline to make it easier to view in terminal applications.
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(js); err != nil {
		app.logger.Error(err.Error())
		return err
	}

	return nil
}
