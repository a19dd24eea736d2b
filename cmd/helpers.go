package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/filter"
	"github.com/siahsang/devconnector/internal/validator"
	"github.com/siahsang/devconnector/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	const maxBytes = 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {

		var (
			syntaxError           *json.SyntaxError
			unmarshalTypeError    *json.UnmarshalTypeError
			invalidUnmarshalError *json.InvalidUnmarshalError
			maxBytesError         *http.MaxBytesError
		)

		switch {
		case errors.As(err, &syntaxError):
			return xerrors.Newf("body contains badly-formed JSON at (character %d)", syntaxError.Offset)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return xerrors.Newf("body contains badly-formed JSON")

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return xerrors.Newf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return xerrors.Newf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return xerrors.Newf("body must not be empty")

		case errors.As(err, &maxBytesError):
			return xerrors.Newf("body must not be larger than %d bytes", maxBytes)

		case errors.As(err, &invalidUnmarshalError):
			panic(err)

		default:
			return xerrors.Newf("error decoding JSON: %w", err)
		}
	}

	if err := decoder.Decode(&struct{}{}); err != nil && !errors.Is(err, io.EOF) {
		return xerrors.Newf("body must contain only a single JSON value")
	}

	return nil
}

// readBody decodes and validates a request body. It writes the 400 response
// itself and reports false when the handler should stop.
func (app *application) readBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := app.readJSON(w, r, dst); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return false
	}

	v := validator.New()
	v.Struct(dst)
	if !v.IsValid() {
		app.validationErrorResponse(w, r, v)
		return false
	}
	return true
}

func readIDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	params := httprouter.ParamsFromContext(r.Context())
	return models.ParseID(params.ByName(name))
}

func readFilter(r *http.Request, v *validator.Validator) filter.Filter {
	query := r.URL.Query()
	f := filter.NewFilter(
		readInt(query.Get("limit"), filter.DefaultLimit, "limit", v),
		readInt(query.Get("offset"), 0, "offset", v),
	)
	f.Validate(v)
	return f
}

func readInt(value string, defaultValue int64, key string, v *validator.Validator) int64 {
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		v.AddError(key, "must be an integer value")
		return defaultValue
	}
	return n
}
