package main

import (
	"errors"
	"net/http"

	"github.com/siahsang/devconnector/internal/core"
	"github.com/siahsang/devconnector/internal/validator"
)

func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email" validate:"required,email" msg:"Please include a valid email"`
		Password string `json:"password" validate:"required" msg:"Password is required"`
	}

	if !app.readBody(w, r, &request) {
		return
	}

	token, err := app.core.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidCredentials):
			v := validator.New()
			v.AddError("", core.ErrInvalidCredentials.Error())
			app.validationErrorResponse(w, r, v)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"token": token}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) currentUserHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	user, err := app.core.GetUser(r.Context(), identity.ID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUserNotFound):
			app.notFoundMessageResponse(w, r, core.ErrUserNotFound.Error(), err)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	if err := app.writeJSON(w, http.StatusOK, user, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.writeJSON(w, http.StatusOK, envelope{"status": "ok", "env": app.config.Env}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
