package main

import (
	"errors"
	"net/http"

	"github.com/siahsang/devconnector/internal/core"
	"github.com/siahsang/devconnector/internal/validator"
	"github.com/siahsang/devconnector/models"
)

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name     string `json:"name" validate:"required" msg:"Name is required"`
		Email    string `json:"email" validate:"required,email" msg:"Please include a valid email"`
		Password string `json:"password" validate:"min=6,max=72" msg_min:"Please enter a password with 6 or more characters" msg_max:"Please enter a password with 72 or fewer characters"`
	}

	if !app.readBody(w, r, &request) {
		return
	}

	token, err := app.core.RegisterUser(r.Context(), core.RegisterInput{
		Name:     request.Name,
		Email:    request.Email,
		Password: request.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateEmail):
			v := validator.New()
			v.AddError("", core.ErrDuplicateEmail.Error())
			app.validationErrorResponse(w, r, v)
		case errors.Is(err, models.ErrPasswordTooLong):
			v := validator.New()
			v.AddError("password", models.ErrPasswordTooLong.Error())
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
