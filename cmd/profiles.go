package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/siahsang/devconnector/internal/core"
	"github.com/siahsang/devconnector/internal/github"
	"github.com/siahsang/devconnector/internal/validator"
	"github.com/siahsang/devconnector/models"
)

const noProfileMessage = "There is no profile for this user"

func (app *application) currentProfileHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	profile, err := app.core.GetProfileByUser(r.Context(), identity.ID)
	if err != nil {
		app.profileErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, profile, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) upsertProfileHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Company        string `json:"company"`
		Website        string `json:"website"`
		Location       string `json:"location"`
		Bio            string `json:"bio"`
		Status         string `json:"status" validate:"required" msg:"Status is required"`
		GitHubUsername string `json:"githubusername"`
		Skills         string `json:"skills" validate:"required" msg:"Skills is required"`
		YouTube        string `json:"youtube"`
		Twitter        string `json:"twitter"`
		Facebook       string `json:"facebook"`
		LinkedIn       string `json:"linkedin"`
		Instagram      string `json:"instagram"`
	}

	if !app.readBody(w, r, &request) {
		return
	}

	identity, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	profile, err := app.core.UpsertProfile(r.Context(), identity.ID, core.ProfileInput{
		Company:        request.Company,
		Website:        request.Website,
		Location:       request.Location,
		Status:         request.Status,
		Skills:         request.Skills,
		Bio:            request.Bio,
		GitHubUsername: request.GitHubUsername,
		Social: models.Social{
			YouTube:   request.YouTube,
			Twitter:   request.Twitter,
			Facebook:  request.Facebook,
			LinkedIn:  request.LinkedIn,
			Instagram: request.Instagram,
		},
	})
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, profile, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) listProfilesHandler(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	f := readFilter(r, v)
	if !v.IsValid() {
		app.validationErrorResponse(w, r, v)
		return
	}

	profiles, err := app.core.ListProfiles(r.Context(), f)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, profiles, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getProfileByUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := readIDParam(r, "user_id")
	if err != nil {
		app.notFoundMessageResponse(w, r, core.ErrProfileNotFound.Error(), err)
		return
	}

	profile, err := app.core.GetProfileByUser(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrProfileNotFound):
			app.notFoundMessageResponse(w, r, core.ErrProfileNotFound.Error(), err)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	if err := app.writeJSON(w, http.StatusOK, profile, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.core.DeleteAccount(r.Context(), identity.ID); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"msg": "User deleted"}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

type datedEntry struct {
	From        string `json:"from" validate:"required,date" msg_required:"From date is required" msg_date:"from must be a valid date"`
	To          string `json:"to" validate:"omitempty,date" msg:"to must be a valid date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// period parses the already validated dates. A current entry has no end.
func (d datedEntry) period() (time.Time, *time.Time) {
	from, _ := validator.ParseDate(d.From)
	if d.Current || d.To == "" {
		return from, nil
	}
	to, _ := validator.ParseDate(d.To)
	return from, &to
}

func (app *application) addExperienceHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Title    string `json:"title" validate:"required" msg:"Title is required"`
		Company  string `json:"company" validate:"required" msg:"Company is required"`
		Location string `json:"location"`
		datedEntry
	}

	if !app.readBody(w, r, &request) {
		return
	}

	identity, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	from, to := request.period()
	profile, err := app.core.AddExperience(r.Context(), identity.ID, models.Experience{
		Title:       request.Title,
		Company:     request.Company,
		Location:    request.Location,
		From:        from,
		To:          to,
		Current:     request.Current,
		Description: request.Description,
	})
	if err != nil {
		app.profileErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, profile, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deleteExperienceHandler(w http.ResponseWriter, r *http.Request) {
	expID, err := readIDParam(r, "exp_id")
	if err != nil {
		app.notFoundMessageResponse(w, r, "Experience not found", err)
		return
	}

	identity, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	profile, err := app.core.RemoveExperience(r.Context(), identity.ID, expID)
	if err != nil {
		if errors.Is(err, models.ErrEntryNotFound) {
			app.notFoundMessageResponse(w, r, "Experience not found", err)
			return
		}
		app.profileErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, profile, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) addEducationHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		School       string `json:"school" validate:"required" msg:"School is required"`
		Degree       string `json:"degree" validate:"required" msg:"Degree is required"`
		FieldOfStudy string `json:"fieldofstudy" validate:"required" msg:"Field of Study is required"`
		datedEntry
	}

	if !app.readBody(w, r, &request) {
		return
	}

	identity, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	from, to := request.period()
	profile, err := app.core.AddEducation(r.Context(), identity.ID, models.Education{
		School:       request.School,
		Degree:       request.Degree,
		FieldOfStudy: request.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      request.Current,
		Description:  request.Description,
	})
	if err != nil {
		app.profileErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, profile, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deleteEducationHandler(w http.ResponseWriter, r *http.Request) {
	eduID, err := readIDParam(r, "edu_id")
	if err != nil {
		app.notFoundMessageResponse(w, r, "Education not found", err)
		return
	}

	identity, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	profile, err := app.core.RemoveEducation(r.Context(), identity.ID, eduID)
	if err != nil {
		if errors.Is(err, models.ErrEntryNotFound) {
			app.notFoundMessageResponse(w, r, "Education not found", err)
			return
		}
		app.profileErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, profile, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) githubReposHandler(w http.ResponseWriter, r *http.Request) {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")

	repos, err := app.core.GitHubRepos(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, github.ErrNotFound):
			app.notFoundMessageResponse(w, r, github.ErrNotFound.Error(), err)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	if err := app.writeJSON(w, http.StatusOK, repos, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// profileErrorResponse maps a missing profile of the caller to 400.
func (app *application) profileErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrProfileNotFound):
		app.badRequestResponse(w, r, &AppError{ErrorMessage: noProfileMessage, ErrorStack: err})
	default:
		app.internalErrorResponse(w, r, err)
	}
}
