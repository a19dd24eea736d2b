package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/siahsang/devconnector/internal/core"
	"github.com/siahsang/devconnector/internal/validator"
	"github.com/siahsang/devconnector/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type textRequest struct {
	Text string `json:"text" validate:"required" msg:"Text is required"`
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var request textRequest
	if !app.readBody(w, r, &request) {
		return
	}

	identity, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	post, err := app.core.CreatePost(r.Context(), identity.ID, request.Text)
	if err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, post, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	f := readFilter(r, v)
	if !v.IsValid() {
		app.validationErrorResponse(w, r, v)
		return
	}

	posts, err := app.core.ListPosts(r.Context(), f)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, posts, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getPostHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := readIDParam(r, "id")
	if err != nil {
		app.notFoundMessageResponse(w, r, core.ErrPostNotFound.Error(), err)
		return
	}

	post, err := app.core.GetPost(r.Context(), postID)
	if err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, post, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := readIDParam(r, "id")
	if err != nil {
		app.notFoundMessageResponse(w, r, core.ErrPostNotFound.Error(), err)
		return
	}

	identity, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.core.DeletePost(r.Context(), identity.ID, postID); err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"msg": "Post removed"}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) likePostHandler(w http.ResponseWriter, r *http.Request) {
	app.toggleLike(w, r, app.core.LikePost)
}

func (app *application) unlikePostHandler(w http.ResponseWriter, r *http.Request) {
	app.toggleLike(w, r, app.core.UnlikePost)
}

func (app *application) toggleLike(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, postID primitive.ObjectID) ([]models.Like, error)) {
	postID, err := readIDParam(r, "id")
	if err != nil {
		app.notFoundMessageResponse(w, r, core.ErrPostNotFound.Error(), err)
		return
	}

	identity, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	likes, err := op(r.Context(), identity.ID, postID)
	if err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, likes, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := readIDParam(r, "id")
	if err != nil {
		app.notFoundMessageResponse(w, r, core.ErrPostNotFound.Error(), err)
		return
	}

	var request textRequest
	if !app.readBody(w, r, &request) {
		return
	}

	identity, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	comments, err := app.core.AddComment(r.Context(), identity.ID, postID, request.Text)
	if err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, comments, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	if httprouter.ParamsFromContext(r.Context()).ByName("id") != "comment" {
		app.notFoundResponse(w, r)
		return
	}

	postID, err := readIDParam(r, "post_id")
	if err != nil {
		app.notFoundMessageResponse(w, r, core.ErrPostNotFound.Error(), err)
		return
	}
	commentID, err := readIDParam(r, "comment_id")
	if err != nil {
		app.notFoundMessageResponse(w, r, models.ErrCommentNotFound.Error(), err)
		return
	}

	identity, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	comments, err := app.core.RemoveComment(r.Context(), identity.ID, postID, commentID)
	if err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, comments, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) postErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrPostNotFound):
		app.notFoundMessageResponse(w, r, core.ErrPostNotFound.Error(), err)
	case errors.Is(err, models.ErrCommentNotFound):
		app.notFoundMessageResponse(w, r, models.ErrCommentNotFound.Error(), err)
	case errors.Is(err, models.ErrNotAuthorized):
		app.unauthorizedResponse(w, r, models.ErrNotAuthorized.Error(), err)
	case errors.Is(err, models.ErrAlreadyLiked):
		app.badRequestResponse(w, r, &AppError{ErrorMessage: models.ErrAlreadyLiked.Error(), ErrorStack: err})
	case errors.Is(err, models.ErrNotLiked):
		app.badRequestResponse(w, r, &AppError{ErrorMessage: models.ErrNotLiked.Error(), ErrorStack: err})
	case errors.Is(err, core.ErrUserNotFound):
		app.notFoundMessageResponse(w, r, core.ErrUserNotFound.Error(), err)
	default:
		app.internalErrorResponse(w, r, err)
	}
}
