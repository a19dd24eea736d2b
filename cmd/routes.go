package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/healthz", app.healthcheckHandler)

	// Not require authentication for these routes
	router.HandlerFunc(http.MethodPost, "/api/users", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth", app.loginHandler)
	router.HandlerFunc(http.MethodGet, "/api/profile", app.listProfilesHandler)
	router.HandlerFunc(http.MethodGet, "/api/profile/user/:user_id", app.getProfileByUserHandler)
	router.HandlerFunc(http.MethodGet, "/api/profile/github/:username", app.githubReposHandler)

	// Require authentication for these routes
	router.HandlerFunc(http.MethodGet, "/api/auth", app.requireAuthenticatedUser(app.currentUserHandler))

	router.HandlerFunc(http.MethodGet, "/api/profile/me", app.requireAuthenticatedUser(app.currentProfileHandler))
	router.HandlerFunc(http.MethodPost, "/api/profile", app.requireAuthenticatedUser(app.upsertProfileHandler))
	router.HandlerFunc(http.MethodDelete, "/api/profile", app.requireAuthenticatedUser(app.deleteAccountHandler))
	router.HandlerFunc(http.MethodPut, "/api/profile/experience", app.requireAuthenticatedUser(app.addExperienceHandler))
	router.HandlerFunc(http.MethodDelete, "/api/profile/experience/:exp_id", app.requireAuthenticatedUser(app.deleteExperienceHandler))
	router.HandlerFunc(http.MethodPut, "/api/profile/education", app.requireAuthenticatedUser(app.addEducationHandler))
	router.HandlerFunc(http.MethodDelete, "/api/profile/education/:edu_id", app.requireAuthenticatedUser(app.deleteEducationHandler))

	router.HandlerFunc(http.MethodPost, "/api/posts", app.requireAuthenticatedUser(app.createPostHandler))
	router.HandlerFunc(http.MethodGet, "/api/posts", app.requireAuthenticatedUser(app.listPostsHandler))
	router.HandlerFunc(http.MethodGet, "/api/posts/:id", app.requireAuthenticatedUser(app.getPostHandler))
	router.HandlerFunc(http.MethodPut, "/api/posts/like/:id", app.requireAuthenticatedUser(app.likePostHandler))
	router.HandlerFunc(http.MethodPut, "/api/posts/unlike/:id", app.requireAuthenticatedUser(app.unlikePostHandler))
	router.HandlerFunc(http.MethodPost, "/api/posts/comment/:id", app.requireAuthenticatedUser(app.addCommentHandler))

	// httprouter cannot register the static "comment" segment next to the :id
	// wildcard, so DELETE /api/posts/comment/:post_id/:comment_id arrives with
	// id == "comment".
	router.HandlerFunc(http.MethodDelete, "/api/posts/:id", app.requireAuthenticatedUser(app.deletePostHandler))
	router.HandlerFunc(http.MethodDelete, "/api/posts/:id/:post_id/:comment_id", app.requireAuthenticatedUser(app.deleteCommentHandler))

	return app.recoverPanic(app.logRequests(app.rateLimit(router)))
}
