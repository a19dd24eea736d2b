package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/siahsang/devconnector/models"
)

const DefaultAlertTimeout = 5 * time.Second

const (
	AlertSuccess = "success"
	AlertDanger  = "danger"
)

// AlertHandle controls the scheduled removal of an alert.
type AlertHandle struct {
	ID    string
	timer *time.Timer
	store *Store
	once  sync.Once
}

// Cancel stops the scheduled removal and leaves the alert in place. It
// reports whether the removal was still pending.
func (h *AlertHandle) Cancel() bool {
	return h.timer.Stop()
}

// Dismiss removes the alert now instead of waiting for the timeout.
func (h *AlertHandle) Dismiss() {
	h.timer.Stop()
	h.remove()
}

func (h *AlertHandle) remove() {
	h.once.Do(func() {
		h.store.Dispatch(RemoveAlert{ID: h.ID})
	})
}

type Dispatcher struct {
	api          *API
	store        *Store
	log          *slog.Logger
	alertTimeout time.Duration
}

func NewDispatcher(api *API, store *Store, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		api:          api,
		store:        store,
		log:          log,
		alertTimeout: DefaultAlertTimeout,
	}
}

func (d *Dispatcher) Store() *Store {
	return d.store
}

// SetAlert shows msg and removes it after timeout, DefaultAlertTimeout when
// timeout is zero.
func (d *Dispatcher) SetAlert(msg, alertType string, timeout time.Duration) *AlertHandle {
	if timeout <= 0 {
		timeout = d.alertTimeout
	}

	handle := &AlertHandle{ID: uuid.NewString(), store: d.store}
	d.store.Dispatch(SetAlert{Alert: Alert{ID: handle.ID, Msg: msg, Type: alertType}})
	handle.timer = time.AfterFunc(timeout, handle.remove)
	return handle
}

func (d *Dispatcher) LoadUser(ctx context.Context) error {
	if token := d.store.Auth().Token; token != "" {
		d.api.SetToken(token)
	}

	user, err := d.api.CurrentUser(ctx)
	if err != nil {
		d.store.Dispatch(AuthError{})
		return err
	}

	d.store.Dispatch(UserLoaded{User: user})
	return nil
}

func (d *Dispatcher) Register(ctx context.Context, form RegisterForm) error {
	token, err := d.api.Register(ctx, form)
	if err != nil {
		d.alertValidationErrors(err)
		d.store.Dispatch(RegisterFail{})
		return err
	}

	d.store.Dispatch(RegisterSuccess{Token: token})
	return d.LoadUser(ctx)
}

func (d *Dispatcher) Login(ctx context.Context, email, password string) error {
	token, err := d.api.Login(ctx, email, password)
	if err != nil {
		d.alertValidationErrors(err)
		d.store.Dispatch(LoginFail{})
		return err
	}

	d.store.Dispatch(LoginSuccess{Token: token})
	return d.LoadUser(ctx)
}

func (d *Dispatcher) Logout() {
	d.store.Dispatch(ClearProfile{})
	d.store.Dispatch(Logout{})
}

func (d *Dispatcher) GetCurrentProfile(ctx context.Context) error {
	profile, err := d.api.CurrentProfile(ctx)
	if err != nil {
		d.store.Dispatch(ProfileError{Err: requestError(err)})
		return err
	}
	d.store.Dispatch(GetProfile{Profile: profile})
	return nil
}

func (d *Dispatcher) GetProfiles(ctx context.Context) error {
	d.store.Dispatch(ClearProfile{})

	profiles, err := d.api.Profiles(ctx)
	if err != nil {
		d.store.Dispatch(ProfileError{Err: requestError(err)})
		return err
	}
	d.store.Dispatch(GetProfiles{Profiles: profiles})
	return nil
}

func (d *Dispatcher) GetProfileByID(ctx context.Context, userID string) error {
	profile, err := d.api.ProfileByUser(ctx, userID)
	if err != nil {
		d.store.Dispatch(ProfileError{Err: requestError(err)})
		return err
	}
	d.store.Dispatch(GetProfile{Profile: profile})
	return nil
}

func (d *Dispatcher) GetGitHubRepos(ctx context.Context, username string) error {
	repos, err := d.api.GitHubRepos(ctx, username)
	if err != nil {
		d.store.Dispatch(ProfileError{Err: requestError(err)})
		return err
	}
	d.store.Dispatch(GetRepos{Repos: repos})
	return nil
}

// SaveProfile creates the profile, or updates it when edit is true.
func (d *Dispatcher) SaveProfile(ctx context.Context, form ProfileForm, edit bool) error {
	profile, err := d.api.SaveProfile(ctx, form)
	if err != nil {
		return d.profileFailure(err)
	}

	d.store.Dispatch(GetProfile{Profile: profile})
	if edit {
		d.SetAlert("Profile Updated", AlertSuccess, 0)
	} else {
		d.SetAlert("Profile Created", AlertSuccess, 0)
	}
	return nil
}

func (d *Dispatcher) AddExperience(ctx context.Context, form ExperienceForm) error {
	profile, err := d.api.AddExperience(ctx, form)
	return d.applyProfileUpdate(profile, err, "Experience Added")
}

func (d *Dispatcher) DeleteExperience(ctx context.Context, id string) error {
	profile, err := d.api.DeleteExperience(ctx, id)
	return d.applyProfileUpdate(profile, err, "Experience Removed")
}

func (d *Dispatcher) AddEducation(ctx context.Context, form EducationForm) error {
	profile, err := d.api.AddEducation(ctx, form)
	return d.applyProfileUpdate(profile, err, "Education Added")
}

func (d *Dispatcher) DeleteEducation(ctx context.Context, id string) error {
	profile, err := d.api.DeleteEducation(ctx, id)
	return d.applyProfileUpdate(profile, err, "Education Removed")
}

func (d *Dispatcher) DeleteAccount(ctx context.Context) error {
	if err := d.api.DeleteAccount(ctx); err != nil {
		d.store.Dispatch(ProfileError{Err: requestError(err)})
		return err
	}

	d.store.Dispatch(ClearProfile{})
	d.store.Dispatch(AccountDeleted{})
	d.SetAlert("Your account has been permanently deleted", "", 0)
	return nil
}

func (d *Dispatcher) GetPosts(ctx context.Context) error {
	posts, err := d.api.Posts(ctx)
	if err != nil {
		d.store.Dispatch(PostError{Err: requestError(err)})
		return err
	}
	d.store.Dispatch(GetPosts{Posts: posts})
	return nil
}

func (d *Dispatcher) GetPost(ctx context.Context, id string) error {
	post, err := d.api.Post(ctx, id)
	if err != nil {
		d.store.Dispatch(PostError{Err: requestError(err)})
		return err
	}
	d.store.Dispatch(GetPost{Post: post})
	return nil
}

func (d *Dispatcher) AddPost(ctx context.Context, text string) error {
	post, err := d.api.AddPost(ctx, text)
	if err != nil {
		return d.postFailure(err)
	}
	d.store.Dispatch(AddPost{Post: post})
	d.SetAlert("Post Created", AlertSuccess, 0)
	return nil
}

func (d *Dispatcher) DeletePost(ctx context.Context, id string) error {
	postID, err := models.ParseID(id)
	if err != nil {
		return d.postFailure(err)
	}
	if err := d.api.DeletePost(ctx, id); err != nil {
		return d.postFailure(err)
	}
	d.store.Dispatch(DeletePost{ID: postID})
	d.SetAlert("Post Removed", AlertSuccess, 0)
	return nil
}

func (d *Dispatcher) AddLike(ctx context.Context, id string) error {
	return d.updateLikes(ctx, id, d.api.Like)
}

func (d *Dispatcher) RemoveLike(ctx context.Context, id string) error {
	return d.updateLikes(ctx, id, d.api.Unlike)
}

func (d *Dispatcher) AddComment(ctx context.Context, postID, text string) error {
	comments, err := d.api.AddComment(ctx, postID, text)
	if err != nil {
		return d.postFailure(err)
	}
	d.store.Dispatch(AddComment{Comments: comments})
	d.SetAlert("Comment Added", AlertSuccess, 0)
	return nil
}

func (d *Dispatcher) DeleteComment(ctx context.Context, postID, commentID string) error {
	id, err := models.ParseID(commentID)
	if err != nil {
		return d.postFailure(err)
	}
	if _, err := d.api.DeleteComment(ctx, postID, commentID); err != nil {
		return d.postFailure(err)
	}
	d.store.Dispatch(RemoveComment{CommentID: id})
	d.SetAlert("Comment Removed", AlertSuccess, 0)
	return nil
}

func (d *Dispatcher) updateLikes(ctx context.Context, id string, op func(context.Context, string) ([]models.Like, error)) error {
	postID, err := models.ParseID(id)
	if err != nil {
		return d.postFailure(err)
	}
	likes, err := op(ctx, id)
	if err != nil {
		return d.postFailure(err)
	}
	d.store.Dispatch(UpdateLikes{PostID: postID, Likes: likes})
	return nil
}

func (d *Dispatcher) applyProfileUpdate(profile *models.ProfileView, err error, successMsg string) error {
	if err != nil {
		return d.profileFailure(err)
	}
	d.store.Dispatch(UpdateProfile{Profile: profile})
	d.SetAlert(successMsg, AlertSuccess, 0)
	return nil
}

func (d *Dispatcher) profileFailure(err error) error {
	d.alertValidationErrors(err)
	d.store.Dispatch(ProfileError{Err: requestError(err)})
	return err
}

func (d *Dispatcher) postFailure(err error) error {
	d.alertValidationErrors(err)
	d.store.Dispatch(PostError{Err: requestError(err)})
	return err
}

// alertValidationErrors raises one danger alert per server validation error.
func (d *Dispatcher) alertValidationErrors(err error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		d.log.Error("request failed", slog.String("error", err.Error()))
		return
	}
	if len(apiErr.Errors) == 0 {
		return
	}
	for _, msg := range apiErr.Messages() {
		d.SetAlert(msg, AlertDanger, 0)
	}
}

func requestError(err error) RequestError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Msg
		if msg == "" {
			msg = http.StatusText(apiErr.Status)
		}
		return RequestError{Msg: msg, Status: apiErr.Status}
	}
	return RequestError{Msg: err.Error()}
}
