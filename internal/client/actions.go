package client

import (
	"github.com/siahsang/devconnector/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action is a state transition message. The set of actions is closed: only
// the types in this file implement it.
type Action interface {
	Type() string
	action()
}

type sealed struct{}

func (sealed) action() {}

// RequestError is the failure carried by the *Error actions.
type RequestError struct {
	Msg    string
	Status int
}

type (
	SetAlert struct {
		sealed
		Alert Alert
	}
	RemoveAlert struct {
		sealed
		ID string
	}

	UserLoaded struct {
		sealed
		User *models.User
	}
	RegisterSuccess struct {
		sealed
		Token string
	}
	RegisterFail struct{ sealed }
	LoginSuccess struct {
		sealed
		Token string
	}
	LoginFail      struct{ sealed }
	AuthError      struct{ sealed }
	Logout         struct{ sealed }
	AccountDeleted struct{ sealed }

	GetProfile struct {
		sealed
		Profile *models.ProfileView
	}
	GetProfiles struct {
		sealed
		Profiles []*models.ProfileView
	}
	UpdateProfile struct {
		sealed
		Profile *models.ProfileView
	}
	GetRepos struct {
		sealed
		Repos []GitHubRepo
	}
	ProfileError struct {
		sealed
		Err RequestError
	}
	ClearProfile struct{ sealed }

	GetPosts struct {
		sealed
		Posts []*models.Post
	}
	GetPost struct {
		sealed
		Post *models.Post
	}
	AddPost struct {
		sealed
		Post *models.Post
	}
	DeletePost struct {
		sealed
		ID primitive.ObjectID
	}
	UpdateLikes struct {
		sealed
		PostID primitive.ObjectID
		Likes  []models.Like
	}
	AddComment struct {
		sealed
		Comments []models.Comment
	}
	RemoveComment struct {
		sealed
		CommentID primitive.ObjectID
	}
	PostError struct {
		sealed
		Err RequestError
	}
)

func (SetAlert) Type() string        { return "SET_ALERT" }
func (RemoveAlert) Type() string     { return "REMOVE_ALERT" }
func (UserLoaded) Type() string      { return "USER_LOADED" }
func (RegisterSuccess) Type() string { return "REGISTER_SUCCESS" }
func (RegisterFail) Type() string    { return "REGISTER_FAIL" }
func (LoginSuccess) Type() string    { return "LOGIN_SUCCESS" }
func (LoginFail) Type() string       { return "LOGIN_FAIL" }
func (AuthError) Type() string       { return "AUTH_ERROR" }
func (Logout) Type() string          { return "LOGOUT" }
func (AccountDeleted) Type() string  { return "ACCOUNT_DELETED" }
func (GetProfile) Type() string      { return "GET_PROFILE" }
func (GetProfiles) Type() string     { return "GET_PROFILES" }
func (UpdateProfile) Type() string   { return "UPDATE_PROFILE" }
func (GetRepos) Type() string        { return "GET_REPOS" }
func (ProfileError) Type() string    { return "PROFILE_ERROR" }
func (ClearProfile) Type() string    { return "CLEAR_PROFILE" }
func (GetPosts) Type() string        { return "GET_POSTS" }
func (GetPost) Type() string         { return "GET_POST" }
func (AddPost) Type() string         { return "ADD_POST" }
func (DeletePost) Type() string      { return "DELETE_POST" }
func (UpdateLikes) Type() string     { return "UPDATE_LIKES" }
func (AddComment) Type() string      { return "ADD_COMMENT" }
func (RemoveComment) Type() string   { return "REMOVE_COMMENT" }
func (PostError) Type() string       { return "POST_ERROR" }
