package client

import (
	"slices"

	"github.com/siahsang/devconnector/models"
)

type Alert struct {
	ID   string
	Msg  string
	Type string // success, danger
}

type AuthState struct {
	Token           string
	IsAuthenticated bool
	Loading         bool
	User            *models.User
}

type ProfileState struct {
	Profile  *models.ProfileView
	Profiles []*models.ProfileView
	Repos    []GitHubRepo
	Loading  bool
	Error    *RequestError
}

type PostState struct {
	Posts   []*models.Post
	Post    *models.Post
	Loading bool
	Error   *RequestError
}

type State struct {
	Alerts  []Alert
	Auth    AuthState
	Profile ProfileState
	Post    PostState
}

// InitialState is the state before anything was loaded. token is the value
// read from token storage at startup.
func InitialState(token string) State {
	return State{
		Alerts:  []Alert{},
		Auth:    AuthState{Token: token, Loading: true},
		Profile: ProfileState{Profiles: []*models.ProfileView{}, Repos: []GitHubRepo{}, Loading: true},
		Post:    PostState{Posts: []*models.Post{}, Loading: true},
	}
}

type Reducer func(State, Action) State

// RootReducer hands every action to each slice reducer.
func RootReducer(state State, a Action) State {
	return State{
		Alerts:  AlertReducer(state.Alerts, a),
		Auth:    AuthReducer(state.Auth, a),
		Profile: ProfileReducer(state.Profile, a),
		Post:    PostReducer(state.Post, a),
	}
}

func AlertReducer(state []Alert, a Action) []Alert {
	switch a := a.(type) {
	case SetAlert:
		next := make([]Alert, 0, len(state)+1)
		next = append(next, state...)
		return append(next, a.Alert)
	case RemoveAlert:
		next := make([]Alert, 0, len(state))
		for _, alert := range state {
			if alert.ID != a.ID {
				next = append(next, alert)
			}
		}
		return next
	default:
		return state
	}
}

func AuthReducer(state AuthState, a Action) AuthState {
	switch a := a.(type) {
	case UserLoaded:
		state.IsAuthenticated = true
		state.Loading = false
		state.User = a.User
		return state
	case RegisterSuccess:
		state.Token = a.Token
		state.IsAuthenticated = true
		state.Loading = false
		return state
	case LoginSuccess:
		state.Token = a.Token
		state.IsAuthenticated = true
		state.Loading = false
		return state
	case RegisterFail, LoginFail, AuthError, Logout, AccountDeleted:
		return AuthState{}
	default:
		return state
	}
}

func ProfileReducer(state ProfileState, a Action) ProfileState {
	switch a := a.(type) {
	case GetProfile:
		state.Profile = a.Profile
		state.Loading = false
		return state
	case UpdateProfile:
		state.Profile = a.Profile
		state.Loading = false
		return state
	case GetProfiles:
		state.Profiles = a.Profiles
		state.Loading = false
		return state
	case GetRepos:
		state.Repos = a.Repos
		state.Loading = false
		return state
	case ProfileError:
		err := a.Err
		state.Error = &err
		state.Profile = nil
		state.Loading = false
		return state
	case ClearProfile:
		state.Profile = nil
		state.Repos = []GitHubRepo{}
		state.Loading = false
		return state
	default:
		return state
	}
}

func PostReducer(state PostState, a Action) PostState {
	switch a := a.(type) {
	case GetPosts:
		state.Posts = a.Posts
		state.Loading = false
		return state
	case GetPost:
		state.Post = a.Post
		state.Loading = false
		return state
	case AddPost:
		posts := make([]*models.Post, 0, len(state.Posts)+1)
		state.Posts = append(append(posts, a.Post), state.Posts...)
		state.Loading = false
		return state
	case DeletePost:
		state.Posts = slices.DeleteFunc(slices.Clone(state.Posts), func(p *models.Post) bool {
			return p.ID == a.ID
		})
		state.Loading = false
		return state
	case UpdateLikes:
		posts := make([]*models.Post, len(state.Posts))
		for i, p := range state.Posts {
			if p.ID == a.PostID {
				updated := *p
				updated.Likes = a.Likes
				p = &updated
			}
			posts[i] = p
		}
		state.Posts = posts
		if state.Post != nil && state.Post.ID == a.PostID {
			updated := *state.Post
			updated.Likes = a.Likes
			state.Post = &updated
		}
		state.Loading = false
		return state
	case AddComment:
		if state.Post != nil {
			updated := *state.Post
			updated.Comments = a.Comments
			state.Post = &updated
		}
		state.Loading = false
		return state
	case RemoveComment:
		if state.Post != nil {
			updated := *state.Post
			updated.Comments = slices.DeleteFunc(slices.Clone(updated.Comments), func(c models.Comment) bool {
				return c.ID == a.CommentID
			})
			state.Post = &updated
		}
		state.Loading = false
		return state
	case PostError:
		err := a.Err
		state.Error = &err
		state.Loading = false
		return state
	default:
		return state
	}
}
