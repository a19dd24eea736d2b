package client

import (
	"log/slog"
	"sync"
)

// Listener observes every dispatched action with the state before and after it.
type Listener func(prev, next State, a Action)

type Store struct {
	mu      sync.Mutex
	state   State
	reducer Reducer

	listenersMu sync.RWMutex
	listeners   map[int]Listener
	nextID      int
}

func NewStore(initial State, reducer Reducer) *Store {
	if reducer == nil {
		reducer = RootReducer
	}
	return &Store{
		state:     initial,
		reducer:   reducer,
		listeners: make(map[int]Listener),
	}
}

// Dispatch applies a to the state. Listeners run after the new state is in
// place, in the dispatching goroutine.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	prev := s.state
	next := s.reducer(prev, a)
	s.state = next
	s.mu.Unlock()

	s.listenersMu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.RUnlock()

	for _, l := range listeners {
		l(prev, next, a)
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Alerts() []Alert {
	return s.State().Alerts
}

func (s *Store) Auth() AuthState {
	return s.State().Auth
}

func (s *Store) Profile() ProfileState {
	return s.State().Profile
}

func (s *Store) Post() PostState {
	return s.State().Post
}

// Subscribe registers l and returns the function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			defer s.listenersMu.Unlock()
			delete(s.listeners, id)
		})
	}
}

// PersistToken writes the auth token to storage whenever it changes.
func PersistToken(storage TokenStorage, log *slog.Logger) Listener {
	return func(prev, next State, a Action) {
		if prev.Auth.Token == next.Auth.Token {
			return
		}

		var err error
		if next.Auth.Token == "" {
			err = storage.Clear()
		} else {
			err = storage.Save(next.Auth.Token)
		}
		if err != nil {
			log.Error("failed to persist token", slog.String("action", a.Type()), slog.String("error", err.Error()))
		}
	}
}

// BindToken keeps the API client's token in sync with the auth state.
func BindToken(api *API) Listener {
	return func(prev, next State, _ Action) {
		if prev.Auth.Token != next.Auth.Token {
			api.SetToken(next.Auth.Token)
		}
	}
}

// LogActions writes every action at debug level.
func LogActions(log *slog.Logger) Listener {
	return func(_, next State, a Action) {
		log.Debug("action dispatched",
			slog.String("type", a.Type()),
			slog.Bool("authenticated", next.Auth.IsAuthenticated),
			slog.Int("alerts", len(next.Alerts)),
		)
	}
}
