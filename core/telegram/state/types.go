package state

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// ErrNilSession is returned when Save is called without a session.
var ErrNilSession = errors.New("state: nil session")

// Session stores conversation state and scratch data for a user.
type Session struct {
	State     State             `json:"state"`
	Data      map[string]string `json:"data,omitempty"`
	FlowID    string            `json:"flow_id,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewSession starts a new flow in the given state with a fresh flow id.
func NewSession(st State) *Session {
	return &Session{
		State:  st,
		Data:   make(map[string]string),
		FlowID: uuid.NewString(),
	}
}

func idleSession() *Session {
	return &Session{State: StateIdle, Data: make(map[string]string)}
}

// Active reports whether the session holds a non-idle state.
func (s *Session) Active() bool {
	return s != nil && s.State != "" && s.State != StateIdle
}

// Value returns a scratch value.
func (s *Session) Value(key string) (string, bool) {
	if s == nil || s.Data == nil {
		return "", false
	}
	v, ok := s.Data[key]
	return v, ok
}

// SetValue stores a scratch value.
func (s *Session) SetValue(key, value string) {
	if s.Data == nil {
		s.Data = make(map[string]string)
	}
	s.Data[key] = value
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Data = make(map[string]string, len(s.Data))
	for k, v := range s.Data {
		cp.Data[k] = v
	}
	return &cp
}

// Manager stores conversation sessions keyed by Telegram user id.
// Get never returns nil: a user without a session gets an idle one.
type Manager interface {
	Get(ctx context.Context, userID int64) (*Session, error)
	Save(ctx context.Context, userID int64, s *Session) error
	Clear(ctx context.Context, userID int64) error
	InProgress(ctx context.Context, userID int64) (bool, error)
}
