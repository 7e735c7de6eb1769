// Package store provides in-memory storage for interpreter sessions.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lemonberrylabs/gm8-runtime/pkg/gml"
	"github.com/lemonberrylabs/gm8-runtime/pkg/runtime"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// MaxRunHistory is the number of runs kept per session.
const MaxRunHistory = 100

// RunState represents the outcome of a run.
type RunState string

const (
	RunSucceeded RunState = "SUCCEEDED"
	RunFailed    RunState = "FAILED"
)

// Variable is a session variable rendered for display.
type Variable struct {
	Name  string `json:"name,omitempty"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// NewVariable renders v under name.
func NewVariable(name string, v gml.Value) Variable {
	return Variable{Name: name, Type: v.TypeName(), Value: v.String()}
}

// Run records one Exec call on a session.
type Run struct {
	ID        int       `json:"id"`
	Source    string    `json:"source"`
	State     RunState  `json:"state"`
	Result    *Variable `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Session is an interpreter whose variables persist between runs.
// Runs on one session execute one at a time.
type Session struct {
	ID         string
	CreateTime time.Time

	mu         sync.Mutex
	interp     *runtime.Interpreter
	updateTime time.Time
	runCounter int
	runs       []Run
}

// Info is a point-in-time view of a session.
type Info struct {
	ID         string     `json:"id"`
	CreateTime time.Time  `json:"createTime"`
	UpdateTime time.Time  `json:"updateTime"`
	RunCount   int        `json:"runCount"`
	Variables  []Variable `json:"variables"`
	Runs       []Run      `json:"runs,omitempty"`
}

// Exec runs source on the session's interpreter and records the run. The
// run is returned even when it failed; err is the script error.
func (s *Session) Exec(ctx context.Context, source string) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runCounter++
	run := Run{ID: s.runCounter, Source: source, StartTime: time.Now()}

	result, err := s.interp.Exec(ctx, source)
	run.EndTime = time.Now()
	if err != nil {
		run.State = RunFailed
		run.Error = err.Error()
	} else {
		run.State = RunSucceeded
		v := NewVariable("", result)
		run.Result = &v
	}

	s.runs = append(s.runs, run)
	if len(s.runs) > MaxRunHistory {
		s.runs = s.runs[len(s.runs)-MaxRunHistory:]
	}
	s.updateTime = run.EndTime
	return run, err
}

// Info returns the session state. Runs are included when withRuns is set.
func (s *Session) Info(withRuns bool) Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := Info{
		ID:         s.ID,
		CreateTime: s.CreateTime,
		UpdateTime: s.updateTime,
		RunCount:   s.runCounter,
		Variables:  []Variable{},
	}
	snap := s.interp.Scope().Snapshot()
	for _, name := range s.interp.Scope().Names() {
		if v, ok := snap[name]; ok {
			info.Variables = append(info.Variables, NewVariable(name, v))
		}
	}
	if withRuns {
		info.Runs = append([]Run(nil), s.runs...)
	}
	return info
}

// Store is a thread-safe in-memory storage for sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     []runtime.Option
}

// New creates a new empty store. opts configure every session's interpreter.
func New(opts ...runtime.Option) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// CreateSession creates a session with an empty scope.
func (s *Store) CreateSession() *Session {
	now := time.Now()
	sess := &Session{
		ID:         uuid.NewString(),
		CreateTime: now,
		updateTime: now,
		interp:     runtime.NewInterpreter(s.opts...),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	zap.S().Debugw("session created", "session", sess.ID)
	return sess
}

// GetSession retrieves a session by id.
func (s *Store) GetSession(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrNotFound, id)
	}
	return sess, nil
}

// ListSessions returns all sessions, oldest first.
func (s *Store) ListSessions() []*Session {
	s.mu.RLock()
	result := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		result = append(result, sess)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreateTime.Equal(result[j].CreateTime) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreateTime.Before(result[j].CreateTime)
	})
	return result
}

// DeleteSession removes a session.
func (s *Store) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: '%s'", ErrNotFound, id)
	}
	delete(s.sessions, id)
	zap.S().Debugw("session deleted", "session", id)
	return nil
}
