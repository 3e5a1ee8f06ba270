package draft

import (
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/triplog/triplog-backend/logger"
)

var (
	// ErrSubmitInFlight is returned when a submission is requested while the
	// draft's submitting flag is already set.
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	// ErrEmptyLocation is returned when a submission is requested with no
	// trip title.
	ErrEmptyLocation = errors.New("location is required")
)

// Manager owns one draft session per user. Sessions are created lazily on
// first touch and discarded on explicit cancel or after submission. All
// transitions on a session are serialized by its mutex, the server analog of
// the client's single UI thread.
type Manager struct {
	staging *Staging

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu    sync.Mutex
	state State
}

// NewManager creates a draft manager backed by the given staging store.
func NewManager(staging *Staging) *Manager {
	return &Manager{
		staging:  staging,
		sessions: make(map[string]*session),
	}
}

func (m *Manager) getSession(userID string, create bool) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok && create {
		sess = &session{state: NewState()}
		m.sessions[userID] = sess
	}
	return sess
}

// State returns the user's current draft state, creating the session if it
// does not exist yet.
func (m *Manager) State(userID string) State {
	sess := m.getSession(userID, true)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state
}

// Dispatch applies one action to the user's draft. Staged entries dropped by
// the transition (REMOVE_STAGED_IMAGE, RESET) are released before the call
// returns.
func (m *Manager) Dispatch(userID string, action Action) (State, error) {
	sess := m.getSession(userID, true)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	prev := sess.state
	next, err := Reduce(prev, action)
	if err != nil {
		return prev, err
	}
	sess.state = next

	m.releaseDropped(prev.StagedImages, next.StagedImages)
	return next, nil
}

// StageImage stages one uploaded file and appends it to the draft.
func (m *Manager) StageImage(userID, fileName string, r io.Reader) (State, error) {
	img, err := m.staging.Stage(userID, fileName, r)
	if err != nil {
		return m.State(userID), err
	}
	state, err := m.Dispatch(userID, Action{Type: StageImages, Images: []StagedImage{img}})
	if err != nil {
		// The entry never made it into the draft, so it is released here.
		m.staging.Release(img.Key)
		return state, err
	}
	return state, nil
}

// BeginSubmit validates the draft, sets the submitting flag, and returns a
// snapshot for the orchestrator. It fails without touching the flag when the
// location is empty, and with ErrSubmitInFlight when a submission is already
// running — the submitting flag is the mutual-exclusion guard against
// duplicate submissions.
func (m *Manager) BeginSubmit(userID string) (State, error) {
	sess := m.getSession(userID, true)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if strings.TrimSpace(sess.state.Location) == "" {
		return sess.state, ErrEmptyLocation
	}
	if sess.state.Submitting {
		return sess.state, ErrSubmitInFlight
	}
	sess.state.Submitting = true
	return sess.state, nil
}

// FinishSubmit clears the submitting flag. On success the draft is reset and
// every staged entry released. The session may have been discarded while the
// submission was in flight (the user closed the form); in that case the
// result is silently dropped.
func (m *Manager) FinishSubmit(userID string, success bool) {
	sess := m.getSession(userID, false)
	if sess == nil {
		logger.GetLogger().Debugw("Submission finished for discarded draft", "userId", userID)
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.state.Submitting = false
	if success {
		m.staging.ReleaseAll(sess.state.StagedImages)
		sess.state = NewState()
	}
}

// Discard releases every staged entry and drops the user's session. Used on
// explicit cancel and when the form is closed.
func (m *Manager) Discard(userID string) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	m.staging.ReleaseAll(sess.state.StagedImages)
}

// Staging exposes the staging store for preview serving and submission
// uploads.
func (m *Manager) Staging() *Staging {
	return m.staging
}

// releaseDropped releases entries present in prev but absent from next.
func (m *Manager) releaseDropped(prev, next []StagedImage) {
	if len(prev) == len(next) {
		return
	}
	kept := make(map[string]struct{}, len(next))
	for _, img := range next {
		kept[img.Key] = struct{}{}
	}
	for _, img := range prev {
		if _, ok := kept[img.Key]; !ok {
			m.staging.Release(img.Key)
		}
	}
}
