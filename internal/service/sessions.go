// internal/service/sessions.go
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/quizdrill/backend/internal/domain/deck"
	"github.com/quizdrill/backend/internal/domain/quiz"
	"github.com/quizdrill/backend/internal/domain/topic"
	"github.com/quizdrill/backend/internal/worker"
)

// Store is the persistence surface the session service needs.
type Store interface {
	GetDeck(ctx context.Context, id string) (*deck.Deck, error)
	GetTopic(ctx context.Context, id string) (*topic.Topic, error)
	IncrementMastery(ctx context.Context, subjectID, topicID string, delta int) error
}

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyDeck       = errors.New("deck has no questions")
)

// liveSession serializes access to one engine. The engine itself expects a
// single logical thread of control; concurrent HTTP requests for the same
// session are ordered here.
type liveSession struct {
	mu     sync.Mutex
	engine *quiz.Engine
	deckID string
}

// SessionService owns the in-memory live sessions and wires the engine's
// mastery sink to the store through the worker pool.
type SessionService struct {
	store  Store
	pool   *worker.Pool
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*liveSession
}

func NewSessionService(s Store, pool *worker.Pool, logger *slog.Logger) *SessionService {
	svc := &SessionService{
		store:    s,
		pool:     pool,
		logger:   logger,
		sessions: make(map[string]*liveSession),
	}
	go svc.drainPoolErrors()
	return svc
}

func (ss *SessionService) drainPoolErrors() {
	for e := range ss.pool.Errors() {
		ss.logger.Error("background job failed", "job", e.Job, "error", e.Err)
	}
}

// State is a snapshot of one session for rendering. The engine is never
// handed to callers directly; every mutation goes through the service.
type State struct {
	ID            string
	Phase         quiz.Phase
	Prompt        string
	Note          string
	BeforeMedia   *string
	AfterMedia    *string
	ExpectedCount int
	Submitted     []string
	Score         int
	Remaining     int
	QuestionCount int
	LastCorrect   bool
	Finished      bool
}

// Summary is the end-of-session report.
type Summary struct {
	ID            string
	Score         int
	QuestionCount int
	Finished      bool
	Wrong         []quiz.WrongAnswer
}

// Start loads a deck, resolves its mastery key (deck → topic → subject), and
// begins a session with the given config.
func (ss *SessionService) Start(ctx context.Context, deckID string, cfg quiz.Config) (State, error) {
	d, err := ss.store.GetDeck(ctx, deckID)
	if err != nil {
		return State{}, err
	}
	if len(d.Questions) == 0 {
		return State{}, ErrEmptyDeck
	}

	key := quiz.MasteryKey{}
	if d.TopicID != nil {
		key.TopicID = *d.TopicID
		t, err := ss.store.GetTopic(ctx, *d.TopicID)
		if err != nil {
			// A dangling topic reference still gets a session; mastery is
			// simply recorded without a subject.
			ss.logger.Warn("deck references unknown topic", "deck_id", d.ID, "topic_id", *d.TopicID)
		} else if t.SubjectID != nil {
			key.SubjectID = *t.SubjectID
		}
	}

	engine, err := quiz.New(d.Questions, cfg, key, ss, nil)
	if err != nil {
		return State{}, err
	}

	id := uuid.NewString()
	live := &liveSession{engine: engine, deckID: d.ID}

	ss.mu.Lock()
	ss.sessions[id] = live
	ss.mu.Unlock()

	return snapshot(id, engine), nil
}

// Get returns the current state of a session.
func (ss *SessionService) Get(id string) (State, error) {
	live, err := ss.lookup(id)
	if err != nil {
		return State{}, err
	}
	live.mu.Lock()
	defer live.mu.Unlock()
	return snapshot(id, live.engine), nil
}

// Submit records one answer for a session's current question.
func (ss *SessionService) Submit(id, text string) (quiz.SubmitStatus, State, error) {
	live, err := ss.lookup(id)
	if err != nil {
		return quiz.SubmitIgnored, State{}, err
	}
	live.mu.Lock()
	defer live.mu.Unlock()

	status := live.engine.Submit(text)
	return status, snapshot(id, live.engine), nil
}

// Evaluate forces evaluation of whatever submissions exist. The UI calls
// this when its per-question countdown expires.
func (ss *SessionService) Evaluate(id string) (State, error) {
	live, err := ss.lookup(id)
	if err != nil {
		return State{}, err
	}
	live.mu.Lock()
	defer live.mu.Unlock()

	live.engine.Evaluate()
	return snapshot(id, live.engine), nil
}

// Advance moves a session past the feedback phase.
func (ss *SessionService) Advance(id string) (State, error) {
	live, err := ss.lookup(id)
	if err != nil {
		return State{}, err
	}
	live.mu.Lock()
	defer live.mu.Unlock()

	live.engine.Advance()
	return snapshot(id, live.engine), nil
}

// Summary returns the wrong-answer log and final score. Finished sessions
// are evicted after their summary is read; the log is session-local and is
// not persisted anywhere.
func (ss *SessionService) Summary(id string) (Summary, error) {
	live, err := ss.lookup(id)
	if err != nil {
		return Summary{}, err
	}
	live.mu.Lock()
	defer live.mu.Unlock()

	sum := Summary{
		ID:            id,
		Score:         live.engine.Score(),
		QuestionCount: live.engine.QuestionCount(),
		Finished:      live.engine.Finished(),
		Wrong:         live.engine.WrongAnswers(),
	}

	if sum.Finished {
		ss.mu.Lock()
		delete(ss.sessions, id)
		ss.mu.Unlock()
	}

	return sum, nil
}

func (ss *SessionService) lookup(id string) (*liveSession, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	live, ok := ss.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return live, nil
}

// IncrementMastery implements quiz.MasterySink. The write is queued on the
// worker pool so a slow or failing store never blocks the engine's Finished
// transition. It uses context.Background because the session is already over
// and the write must not die with the originating HTTP request.
func (ss *SessionService) IncrementMastery(key quiz.MasteryKey, delta int) {
	ss.pool.Submit("mastery-increment", func() error {
		return ss.store.IncrementMastery(context.Background(), key.SubjectID, key.TopicID, delta)
	})
}

func snapshot(id string, e *quiz.Engine) State {
	st := State{
		ID:            id,
		Phase:         e.Phase(),
		Score:         e.Score(),
		Remaining:     e.Remaining(),
		QuestionCount: e.QuestionCount(),
		LastCorrect:   e.LastCorrect(),
		Finished:      e.Finished(),
	}

	if e.Finished() {
		return st
	}

	q := e.Current()
	st.Prompt = q.Prompt
	st.ExpectedCount = e.ExpectedCount()
	st.Submitted = e.Submissions()
	st.BeforeMedia = q.BeforeMedia

	// Feedback-only fields: the note and after-media stay hidden until the
	// attempt has been evaluated.
	if e.Phase() == quiz.PhaseShowingFeedback {
		st.Note = q.Note
		st.AfterMedia = q.AfterMedia
	}

	return st
}
