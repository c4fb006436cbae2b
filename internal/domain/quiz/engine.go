// Package quiz implements the session engine: an ordered queue of question
// indices consumed one at a time, with fuzzy answer evaluation and
// re-queueing of missed questions for extra practice.
package quiz

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/quizdrill/backend/internal/domain/deck"
	"github.com/quizdrill/backend/internal/match"
)

// Phase is the state of the session machine. A session moves
// Loading → AwaitingInput ⇄ ShowingFeedback → Finished.
type Phase int

const (
	PhaseLoading Phase = iota // zero value: engine not yet constructed
	PhaseAwaitingInput
	PhaseShowingFeedback
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingInput:
		return "awaiting_input"
	case PhaseShowingFeedback:
		return "showing_feedback"
	case PhaseFinished:
		return "finished"
	default:
		return "loading"
	}
}

// SubmitStatus reports what a Submit call did, so the UI shell can decide
// what to render (e.g. "please enter an answer" on an ignored submission).
type SubmitStatus int

const (
	SubmitIgnored   SubmitStatus = iota // empty or duplicate input: no state change
	SubmitAccepted                      // recorded, waiting for more answers
	SubmitEvaluated                     // recorded and the attempt was evaluated
)

// MasteryKey identifies the question set a finished session reports against.
// The IDs are opaque to the engine.
type MasteryKey struct {
	SubjectID string
	TopicID   string
}

// MasterySink is notified exactly once per completed session. Implementations
// own their failure handling; the engine fires and forgets.
type MasterySink interface {
	IncrementMastery(key MasteryKey, delta int)
}

// WrongAnswer is one entry of the session's wrong-answer log, kept for the
// end-of-session summary and discarded with the session.
type WrongAnswer struct {
	Prompt         string
	AcceptedAnswer string
	Submitted      string // the submissions of the failed attempt, joined
	Note           string
}

// ErrNoQuestions is returned when a session is started with zero questions.
var ErrNoQuestions = errors.New("quiz: cannot start a session with no questions")

// Engine drives a single practice session. It is not safe for concurrent use;
// callers must serialize operation calls (one user, one logical thread).
type Engine struct {
	questions []deck.Question
	cfg       Config
	key       MasteryKey
	sink      MasterySink
	rng       *rand.Rand

	queue       []int // remaining work: indices into questions, repeats allowed
	current     int
	phase       Phase
	submissions []string
	score       int
	credited    map[int]bool // question indices already counted toward the score
	wrong       []WrongAnswer
	lastCorrect bool
	sinkFired   bool
}

// New builds a session over the given questions. The queue starts as
// [0..n-1], shuffled when cfg.Shuffle is set. rng may be nil, in which case
// a time-seeded source is used; tests inject a seeded one for determinism.
// Questions are assumed well-formed (each with at least one answer segment);
// enforcing that is the deck's job.
func New(questions []deck.Question, cfg Config, key MasteryKey, sink MasterySink, rng *rand.Rand) (*Engine, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if cfg.PracticeCount < 1 {
		cfg.PracticeCount = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	e := &Engine{
		questions: questions,
		cfg:       cfg,
		key:       key,
		sink:      sink,
		rng:       rng,
		queue:     make([]int, len(questions)),
		credited:  make(map[int]bool),
	}
	for i := range e.queue {
		e.queue[i] = i
	}
	if cfg.Shuffle {
		e.shuffle()
	}
	e.current = e.queue[0]
	e.phase = PhaseAwaitingInput
	return e, nil
}

// shuffle permutes the entire remaining queue (Fisher–Yates).
func (e *Engine) shuffle() {
	e.rng.Shuffle(len(e.queue), func(i, j int) {
		e.queue[i], e.queue[j] = e.queue[j], e.queue[i]
	})
}

// Submit records one answer for the current question. Input is trimmed and
// lower-cased; empty or already-submitted text is silently ignored.
//
// Single-segment questions evaluate immediately. Multi-segment questions
// accumulate submissions until every slot is filled — except that an answer
// matching no expected segment triggers immediate evaluation. Correct partial
// answers accumulate; the first wrong answer short-circuits.
func (e *Engine) Submit(text string) SubmitStatus {
	if e.phase != PhaseAwaitingInput {
		return SubmitIgnored
	}

	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return SubmitIgnored
	}
	for _, s := range e.submissions {
		if s == normalized {
			return SubmitIgnored
		}
	}
	e.submissions = append(e.submissions, normalized)

	segments := e.questions[e.current].Segments()
	if len(segments) > 1 && len(e.submissions) < len(segments) && e.matchesAny(normalized, segments) {
		return SubmitAccepted
	}

	e.Evaluate()
	return SubmitEvaluated
}

func (e *Engine) matchesAny(submitted string, segments []string) bool {
	for _, seg := range segments {
		if match.MatchOne(submitted, seg, e.cfg.Threshold) {
			return true
		}
	}
	return false
}

// Evaluate scores the current submission set against the current question.
// The UI calls this directly when its countdown expires; an empty submission
// set simply fails to match. Calling it outside AwaitingInput is a no-op, so
// a submission cannot be scored twice.
//
// On a match the first occurrence of the current index leaves the queue and
// the score is credited (once per distinct question, repeats don't recount).
// On a miss the head occurrence is removed, PracticeCount copies are appended,
// and — when shuffle is enabled — the entire remaining queue is reshuffled so
// re-practice copies are not clustered predictably.
func (e *Engine) Evaluate() {
	if e.phase != PhaseAwaitingInput {
		return
	}

	q := e.questions[e.current]
	correct := match.Match(e.submissions, q.Segments(), e.cfg.Threshold)

	e.removeCurrentOnce()
	if correct {
		if !e.credited[e.current] {
			e.credited[e.current] = true
			e.score++
		}
	} else {
		e.wrong = append(e.wrong, WrongAnswer{
			Prompt:         q.Prompt,
			AcceptedAnswer: q.AcceptedAnswer,
			Submitted:      strings.Join(e.submissions, ", "),
			Note:           q.Note,
		})
		for i := 0; i < e.cfg.PracticeCount; i++ {
			e.queue = append(e.queue, e.current)
		}
		if e.cfg.Shuffle {
			e.shuffle()
		}
	}

	e.lastCorrect = correct
	e.phase = PhaseShowingFeedback
}

// removeCurrentOnce drops the first occurrence of the current index.
func (e *Engine) removeCurrentOnce() {
	for i, idx := range e.queue {
		if idx == e.current {
			e.queue = append(e.queue[:i], e.queue[i+1:]...)
			return
		}
	}
}

// Advance leaves the feedback phase. It clears the submission set and either
// moves to the next queue head or, when the queue is empty, finishes the
// session and notifies the mastery sink — exactly once, no matter how often
// Advance is called afterwards.
func (e *Engine) Advance() {
	if e.phase != PhaseShowingFeedback {
		return
	}

	e.submissions = nil
	if len(e.queue) == 0 {
		e.phase = PhaseFinished
		if !e.sinkFired {
			e.sinkFired = true
			if e.sink != nil {
				e.sink.IncrementMastery(e.key, 1)
			}
		}
		return
	}

	e.current = e.queue[0]
	e.phase = PhaseAwaitingInput
}

// ── Read-only state for the UI shell ────────────────────────────────────────

func (e *Engine) Phase() Phase { return e.phase }

func (e *Engine) Finished() bool { return e.phase == PhaseFinished }

// Current returns the question at the queue head. Only meaningful while the
// session is in progress.
func (e *Engine) Current() deck.Question { return e.questions[e.current] }

func (e *Engine) CurrentIndex() int { return e.current }

// ExpectedCount is the number of answers the current question requires,
// which tells the UI when to request additional input.
func (e *Engine) ExpectedCount() int { return len(e.questions[e.current].Segments()) }

func (e *Engine) Score() int { return e.score }

// Remaining is the number of queue entries left, counting repeats.
func (e *Engine) Remaining() int { return len(e.queue) }

// Queue returns a copy of the remaining question indices.
func (e *Engine) Queue() []int {
	out := make([]int, len(e.queue))
	copy(out, e.queue)
	return out
}

// Submissions returns a copy of the answers entered for the current attempt.
func (e *Engine) Submissions() []string {
	out := make([]string, len(e.submissions))
	copy(out, e.submissions)
	return out
}

// LastCorrect reports the outcome of the most recent evaluation.
func (e *Engine) LastCorrect() bool { return e.lastCorrect }

// WrongAnswers returns a copy of the session's wrong-answer log.
func (e *Engine) WrongAnswers() []WrongAnswer {
	out := make([]WrongAnswer, len(e.wrong))
	copy(out, e.wrong)
	return out
}

// QuestionCount is the number of distinct questions in the session.
func (e *Engine) QuestionCount() int { return len(e.questions) }
