package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/quizdrill/backend/internal/domain/quiz"
	"github.com/quizdrill/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSessionRequest struct {
	DeckID        string   `json:"deck_id" example:"d1e2c3k4i5d6x7y8"`
	Threshold     *float64 `json:"threshold,omitempty" example:"0.2"`
	Shuffle       *bool    `json:"shuffle,omitempty" example:"true"`
	PracticeCount *int     `json:"practice_count,omitempty" example:"2"`
}

func (r *CreateSessionRequest) Validate() error {
	if r.DeckID == "" {
		return errors.New("deck_id is required")
	}
	if r.Threshold != nil && (*r.Threshold < 0 || *r.Threshold > 1) {
		return errors.New("threshold must be between 0 and 1")
	}
	if r.PracticeCount != nil && *r.PracticeCount < 1 {
		return errors.New("practice_count must be at least 1")
	}
	return nil
}

type SessionStateResponse struct {
	ID            string   `json:"id" example:"8b7f3c1e-..."`
	Phase         string   `json:"phase" example:"awaiting_input"`
	Prompt        string   `json:"prompt,omitempty" example:"Capital of France?"`
	Note          string   `json:"note,omitempty"`
	BeforeMedia   *string  `json:"before_media,omitempty"`
	AfterMedia    *string  `json:"after_media,omitempty"`
	ExpectedCount int      `json:"expected_count,omitempty" example:"1"`
	Submitted     []string `json:"submitted,omitempty"`
	Score         int      `json:"score" example:"1"`
	Remaining     int      `json:"remaining" example:"4"`
	QuestionCount int      `json:"question_count" example:"3"`
	LastCorrect   bool     `json:"last_correct"`
	Finished      bool     `json:"finished"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer" example:"paris"`
}

type SubmitAnswerResponse struct {
	Status string               `json:"status" example:"evaluated"` // accepted, ignored, or evaluated
	State  SessionStateResponse `json:"state"`
}

type WrongAnswerResponse struct {
	Prompt         string `json:"prompt" example:"Capital of Japan?"`
	AcceptedAnswer string `json:"accepted_answer" example:"Tokyo"`
	Submitted      string `json:"submitted" example:"kyoto"`
	Note           string `json:"note,omitempty"`
	Explanation    string `json:"explanation,omitempty"`
}

type SessionSummaryResponse struct {
	SessionID     string                `json:"session_id"`
	Score         int                   `json:"score" example:"2"`
	QuestionCount int                   `json:"question_count" example:"3"`
	Finished      bool                  `json:"finished"`
	WrongAnswers  []WrongAnswerResponse `json:"wrong_answers"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createSession starts a practice session over a deck.
// @Summary      Start a session
// @Description  Start a practice session. Omitted tuning fields fall back to the server defaults.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        body  body      CreateSessionRequest  true  "Session to start"
// @Success      201   {object}  SessionStateResponse
// @Failure      400   {object}  map[string]string  "deck has no questions"
// @Failure      404   {object}  map[string]string
// @Router       /sessions [post]
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cfg := h.defaultCfg
	if req.Threshold != nil {
		cfg.Threshold = *req.Threshold
	}
	if req.Shuffle != nil {
		cfg.Shuffle = *req.Shuffle
	}
	if req.PracticeCount != nil {
		cfg.PracticeCount = *req.PracticeCount
	}

	state, err := h.sessions.Start(r.Context(), req.DeckID, cfg)
	if errors.Is(err, service.ErrEmptyDeck) {
		respondError(w, http.StatusBadRequest, "deck has no questions")
		return
	}
	if h.handleStoreError(w, err, "deck") {
		return
	}

	respondJSON(w, http.StatusCreated, stateResponse(state))
}

// getSession returns the current state of a session.
// @Summary      Get session state
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionStateResponse
// @Failure      404        {object}  map[string]string
// @Router       /sessions/{sessionID} [get]
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Get(r.PathValue("sessionID"))
	if h.handleSessionError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, stateResponse(state))
}

// submitAnswer submits one answer for the current question.
// @Summary      Submit an answer
// @Description  Empty or duplicate answers are silently ignored and reported with status "ignored".
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string               true  "Session ID"
// @Param        body       body      SubmitAnswerRequest  true  "Answer text"
// @Success      200        {object}  SubmitAnswerResponse
// @Failure      404        {object}  map[string]string
// @Router       /sessions/{sessionID}/answers [post]
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req SubmitAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	status, state, err := h.sessions.Submit(r.PathValue("sessionID"), req.Answer)
	if h.handleSessionError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, SubmitAnswerResponse{
		Status: submitStatusString(status),
		State:  stateResponse(state),
	})
}

// evaluateSession forces evaluation of the current submission set. The UI
// calls this when its per-question countdown expires; an empty set is an
// ordinary miss.
// @Summary      Force evaluation
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionStateResponse
// @Failure      404        {object}  map[string]string
// @Router       /sessions/{sessionID}/evaluate [post]
func (h *Handler) evaluateSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Evaluate(r.PathValue("sessionID"))
	if h.handleSessionError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, stateResponse(state))
}

// advanceSession moves the session past the feedback phase.
// @Summary      Advance to the next question
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionStateResponse
// @Failure      404        {object}  map[string]string
// @Router       /sessions/{sessionID}/advance [post]
func (h *Handler) advanceSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Advance(r.PathValue("sessionID"))
	if h.handleSessionError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, stateResponse(state))
}

// sessionSummary returns the score and wrong-answer log. When an explainer
// is configured, missed questions get a short generated explanation; the
// summary degrades gracefully when the LLM is unreachable.
// @Summary      Session summary
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionSummaryResponse
// @Failure      404        {object}  map[string]string
// @Router       /sessions/{sessionID}/summary [get]
func (h *Handler) sessionSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.sessions.Summary(r.PathValue("sessionID"))
	if h.handleSessionError(w, err) {
		return
	}

	wrong := make([]WrongAnswerResponse, 0, len(sum.Wrong))
	for _, wa := range sum.Wrong {
		entry := WrongAnswerResponse{
			Prompt:         wa.Prompt,
			AcceptedAnswer: wa.AcceptedAnswer,
			Submitted:      wa.Submitted,
			Note:           wa.Note,
		}
		entry.Explanation = h.explanationFor(r.Context(), wa)
		wrong = append(wrong, entry)
	}

	respondJSON(w, http.StatusOK, SessionSummaryResponse{
		SessionID:     sum.ID,
		Score:         sum.Score,
		QuestionCount: sum.QuestionCount,
		Finished:      sum.Finished,
		WrongAnswers:  wrong,
	})
}

func (h *Handler) explanationFor(ctx context.Context, wa quiz.WrongAnswer) string {
	if h.explain == nil {
		return ""
	}
	text, err := h.explain.Explain(ctx, wa.Prompt, wa.AcceptedAnswer, wa.Submitted)
	if err != nil {
		h.logger.Error("explanation failed", "error", err, "prompt", wa.Prompt)
		return ""
	}
	return text
}

func (h *Handler) handleSessionError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, service.ErrSessionNotFound) {
		respondError(w, http.StatusNotFound, "session not found")
		return true
	}
	h.logger.Error("session error", "error", err)
	respondError(w, http.StatusInternalServerError, "internal error")
	return true
}

func stateResponse(st service.State) SessionStateResponse {
	return SessionStateResponse{
		ID:            st.ID,
		Phase:         st.Phase.String(),
		Prompt:        st.Prompt,
		Note:          st.Note,
		BeforeMedia:   st.BeforeMedia,
		AfterMedia:    st.AfterMedia,
		ExpectedCount: st.ExpectedCount,
		Submitted:     st.Submitted,
		Score:         st.Score,
		Remaining:     st.Remaining,
		QuestionCount: st.QuestionCount,
		LastCorrect:   st.LastCorrect,
		Finished:      st.Finished,
	}
}

func submitStatusString(s quiz.SubmitStatus) string {
	switch s {
	case quiz.SubmitAccepted:
		return "accepted"
	case quiz.SubmitEvaluated:
		return "evaluated"
	default:
		return "ignored"
	}
}
