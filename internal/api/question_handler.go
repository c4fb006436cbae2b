package api

import (
	"errors"
	"net/http"

	"github.com/quizdrill/backend/internal/domain/deck"
)

// ── Request / Response types ────────────────────────────────────────────────

type AddQuestionRequest struct {
	Prompt         string  `json:"prompt" example:"Capital of France?"`
	AcceptedAnswer string  `json:"accepted_answer" example:"Paris"`
	Note           string  `json:"note,omitempty" example:"Largest city of France."`
	BeforeMedia    *string `json:"before_media,omitempty"`
	AfterMedia     *string `json:"after_media,omitempty"`
}

func (r *AddQuestionRequest) Validate() error {
	if r.Prompt == "" {
		return errors.New("prompt is required")
	}
	// Mirror the domain invariant so the client gets a clear message:
	// at least one non-empty answer segment is required.
	q := deck.Question{AcceptedAnswer: r.AcceptedAnswer}
	if len(q.Segments()) == 0 {
		return errors.New("accepted_answer must contain at least one non-empty answer")
	}
	return nil
}

type QuestionResponse struct {
	ID             string   `json:"id" example:"q1w2e3r4t5y6u7i8"`
	Prompt         string   `json:"prompt" example:"Capital of France?"`
	AcceptedAnswer string   `json:"accepted_answer" example:"Paris"`
	Note           string   `json:"note,omitempty"`
	BeforeMedia    *string  `json:"before_media,omitempty"`
	AfterMedia     *string  `json:"after_media,omitempty"`
	AnswerCount    int      `json:"answer_count" example:"1"`
	Answers        []string `json:"answers"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// addQuestion adds a question to a deck.
// @Summary      Add a question
// @Description  Add a question to a deck. Multiple acceptable answers are separated by "@".
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        deckID  path      string              true  "Deck ID"
// @Param        body    body      AddQuestionRequest  true  "Question to add"
// @Success      201     {object}  QuestionResponse
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /decks/{deckID}/questions [post]
func (h *Handler) addQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deckID := r.PathValue("deckID")

	d, err := h.store.GetDeck(ctx, deckID)
	if h.handleStoreError(w, err, "deck") {
		return
	}

	var req AddQuestionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := d.AddQuestionWithOptions(req.Prompt, req.AcceptedAnswer, req.Note, req.BeforeMedia, req.AfterMedia); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := d.Questions[len(d.Questions)-1]

	if err := h.store.AddQuestion(ctx, d.ID, q); err != nil {
		h.logger.Error("failed to save question", "error", err, "deck_id", d.ID)
		respondError(w, http.StatusInternalServerError, "failed to save question")
		return
	}

	respondJSON(w, http.StatusCreated, questionResponse(q))
}

// deleteQuestion removes a question from a deck.
// @Summary      Delete a question
// @Tags         Questions
// @Param        deckID      path  string  true  "Deck ID"
// @Param        questionID  path  string  true  "Question ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /decks/{deckID}/questions/{questionID} [delete]
func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	if h.handleStoreError(w, h.store.DeleteQuestion(r.Context(), r.PathValue("questionID")), "question") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func questionResponse(q deck.Question) QuestionResponse {
	segments := q.Segments()
	return QuestionResponse{
		ID:             q.ID,
		Prompt:         q.Prompt,
		AcceptedAnswer: q.AcceptedAnswer,
		Note:           q.Note,
		BeforeMedia:    q.BeforeMedia,
		AfterMedia:     q.AfterMedia,
		AnswerCount:    len(segments),
		Answers:        segments,
	}
}
