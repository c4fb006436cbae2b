package api

import (
	"errors"
	"net/http"

	"github.com/quizdrill/backend/internal/domain/deck"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateDeckRequest struct {
	Title   string  `json:"title" example:"European capitals"`
	TopicID *string `json:"topic_id,omitempty" example:"t1o2p3i4c5i6d7x8"`
}

func (r *CreateDeckRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

type DeckResponse struct {
	ID      string  `json:"id" example:"d1e2c3k4i5d6x7y8"`
	Title   string  `json:"title" example:"European capitals"`
	TopicID *string `json:"topic_id,omitempty" example:"t1o2p3i4c5i6d7x8"`
}

type GetDeckResponse struct {
	ID        string             `json:"id" example:"d1e2c3k4i5d6x7y8"`
	Title     string             `json:"title" example:"European capitals"`
	TopicID   *string            `json:"topic_id,omitempty" example:"t1o2p3i4c5i6d7x8"`
	Questions []QuestionResponse `json:"questions"`
}

type UpdateDeckTopicRequest struct {
	TopicID *string `json:"topic_id" example:"t1o2p3i4c5i6d7x8"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createDeck creates a new deck, optionally under a topic.
// @Summary      Create a deck
// @Tags         Decks
// @Accept       json
// @Produce      json
// @Param        body  body      CreateDeckRequest  true  "Deck to create"
// @Success      201   {object}  DeckResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string  "topic not found"
// @Router       /decks [post]
func (h *Handler) createDeck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateDeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var d *deck.Deck
	if req.TopicID != nil && *req.TopicID != "" {
		if _, err := h.store.GetTopic(ctx, *req.TopicID); h.handleStoreError(w, err, "topic") {
			return
		}
		d = deck.NewWithTopic(req.Title, *req.TopicID)
	} else {
		d = deck.New(req.Title)
	}

	if err := h.store.SaveDeck(ctx, d); err != nil {
		h.logger.Error("failed to save deck", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save deck")
		return
	}

	respondJSON(w, http.StatusCreated, DeckResponse{ID: d.ID, Title: d.Title, TopicID: d.TopicID})
}

// listDecks lists all decks.
// @Summary      List decks
// @Tags         Decks
// @Produce      json
// @Success      200  {array}  DeckResponse
// @Router       /decks [get]
func (h *Handler) listDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.store.ListDecks(r.Context())
	if err != nil {
		h.logger.Error("failed to list decks", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load decks")
		return
	}
	respondJSON(w, http.StatusOK, deckResponses(decks))
}

// listDecksByTopic lists the decks under one topic.
// @Summary      List decks in a topic
// @Tags         Topics
// @Produce      json
// @Param        topicID  path     string  true  "Topic ID"
// @Success      200      {array}  DeckResponse
// @Failure      404      {object} map[string]string
// @Router       /topics/{topicID}/decks [get]
func (h *Handler) listDecksByTopic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	topicID := r.PathValue("topicID")

	if _, err := h.store.GetTopic(ctx, topicID); h.handleStoreError(w, err, "topic") {
		return
	}

	decks, err := h.store.ListDecksByTopic(ctx, topicID)
	if err != nil {
		h.logger.Error("failed to list decks", "error", err, "topic_id", topicID)
		respondError(w, http.StatusInternalServerError, "failed to load decks")
		return
	}
	respondJSON(w, http.StatusOK, deckResponses(decks))
}

// getDeck returns one deck with its questions.
// @Summary      Get a deck
// @Tags         Decks
// @Produce      json
// @Param        deckID  path      string  true  "Deck ID"
// @Success      200     {object}  GetDeckResponse
// @Failure      404     {object}  map[string]string
// @Router       /decks/{deckID} [get]
func (h *Handler) getDeck(w http.ResponseWriter, r *http.Request) {
	d, err := h.store.GetDeck(r.Context(), r.PathValue("deckID"))
	if h.handleStoreError(w, err, "deck") {
		return
	}

	questions := make([]QuestionResponse, 0, len(d.Questions))
	for _, q := range d.Questions {
		questions = append(questions, questionResponse(q))
	}

	respondJSON(w, http.StatusOK, GetDeckResponse{
		ID:        d.ID,
		Title:     d.Title,
		TopicID:   d.TopicID,
		Questions: questions,
	})
}

// updateDeckTopic moves a deck to another topic (or to none).
// @Summary      Move a deck
// @Tags         Decks
// @Accept       json
// @Produce      json
// @Param        deckID  path      string                  true  "Deck ID"
// @Param        body    body      UpdateDeckTopicRequest  true  "Target topic, null to unassign"
// @Success      200     {object}  DeckResponse
// @Failure      404     {object}  map[string]string
// @Router       /decks/{deckID}/topic [patch]
func (h *Handler) updateDeckTopic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deckID := r.PathValue("deckID")

	var req UpdateDeckTopicRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.TopicID != nil && *req.TopicID != "" {
		if _, err := h.store.GetTopic(ctx, *req.TopicID); h.handleStoreError(w, err, "topic") {
			return
		}
	}

	if h.handleStoreError(w, h.store.UpdateDeckTopic(ctx, deckID, req.TopicID), "deck") {
		return
	}

	d, err := h.store.GetDeck(ctx, deckID)
	if h.handleStoreError(w, err, "deck") {
		return
	}
	respondJSON(w, http.StatusOK, DeckResponse{ID: d.ID, Title: d.Title, TopicID: d.TopicID})
}

// deleteDeck deletes a deck and its questions.
// @Summary      Delete a deck
// @Tags         Decks
// @Param        deckID  path  string  true  "Deck ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /decks/{deckID} [delete]
func (h *Handler) deleteDeck(w http.ResponseWriter, r *http.Request) {
	if h.handleStoreError(w, h.store.DeleteDeck(r.Context(), r.PathValue("deckID")), "deck") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func deckResponses(decks []*deck.Deck) []DeckResponse {
	out := make([]DeckResponse, 0, len(decks))
	for _, d := range decks {
		out = append(out, DeckResponse{ID: d.ID, Title: d.Title, TopicID: d.TopicID})
	}
	return out
}
