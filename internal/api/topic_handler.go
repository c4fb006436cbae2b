package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/quizdrill/backend/internal/domain/topic"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateTopicRequest struct {
	Name      string  `json:"name" example:"Geography"`
	SubjectID *string `json:"subject_id,omitempty" example:"a1b2c3d4e5f6g7h8"`
}

func (r *CreateTopicRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type TopicResponse struct {
	ID        string  `json:"id" example:"t1o2p3i4c5i6d7x8"`
	Name      string  `json:"name" example:"Geography"`
	SubjectID *string `json:"subject_id,omitempty" example:"a1b2c3d4e5f6g7h8"`
	Mastery   int     `json:"mastery" example:"7"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createTopic creates a new topic, optionally under a subject.
// @Summary      Create a topic
// @Tags         Topics
// @Accept       json
// @Produce      json
// @Param        body  body      CreateTopicRequest  true  "Topic to create"
// @Success      201   {object}  TopicResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string  "subject not found"
// @Router       /topics [post]
func (h *Handler) createTopic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateTopicRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var t *topic.Topic
	if req.SubjectID != nil && *req.SubjectID != "" {
		if _, err := h.store.GetSubject(ctx, *req.SubjectID); h.handleStoreError(w, err, "subject") {
			return
		}
		t = topic.NewWithSubject(req.Name, *req.SubjectID)
	} else {
		t = topic.New(req.Name)
	}

	if err := h.store.SaveTopic(ctx, t); err != nil {
		h.logger.Error("failed to save topic", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save topic")
		return
	}

	respondJSON(w, http.StatusCreated, TopicResponse{ID: t.ID, Name: t.Name, SubjectID: t.SubjectID})
}

// listTopics lists all topics.
// @Summary      List topics
// @Tags         Topics
// @Produce      json
// @Success      200  {array}  TopicResponse
// @Router       /topics [get]
func (h *Handler) listTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.store.ListTopics(r.Context())
	if err != nil {
		h.logger.Error("failed to list topics", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load topics")
		return
	}
	respondJSON(w, http.StatusOK, h.topicResponses(r, topics))
}

// listTopicsBySubject lists the topics under one subject.
// @Summary      List topics in a subject
// @Tags         Subjects
// @Produce      json
// @Param        subjectID  path     string  true  "Subject ID"
// @Success      200        {array}  TopicResponse
// @Failure      404        {object} map[string]string
// @Router       /subjects/{subjectID}/topics [get]
func (h *Handler) listTopicsBySubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID := r.PathValue("subjectID")

	if _, err := h.store.GetSubject(ctx, subjectID); h.handleStoreError(w, err, "subject") {
		return
	}

	topics, err := h.store.ListTopicsBySubject(ctx, subjectID)
	if err != nil {
		h.logger.Error("failed to list topics", "error", err, "subject_id", subjectID)
		respondError(w, http.StatusInternalServerError, "failed to load topics")
		return
	}
	respondJSON(w, http.StatusOK, h.topicResponses(r, topics))
}

// getTopic returns one topic with its mastery level.
// @Summary      Get a topic
// @Tags         Topics
// @Produce      json
// @Param        topicID  path      string  true  "Topic ID"
// @Success      200      {object}  TopicResponse
// @Failure      404      {object}  map[string]string
// @Router       /topics/{topicID} [get]
func (h *Handler) getTopic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := h.store.GetTopic(ctx, r.PathValue("topicID"))
	if h.handleStoreError(w, err, "topic") {
		return
	}
	respondJSON(w, http.StatusOK, h.topicResponse(ctx, t))
}

// updateTopic renames a topic.
// @Summary      Rename a topic
// @Tags         Topics
// @Accept       json
// @Produce      json
// @Param        topicID  path      string              true  "Topic ID"
// @Param        body     body      CreateTopicRequest  true  "New name"
// @Success      200      {object}  TopicResponse
// @Failure      404      {object}  map[string]string
// @Router       /topics/{topicID} [put]
func (h *Handler) updateTopic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	topicID := r.PathValue("topicID")

	var req CreateTopicRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	existing, err := h.store.GetTopic(ctx, topicID)
	if h.handleStoreError(w, err, "topic") {
		return
	}

	existing.Name = req.Name
	if h.handleStoreError(w, h.store.UpdateTopic(ctx, existing), "topic") {
		return
	}
	respondJSON(w, http.StatusOK, h.topicResponse(ctx, existing))
}

// deleteTopic deletes a topic and its decks.
// @Summary      Delete a topic
// @Tags         Topics
// @Param        topicID  path  string  true  "Topic ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /topics/{topicID} [delete]
func (h *Handler) deleteTopic(w http.ResponseWriter, r *http.Request) {
	if h.handleStoreError(w, h.store.DeleteTopic(r.Context(), r.PathValue("topicID")), "topic") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) topicResponses(r *http.Request, topics []*topic.Topic) []TopicResponse {
	out := make([]TopicResponse, 0, len(topics))
	for _, t := range topics {
		out = append(out, h.topicResponse(r.Context(), t))
	}
	return out
}

// topicResponse resolves the topic's mastery level; lookup failures degrade
// to a zero level rather than failing the whole response.
func (h *Handler) topicResponse(ctx context.Context, t *topic.Topic) TopicResponse {
	subjectID := ""
	if t.SubjectID != nil {
		subjectID = *t.SubjectID
	}
	level, err := h.store.GetMastery(ctx, subjectID, t.ID)
	if err != nil {
		h.logger.Error("failed to load mastery", "error", err, "topic_id", t.ID)
	}
	return TopicResponse{ID: t.ID, Name: t.Name, SubjectID: t.SubjectID, Mastery: level}
}
