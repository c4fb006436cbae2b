package api

import (
	"errors"
	"net/http"

	"github.com/quizdrill/backend/internal/domain/subject"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSubjectRequest struct {
	Name string `json:"name" example:"Languages"`
}

func (r *CreateSubjectRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type SubjectResponse struct {
	ID   string `json:"id" example:"a1b2c3d4e5f6g7h8"`
	Name string `json:"name" example:"Languages"`
}

type SubjectMasteryResponse struct {
	SubjectID string                 `json:"subject_id" example:"a1b2c3d4e5f6g7h8"`
	Topics    []TopicMasteryResponse `json:"topics"`
}

type TopicMasteryResponse struct {
	TopicID string `json:"topic_id" example:"t1o2p3i4c5i6d7x8"`
	Level   int    `json:"level" example:"12"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createSubject creates a new subject.
// @Summary      Create a subject
// @Tags         Subjects
// @Accept       json
// @Produce      json
// @Param        body  body      CreateSubjectRequest  true  "Subject to create"
// @Success      201   {object}  SubjectResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /subjects [post]
func (h *Handler) createSubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateSubjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sub := subject.New(req.Name)
	if err := h.store.SaveSubject(ctx, sub); err != nil {
		h.logger.Error("failed to save subject", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save subject")
		return
	}

	respondJSON(w, http.StatusCreated, SubjectResponse{ID: sub.ID, Name: sub.Name})
}

// listSubjects lists all subjects.
// @Summary      List subjects
// @Tags         Subjects
// @Produce      json
// @Success      200  {array}  SubjectResponse
// @Router       /subjects [get]
func (h *Handler) listSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.store.ListSubjects(r.Context())
	if err != nil {
		h.logger.Error("failed to list subjects", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load subjects")
		return
	}

	out := make([]SubjectResponse, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, SubjectResponse{ID: s.ID, Name: s.Name})
	}
	respondJSON(w, http.StatusOK, out)
}

// getSubject returns one subject.
// @Summary      Get a subject
// @Tags         Subjects
// @Produce      json
// @Param        subjectID  path      string  true  "Subject ID"
// @Success      200        {object}  SubjectResponse
// @Failure      404        {object}  map[string]string
// @Router       /subjects/{subjectID} [get]
func (h *Handler) getSubject(w http.ResponseWriter, r *http.Request) {
	sub, err := h.store.GetSubject(r.Context(), r.PathValue("subjectID"))
	if h.handleStoreError(w, err, "subject") {
		return
	}
	respondJSON(w, http.StatusOK, SubjectResponse{ID: sub.ID, Name: sub.Name})
}

// updateSubject renames a subject.
// @Summary      Rename a subject
// @Tags         Subjects
// @Accept       json
// @Produce      json
// @Param        subjectID  path      string                true  "Subject ID"
// @Param        body       body      CreateSubjectRequest  true  "New name"
// @Success      200        {object}  SubjectResponse
// @Failure      404        {object}  map[string]string
// @Router       /subjects/{subjectID} [put]
func (h *Handler) updateSubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID := r.PathValue("subjectID")

	var req CreateSubjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sub := &subject.Subject{ID: subjectID, Name: req.Name}
	if h.handleStoreError(w, h.store.UpdateSubject(ctx, sub), "subject") {
		return
	}
	respondJSON(w, http.StatusOK, SubjectResponse{ID: sub.ID, Name: sub.Name})
}

// deleteSubject deletes a subject and everything under it.
// @Summary      Delete a subject
// @Tags         Subjects
// @Param        subjectID  path  string  true  "Subject ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /subjects/{subjectID} [delete]
func (h *Handler) deleteSubject(w http.ResponseWriter, r *http.Request) {
	if h.handleStoreError(w, h.store.DeleteSubject(r.Context(), r.PathValue("subjectID")), "subject") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getSubjectMastery reports mastery levels for every topic under a subject.
// @Summary      Subject mastery
// @Tags         Subjects
// @Produce      json
// @Param        subjectID  path      string  true  "Subject ID"
// @Success      200        {object}  SubjectMasteryResponse
// @Failure      404        {object}  map[string]string
// @Router       /subjects/{subjectID}/mastery [get]
func (h *Handler) getSubjectMastery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID := r.PathValue("subjectID")

	if _, err := h.store.GetSubject(ctx, subjectID); h.handleStoreError(w, err, "subject") {
		return
	}

	records, err := h.store.ListMasteryBySubject(ctx, subjectID)
	if err != nil {
		h.logger.Error("failed to load mastery", "error", err, "subject_id", subjectID)
		respondError(w, http.StatusInternalServerError, "failed to load mastery")
		return
	}

	resp := SubjectMasteryResponse{SubjectID: subjectID, Topics: make([]TopicMasteryResponse, 0, len(records))}
	for _, rec := range records {
		resp.Topics = append(resp.Topics, TopicMasteryResponse{TopicID: rec.TopicID, Level: rec.Level})
	}
	respondJSON(w, http.StatusOK, resp)
}
