package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/quizdrill/backend/internal/domain/deck"
	"github.com/quizdrill/backend/internal/domain/subject"
	"github.com/quizdrill/backend/internal/domain/topic"
)

// ── Request / Response types ────────────────────────────────────────────────

type ExportQuestion struct {
	Prompt         string  `json:"prompt"`
	AcceptedAnswer string  `json:"accepted_answer"`
	Note           string  `json:"note,omitempty"`
	BeforeMedia    *string `json:"before_media,omitempty"`
	AfterMedia     *string `json:"after_media,omitempty"`
}

type ExportDeck struct {
	Title     string           `json:"title"`
	Questions []ExportQuestion `json:"questions"`
}

type ExportTopic struct {
	Name  string       `json:"name"`
	Decks []ExportDeck `json:"decks"`
}

type ExportSubject struct {
	Name   string        `json:"name"`
	Topics []ExportTopic `json:"topics"`
}

type ExportData struct {
	Version    string          `json:"version"`
	ExportedAt string          `json:"exported_at"`
	Subjects   []ExportSubject `json:"subjects"`
}

type ImportResult struct {
	SubjectsCreated  int `json:"subjects_created"`
	TopicsCreated    int `json:"topics_created"`
	DecksCreated     int `json:"decks_created"`
	QuestionsCreated int `json:"questions_created"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// exportAll dumps the full subject/topic/deck/question tree as JSON.
// @Summary      Export all data
// @Tags         Export
// @Produce      json
// @Success      200  {object}  ExportData
// @Router       /export [get]
func (h *Handler) exportAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjects, err := h.store.ListSubjects(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load subjects")
		return
	}

	exportData := ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Subjects:   make([]ExportSubject, 0),
	}

	for _, sub := range subjects {
		topics, err := h.store.ListTopicsBySubject(ctx, sub.ID)
		if err != nil {
			continue
		}

		exportSub := ExportSubject{
			Name:   sub.Name,
			Topics: make([]ExportTopic, 0),
		}

		for _, t := range topics {
			decks, err := h.store.ListDecksByTopic(ctx, t.ID)
			if err != nil {
				continue
			}

			exportTopic := ExportTopic{
				Name:  t.Name,
				Decks: make([]ExportDeck, 0),
			}

			for _, d := range decks {
				fullDeck, err := h.store.GetDeck(ctx, d.ID)
				if err != nil {
					continue
				}
				exportTopic.Decks = append(exportTopic.Decks, exportDeck(fullDeck))
			}

			exportSub.Topics = append(exportSub.Topics, exportTopic)
		}

		exportData.Subjects = append(exportData.Subjects, exportSub)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=quizdrill-export.json")
	json.NewEncoder(w).Encode(exportData)
}

// importAll recreates subjects, topics, decks, and questions from an export
// file. Rows that fail validation or persistence are skipped and logged, not
// fatal.
// @Summary      Import data
// @Tags         Export
// @Accept       json
// @Produce      json
// @Param        body  body      ExportData  true  "Previously exported data"
// @Success      201   {object}  ImportResult
// @Router       /import [post]
func (h *Handler) importAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var importData ExportData
	if !decodeJSON(w, r, &importData) {
		return
	}

	result := ImportResult{}

	for _, sub := range importData.Subjects {
		newSub := subject.New(sub.Name)
		if err := h.store.SaveSubject(ctx, newSub); err != nil {
			h.logger.Error("failed to create subject", "name", sub.Name, "error", err)
			continue
		}
		result.SubjectsCreated++

		for _, t := range sub.Topics {
			newTopic := topic.NewWithSubject(t.Name, newSub.ID)
			if err := h.store.SaveTopic(ctx, newTopic); err != nil {
				h.logger.Error("failed to create topic", "name", t.Name, "error", err)
				continue
			}
			result.TopicsCreated++

			for _, d := range t.Decks {
				newDeck := deck.NewWithTopic(d.Title, newTopic.ID)
				if err := h.store.SaveDeck(ctx, newDeck); err != nil {
					h.logger.Error("failed to create deck", "title", d.Title, "error", err)
					continue
				}
				result.DecksCreated++

				for _, q := range d.Questions {
					if err := newDeck.AddQuestionWithOptions(q.Prompt, q.AcceptedAnswer, q.Note, q.BeforeMedia, q.AfterMedia); err != nil {
						h.logger.Error("failed to add question", "error", err)
						continue
					}
					newQuestion := newDeck.Questions[len(newDeck.Questions)-1]
					if err := h.store.AddQuestion(ctx, newDeck.ID, newQuestion); err != nil {
						h.logger.Error("failed to save question", "error", err)
						continue
					}
					result.QuestionsCreated++
				}
			}
		}
	}

	respondJSON(w, http.StatusCreated, result)
}

func exportDeck(d *deck.Deck) ExportDeck {
	ed := ExportDeck{
		Title:     d.Title,
		Questions: make([]ExportQuestion, len(d.Questions)),
	}
	for i, q := range d.Questions {
		ed.Questions[i] = ExportQuestion{
			Prompt:         q.Prompt,
			AcceptedAnswer: q.AcceptedAnswer,
			Note:           q.Note,
			BeforeMedia:    q.BeforeMedia,
			AfterMedia:     q.AfterMedia,
		}
	}
	return ed
}
