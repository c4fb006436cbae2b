// internal/api/routes.go
package api

import "net/http"

// RegisterRoutes attaches all API routes to the mux using Go 1.22 method
// patterns.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Subjects
	mux.HandleFunc("POST /subjects", h.createSubject)
	mux.HandleFunc("GET /subjects", h.listSubjects)
	mux.HandleFunc("GET /subjects/{subjectID}", h.getSubject)
	mux.HandleFunc("PUT /subjects/{subjectID}", h.updateSubject)
	mux.HandleFunc("DELETE /subjects/{subjectID}", h.deleteSubject)
	mux.HandleFunc("GET /subjects/{subjectID}/topics", h.listTopicsBySubject)
	mux.HandleFunc("GET /subjects/{subjectID}/mastery", h.getSubjectMastery)

	// Topics
	mux.HandleFunc("POST /topics", h.createTopic)
	mux.HandleFunc("GET /topics", h.listTopics)
	mux.HandleFunc("GET /topics/{topicID}", h.getTopic)
	mux.HandleFunc("PUT /topics/{topicID}", h.updateTopic)
	mux.HandleFunc("DELETE /topics/{topicID}", h.deleteTopic)
	mux.HandleFunc("GET /topics/{topicID}/decks", h.listDecksByTopic)

	// Decks
	mux.HandleFunc("POST /decks", h.createDeck)
	mux.HandleFunc("GET /decks", h.listDecks)
	mux.HandleFunc("GET /decks/{deckID}", h.getDeck)
	mux.HandleFunc("DELETE /decks/{deckID}", h.deleteDeck)
	mux.HandleFunc("PATCH /decks/{deckID}/topic", h.updateDeckTopic)

	// Questions
	mux.HandleFunc("POST /decks/{deckID}/questions", h.addQuestion)
	mux.HandleFunc("DELETE /decks/{deckID}/questions/{questionID}", h.deleteQuestion)

	// Sessions
	mux.HandleFunc("POST /sessions", h.createSession)
	mux.HandleFunc("GET /sessions/{sessionID}", h.getSession)
	mux.HandleFunc("POST /sessions/{sessionID}/answers", h.submitAnswer)
	mux.HandleFunc("POST /sessions/{sessionID}/evaluate", h.evaluateSession)
	mux.HandleFunc("POST /sessions/{sessionID}/advance", h.advanceSession)
	mux.HandleFunc("GET /sessions/{sessionID}/summary", h.sessionSummary)

	// Import / export
	mux.HandleFunc("GET /export", h.exportAll)
	mux.HandleFunc("POST /import", h.importAll)
}
