// simulation/simulation.go
package simulation

import (
	"log/slog"
	"math/rand"

	"github.com/quizdrill/backend/internal/domain/deck"
	"github.com/quizdrill/backend/internal/domain/quiz"
	"github.com/quizdrill/backend/internal/worker"
)

type logSink struct {
	logger *slog.Logger
	pool   *worker.Pool
}

func (s *logSink) IncrementMastery(key quiz.MasteryKey, delta int) {
	s.pool.Submit("mastery:"+key.SubjectID+"/"+key.TopicID, func() error {
		s.logger.Info("mastery incremented",
			"subject_id", key.SubjectID,
			"topic_id", key.TopicID,
			"delta", delta)
		return nil
	})
}

// Run drives a full session against a small built-in deck: a typo that the
// fuzzy matcher forgives, a real miss that gets re-queued, and a multi-part
// answer submitted piece by piece.
func Run(logger *slog.Logger) {
	d := deck.New("Simulation deck")
	d.AddQuestion("Capital of France?", "Paris")
	d.AddQuestion("Capital of Japan?", "Tokyo")
	d.AddQuestion("Primary colors?", "red@green@blue")

	pool := worker.NewPool(1, 4)
	defer pool.Close()

	sink := &logSink{logger: logger, pool: pool}
	cfg := quiz.Config{Threshold: 0.2, Shuffle: false, PracticeCount: 1}
	key := quiz.MasteryKey{SubjectID: "sim-subject", TopicID: "sim-topic"}

	engine, err := quiz.New(d.Questions, cfg, key, sink, rand.New(rand.NewSource(1)))
	if err != nil {
		logger.Error("simulation setup failed", "error", err)
		return
	}

	script := map[string][]string{
		"Capital of France?": {"pariss"},               // typo, within threshold
		"Capital of Japan?":  {"kyoto"},                // miss, re-queued once
		"Primary colors?":    {"red", "blue", "green"}, // out of order is fine
	}

	for !engine.Finished() {
		q := engine.Current()
		logger.Info("question", "prompt", q.Prompt, "remaining", engine.Remaining())

		answers, ok := script[q.Prompt]
		if ok {
			delete(script, q.Prompt)
		} else {
			answers = q.Segments() // second pass after a miss
		}
		for _, a := range answers {
			engine.Submit(a)
		}
		if engine.Phase() == quiz.PhaseAwaitingInput {
			engine.Evaluate()
		}

		logger.Info("evaluated",
			"prompt", q.Prompt,
			"correct", engine.LastCorrect(),
			"score", engine.Score())
		engine.Advance()
	}

	logger.Info("simulation finished",
		"score", engine.Score(),
		"questions", engine.QuestionCount(),
		"wrong", len(engine.WrongAnswers()))
}
