package explainer

import "context"

// Explainer produces a short explanation for a question a learner missed,
// for the end-of-session summary.
// Implementations may call an LLM or return canned text (for tests).
type Explainer interface {
	// Explain returns one or two plain-text sentences describing why the
	// accepted answer is correct and where the submission went wrong.
	Explain(ctx context.Context, prompt, acceptedAnswer, submitted string) (string, error)
}
