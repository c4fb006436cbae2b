package quiz

// Config holds the per-session tuning knobs. It is read once at session
// construction; the engine never reaches into ambient state for settings.
type Config struct {
	Threshold     float64 // matching leniency: 0 = exact, 1 = maximally lenient
	Shuffle       bool    // shuffle the queue at start and after every miss
	PracticeCount int     // extra copies re-queued after a miss, >= 1
}

// DefaultConfig returns the tuning used when a session request does not
// override it.
func DefaultConfig() Config {
	return Config{
		Threshold:     0.2,
		Shuffle:       true,
		PracticeCount: 2,
	}
}
