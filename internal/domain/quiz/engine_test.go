package quiz_test

import (
	"math/rand"
	"testing"

	"github.com/quizdrill/backend/internal/domain/deck"
	"github.com/quizdrill/backend/internal/domain/quiz"
)

// countingSink records mastery notifications for assertions.
type countingSink struct {
	calls int
	key   quiz.MasteryKey
	delta int
}

func (s *countingSink) IncrementMastery(key quiz.MasteryKey, delta int) {
	s.calls++
	s.key = key
	s.delta = delta
}

func questions(accepted ...string) []deck.Question {
	d := deck.New("test")
	for i, a := range accepted {
		if err := d.AddQuestion("Question "+string(rune('A'+i)), a); err != nil {
			panic(err)
		}
	}
	return d.Questions
}

// ordered returns a config with shuffling disabled so queue positions are
// predictable in assertions.
func ordered(threshold float64, practiceCount int) quiz.Config {
	return quiz.Config{Threshold: threshold, Shuffle: false, PracticeCount: practiceCount}
}

func TestNew_EmptyQuestions(t *testing.T) {
	_, err := quiz.New(nil, quiz.DefaultConfig(), quiz.MasteryKey{}, nil, nil)
	if err != quiz.ErrNoQuestions {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestNew_StartsAwaitingInput(t *testing.T) {
	e, err := quiz.New(questions("paris", "london"), ordered(0, 1), quiz.MasteryKey{}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e.Phase() != quiz.PhaseAwaitingInput {
		t.Errorf("phase = %v, want awaiting input", e.Phase())
	}
	if e.Score() != 0 {
		t.Errorf("score = %d, want 0", e.Score())
	}
	if e.Remaining() != 2 {
		t.Errorf("remaining = %d, want 2", e.Remaining())
	}
	if e.CurrentIndex() != 0 {
		t.Errorf("current index = %d, want 0 with shuffle disabled", e.CurrentIndex())
	}
}

func TestSubmit_EmptyIsSilentNoOp(t *testing.T) {
	e, _ := quiz.New(questions("red@blue"), ordered(0, 1), quiz.MasteryKey{}, nil, nil)

	for _, input := range []string{"", "   ", "\t"} {
		if got := e.Submit(input); got != quiz.SubmitIgnored {
			t.Errorf("Submit(%q) = %v, want ignored", input, got)
		}
	}

	if len(e.Submissions()) != 0 {
		t.Errorf("submissions = %v, want none", e.Submissions())
	}
	if e.Phase() != quiz.PhaseAwaitingInput {
		t.Errorf("phase changed on ignored submit: %v", e.Phase())
	}
}

func TestSubmit_DuplicateIsSilentNoOp(t *testing.T) {
	e, _ := quiz.New(questions("red@blue"), ordered(0, 1), quiz.MasteryKey{}, nil, nil)

	if got := e.Submit("Red"); got != quiz.SubmitAccepted {
		t.Fatalf("Submit(Red) = %v, want accepted", got)
	}
	// Same answer, different case and spacing: still a duplicate.
	if got := e.Submit("  RED "); got != quiz.SubmitIgnored {
		t.Errorf("duplicate submit = %v, want ignored", got)
	}
	if len(e.Submissions()) != 1 {
		t.Errorf("submissions = %v, want exactly one", e.Submissions())
	}
}

func TestSubmit_SingleSegmentEvaluatesImmediately(t *testing.T) {
	e, _ := quiz.New(questions("paris"), ordered(0, 1), quiz.MasteryKey{}, nil, nil)

	if got := e.Submit("Paris"); got != quiz.SubmitEvaluated {
		t.Fatalf("Submit = %v, want evaluated", got)
	}
	if e.Phase() != quiz.PhaseShowingFeedback {
		t.Errorf("phase = %v, want showing feedback", e.Phase())
	}
	if !e.LastCorrect() {
		t.Error("expected a correct evaluation")
	}
	if e.Score() != 1 {
		t.Errorf("score = %d, want 1", e.Score())
	}
}

func TestSubmit_FailFastAsymmetry(t *testing.T) {
	// A correct partial answer accumulates; the first wrong answer
	// short-circuits to immediate evaluation.
	e, _ := quiz.New(questions("red@blue"), ordered(0, 2), quiz.MasteryKey{}, nil, nil)

	if got := e.Submit("red"); got != quiz.SubmitAccepted {
		t.Fatalf("correct partial answer = %v, want accepted", got)
	}
	if e.Phase() != quiz.PhaseAwaitingInput {
		t.Fatalf("phase = %v, want still awaiting input", e.Phase())
	}

	e2, _ := quiz.New(questions("red@blue"), ordered(0, 2), quiz.MasteryKey{}, nil, nil)
	if got := e2.Submit("green"); got != quiz.SubmitEvaluated {
		t.Fatalf("wrong answer on multi-segment question = %v, want evaluated", got)
	}
	if e2.Phase() != quiz.PhaseShowingFeedback {
		t.Errorf("phase = %v, want showing feedback after fail-fast", e2.Phase())
	}
	if e2.LastCorrect() {
		t.Error("expected an incorrect evaluation")
	}
}

func TestSubmit_MultiSegmentCompletes(t *testing.T) {
	e, _ := quiz.New(questions("red@blue"), ordered(0, 1), quiz.MasteryKey{}, nil, nil)

	if got := e.Submit("blue"); got != quiz.SubmitAccepted {
		t.Fatalf("first answer = %v, want accepted", got)
	}
	if got := e.Submit("red"); got != quiz.SubmitEvaluated {
		t.Fatalf("last answer = %v, want evaluated", got)
	}
	if !e.LastCorrect() {
		t.Error("expected order-independent coverage to evaluate correct")
	}
}

// The concrete scenario from the session contract: three single-answer
// questions, shuffle disabled, threshold 0.2, practice count 2.
func TestScenario_TypoThenMiss(t *testing.T) {
	sink := &countingSink{}
	qs := questions("paris", "london", "tokyo")
	e, _ := quiz.New(qs, ordered(0.2, 2), quiz.MasteryKey{SubjectID: "s", TopicID: "t"}, sink, nil)

	// Q1 with a small typo: within tolerance.
	if e.Submit("pariss"); !e.LastCorrect() {
		t.Fatal("expected typo within tolerance to match")
	}
	if got := e.Queue(); !equalInts(got, []int{1, 2}) {
		t.Fatalf("queue = %v, want [1 2]", got)
	}
	if e.Score() != 1 {
		t.Fatalf("score = %d, want 1", e.Score())
	}
	e.Advance()

	// Q2 answered wrongly: head removed, two copies appended, order kept.
	e.Submit("berlin")
	if e.LastCorrect() {
		t.Fatal("expected berlin to miss london")
	}
	if got := e.Queue(); !equalInts(got, []int{2, 1, 1}) {
		t.Fatalf("queue = %v, want [2 1 1]", got)
	}
	if len(e.WrongAnswers()) != 1 {
		t.Fatalf("wrong answers = %d, want 1", len(e.WrongAnswers()))
	}
	if e.Score() != 1 {
		t.Fatalf("score = %d, want unchanged 1", e.Score())
	}

	wa := e.WrongAnswers()[0]
	if wa.Submitted != "berlin" {
		t.Errorf("logged submission = %q, want %q", wa.Submitted, "berlin")
	}
	if wa.AcceptedAnswer != "london" {
		t.Errorf("logged accepted answer = %q, want %q", wa.AcceptedAnswer, "london")
	}
}

func TestQueueInvariant(t *testing.T) {
	qs := questions("a", "b", "c")
	e, _ := quiz.New(qs, ordered(0, 2), quiz.MasteryKey{}, nil, nil)

	answers := []string{"x", "a", "b", "x", "c", "c", "a", "b", "c"}
	for _, a := range answers {
		if e.Finished() {
			break
		}
		e.Submit(a)
		for _, idx := range e.Queue() {
			if idx < 0 || idx >= len(qs) {
				t.Fatalf("queue contains invalid index %d", idx)
			}
		}
		e.Advance()
		if (e.Remaining() == 0) != e.Finished() {
			t.Fatalf("queue empty = %v but finished = %v", e.Remaining() == 0, e.Finished())
		}
	}
}

func TestScore_CreditedOncePerQuestion(t *testing.T) {
	// One question missed once, then answered correctly twice (one per
	// re-practice copy). The score counts the question once.
	e, _ := quiz.New(questions("paris"), ordered(0, 2), quiz.MasteryKey{}, nil, nil)

	e.Submit("wrong")
	e.Advance()
	if got := e.Remaining(); got != 2 {
		t.Fatalf("remaining = %d, want 2 practice copies", got)
	}

	e.Submit("paris")
	e.Advance()
	e.Submit("paris")
	e.Advance()

	if !e.Finished() {
		t.Fatal("expected session to finish")
	}
	if e.Score() != 1 {
		t.Errorf("score = %d, want 1 (credited once per distinct question)", e.Score())
	}
}

func TestMastery_FiresExactlyOnce(t *testing.T) {
	sink := &countingSink{}
	key := quiz.MasteryKey{SubjectID: "subj", TopicID: "top"}
	e, _ := quiz.New(questions("paris"), ordered(0, 1), key, sink, nil)

	e.Submit("paris")
	e.Advance()
	if !e.Finished() {
		t.Fatal("expected session to finish")
	}

	// Repeated advances after the queue is empty must not re-fire.
	e.Advance()
	e.Advance()
	e.Advance()

	if sink.calls != 1 {
		t.Errorf("sink fired %d times, want exactly 1", sink.calls)
	}
	if sink.key != key {
		t.Errorf("sink key = %+v, want %+v", sink.key, key)
	}
	if sink.delta != 1 {
		t.Errorf("sink delta = %d, want 1", sink.delta)
	}
}

func TestEvaluate_EmptySubmissionsOnTimeout(t *testing.T) {
	// The UI countdown calls Evaluate with whatever exists at expiry;
	// an empty submission set is an ordinary miss.
	e, _ := quiz.New(questions("paris"), ordered(0, 1), quiz.MasteryKey{}, nil, nil)

	e.Evaluate()

	if e.Phase() != quiz.PhaseShowingFeedback {
		t.Fatalf("phase = %v, want showing feedback", e.Phase())
	}
	if e.LastCorrect() {
		t.Error("empty submission set must not match")
	}
	if len(e.WrongAnswers()) != 1 {
		t.Fatalf("wrong answers = %d, want 1", len(e.WrongAnswers()))
	}
	if e.WrongAnswers()[0].Submitted != "" {
		t.Errorf("logged submission = %q, want empty", e.WrongAnswers()[0].Submitted)
	}
}

func TestEvaluate_SecondCallIsNoOp(t *testing.T) {
	e, _ := quiz.New(questions("paris", "london"), ordered(0, 1), quiz.MasteryKey{}, nil, nil)

	e.Submit("paris")
	score, remaining := e.Score(), e.Remaining()

	e.Evaluate()

	if e.Score() != score || e.Remaining() != remaining {
		t.Error("Evaluate outside AwaitingInput changed state")
	}
}

func TestShuffle_DeterministicWithSeededSource(t *testing.T) {
	qs := questions("a", "b", "c", "d", "e", "f", "g", "h")
	cfg := quiz.Config{Threshold: 0, Shuffle: true, PracticeCount: 1}

	e1, _ := quiz.New(qs, cfg, quiz.MasteryKey{}, nil, rand.New(rand.NewSource(42)))
	e2, _ := quiz.New(qs, cfg, quiz.MasteryKey{}, nil, rand.New(rand.NewSource(42)))

	if !equalInts(e1.Queue(), e2.Queue()) {
		t.Errorf("same seed produced different orders: %v vs %v", e1.Queue(), e2.Queue())
	}

	// The queue is a permutation of 0..n-1.
	seen := make(map[int]bool)
	for _, idx := range e1.Queue() {
		if idx < 0 || idx >= len(qs) || seen[idx] {
			t.Fatalf("queue %v is not a permutation of question indices", e1.Queue())
		}
		seen[idx] = true
	}
	if len(seen) != len(qs) {
		t.Fatalf("queue %v is missing indices", e1.Queue())
	}
}

func TestEvaluate_MissReshufflesWholeQueue(t *testing.T) {
	qs := questions("a", "b", "c", "d", "e", "f", "g", "h")
	cfg := quiz.Config{Threshold: 0, Shuffle: true, PracticeCount: 2}

	reorderedOnce := false
	for seed := int64(1); seed <= 5; seed++ {
		e, err := quiz.New(qs, cfg, quiz.MasteryKey{}, nil, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}

		before := e.Queue()
		missed := e.CurrentIndex()

		e.Submit("zzz")
		if e.LastCorrect() {
			t.Fatalf("seed %d: expected a miss", seed)
		}

		// What a non-shuffling miss would produce: head removed, two
		// practice copies appended to the tail.
		tailAppend := append(append([]int{}, before[1:]...), missed, missed)

		// Replay the engine's RNG draws with the same seed: the no-op
		// shuffle consumes the initial-shuffle draws, the second shuffle
		// then yields the expected post-miss order of the whole queue.
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(before), func(i, j int) {})
		expected := make([]int, len(tailAppend))
		copy(expected, tailAppend)
		rng.Shuffle(len(expected), func(i, j int) {
			expected[i], expected[j] = expected[j], expected[i]
		})

		got := e.Queue()
		if !equalInts(got, expected) {
			t.Fatalf("seed %d: queue = %v, want %v (entire remaining queue reshuffled)", seed, got, expected)
		}
		if !equalInts(got, tailAppend) {
			reorderedOnce = true
		}
	}

	if !reorderedOnce {
		t.Error("every miss left the queue in plain tail-append order; whole-queue reshuffle is not happening")
	}
}

func TestAdvance_ClearsSubmissions(t *testing.T) {
	e, _ := quiz.New(questions("red@blue", "paris"), ordered(0, 1), quiz.MasteryKey{}, nil, nil)

	e.Submit("red")
	e.Submit("blue")
	e.Advance()

	if len(e.Submissions()) != 0 {
		t.Errorf("submissions after advance = %v, want none", e.Submissions())
	}
	if e.Phase() != quiz.PhaseAwaitingInput {
		t.Errorf("phase = %v, want awaiting input", e.Phase())
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
