package match_test

import (
	"testing"

	"github.com/quizdrill/backend/internal/match"
)

func TestMatchOne_ExactAtZeroThreshold(t *testing.T) {
	if !match.MatchOne("paris", "paris", 0) {
		t.Error("identical strings should match at threshold 0")
	}
	if match.MatchOne("pariss", "paris", 0) {
		t.Error("strings differing by one character should not match at threshold 0")
	}
	if match.MatchOne("", "paris", 0) {
		t.Error("empty string should not match a non-empty string")
	}
}

func TestMatchOne_SmallTypoWithinTolerance(t *testing.T) {
	// One edit over six characters: similarity 5/6, within a 0.2 tolerance.
	if !match.MatchOne("pariss", "paris", 0.2) {
		t.Error("expected a one-character typo to match at threshold 0.2")
	}
	if match.MatchOne("berlin", "london", 0.2) {
		t.Error("unrelated words should not match at threshold 0.2")
	}
}

func TestMatchOne_MonotoneInThreshold(t *testing.T) {
	pairs := []struct{ a, b string }{
		{"paris", "paris"},
		{"pariss", "paris"},
		{"mitochondria", "mitochindria"},
		{"berlin", "london"},
	}
	thresholds := []float64{0, 0.1, 0.2, 0.3, 0.5, 0.8, 1}

	for _, p := range pairs {
		matched := false
		for _, th := range thresholds {
			got := match.MatchOne(p.a, p.b, th)
			if matched && !got {
				t.Errorf("MatchOne(%q, %q, %v) = false after matching at a lower threshold", p.a, p.b, th)
			}
			if got {
				matched = true
			}
		}
	}
}

func TestMatch_OrderIndependentCoverage(t *testing.T) {
	if !match.Match([]string{"paris", "france"}, []string{"france", "paris"}, 0) {
		t.Error("expected order-independent coverage to match")
	}
}

func TestMatch_IncompleteCoverageFails(t *testing.T) {
	if match.Match([]string{"paris"}, []string{"france", "paris"}, 0) {
		t.Error("expected incomplete coverage to fail")
	}
}

func TestMatch_ExtraSubmissionsDoNotFail(t *testing.T) {
	if !match.Match([]string{"paris", "garbage", "france"}, []string{"france", "paris"}, 0) {
		t.Error("extra non-matching submissions should not cause failure")
	}
}

func TestMatch_EmptySubmissions(t *testing.T) {
	if match.Match(nil, []string{"paris"}, 1) {
		t.Error("empty submission set should never match")
	}
}
