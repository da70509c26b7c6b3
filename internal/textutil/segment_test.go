package textutil

import (
	"reflect"
	"sync"
	"testing"
)

var (
	segOnce sync.Once
	seg     *Segmenter
	segErr  error
)

func testSegmenter(t *testing.T) *Segmenter {
	t.Helper()
	segOnce.Do(func() {
		seg, segErr = NewSegmenter()
	})
	if segErr != nil {
		t.Fatalf("failed to load segmenter: %v", segErr)
	}
	return seg
}

func TestContainsCJK(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"hello world", false},
		{"北京", true},
		{"mixed 中文 text", true},
		{"", false},
		{"123 !?", false},
	}
	for _, tc := range cases {
		if got := ContainsCJK(tc.text); got != tc.want {
			t.Errorf("ContainsCJK(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestSplitSentences_Latin(t *testing.T) {
	got := SplitSentences("First sentence. Second one! Third? ")
	want := []string{"First sentence.", "Second one!", "Third?"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitSentences = %v, want %v", got, want)
	}
}

func TestSplitSentences_CJK(t *testing.T) {
	got := SplitSentences("今天天气很好。明天会下雨！真的吗？")
	want := []string{"今天天气很好。", "明天会下雨！", "真的吗？"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitSentences = %v, want %v", got, want)
	}
}

func TestSplitSentences_NoTerminator(t *testing.T) {
	got := SplitSentences("no terminator here")
	if len(got) != 1 || got[0] != "no terminator here" {
		t.Errorf("trailing text without a terminator must still be a sentence, got %v", got)
	}
}

func TestSplitSentences_Empty(t *testing.T) {
	if got := SplitSentences(""); len(got) != 0 {
		t.Errorf("expected no sentences for empty input, got %v", got)
	}
	if got := SplitSentences("..."); len(got) != 0 {
		t.Errorf("expected no sentences for terminators only, got %v", got)
	}
}

func TestTokens_Latin(t *testing.T) {
	s := testSegmenter(t)

	got := s.Tokens("the quick brown fox")
	want := []string{"the", "quick", "brown", "fox"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}
}

func TestTokens_CJK(t *testing.T) {
	s := testSegmenter(t)

	got := s.Tokens("北京是中国的首都")
	if len(got) < 2 {
		t.Errorf("expected CJK text to segment into multiple words, got %v", got)
	}
}

func TestOverlap_Latin(t *testing.T) {
	s := testSegmenter(t)

	cases := []struct {
		a, b string
		want int
	}{
		{"the cat sat", "the cat ran", 2},
		{"alpha beta", "gamma delta", 0},
		{"", "anything", 0},
		// Repeated shared tokens count once.
		{"go go go tool", "go tool chain", 2},
	}
	for _, tc := range cases {
		if got := s.Overlap(tc.a, tc.b); got != tc.want {
			t.Errorf("Overlap(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestOverlap_CJK(t *testing.T) {
	s := testSegmenter(t)

	if got := s.Overlap("北京是中国的首都", "中国的首都是北京"); got == 0 {
		t.Error("expected shared segments between reordered CJK texts")
	}
	if got := s.Overlap("今天天气很好", "alpha beta gamma"); got != 0 {
		t.Errorf("expected no overlap across unrelated scripts, got %d", got)
	}
}

func TestOverlap_Symmetric(t *testing.T) {
	s := testSegmenter(t)

	a := "the river flows north through the valley"
	b := "the river flows south"
	if s.Overlap(a, b) != s.Overlap(b, a) {
		t.Error("overlap count must be symmetric")
	}
}
