package analyze

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/ppiankov/factguard/internal/llm"
	"github.com/ppiankov/factguard/internal/model"
)

func webSource(snippet string) *model.Source {
	return &model.Source{
		Title:      "test source",
		Snippet:    snippet,
		Link:       "https://example.com/a",
		SourceType: model.SourceTypeWeb,
	}
}

func similarityJSON(score float64, supporting bool, explanation string) string {
	return fmt.Sprintf(`{"similarity_score":%v,"is_supporting":%v,"explanation":%q}`, score, supporting, explanation)
}

func TestAnalyzeSimilarity_FallbackScore(t *testing.T) {
	a := NewSimilarityAnalyzer(nil, testSegmenter(t))

	// 3 shared terms: the, cat, sat. Score 0.3 is not strictly above the
	// support threshold.
	result, err := a.AnalyzeSimilarity(context.Background(), "the cat sat on a mat", webSource("the cat sat here"))
	if err != nil {
		t.Fatalf("AnalyzeSimilarity failed: %v", err)
	}
	if math.Abs(result.SimilarityScore-0.3) > 1e-9 {
		t.Errorf("expected score 0.3, got %v", result.SimilarityScore)
	}
	if result.IsSupporting {
		t.Error("score equal to the threshold must not count as supporting")
	}
	if !strings.Contains(result.Explanation, "3个重叠关键词") {
		t.Errorf("explanation should report the overlap count: %q", result.Explanation)
	}
}

func TestAnalyzeSimilarity_FallbackSupporting(t *testing.T) {
	a := NewSimilarityAnalyzer(nil, testSegmenter(t))

	// 4 shared terms push the score above the threshold.
	result, err := a.AnalyzeSimilarity(context.Background(), "the red cat sat on a mat", webSource("the red cat sat here"))
	if err != nil {
		t.Fatalf("AnalyzeSimilarity failed: %v", err)
	}
	if math.Abs(result.SimilarityScore-0.4) > 1e-9 {
		t.Errorf("expected score 0.4, got %v", result.SimilarityScore)
	}
	if !result.IsSupporting {
		t.Error("expected supporting result")
	}
}

func TestAnalyzeSimilarity_FallbackDeterministic(t *testing.T) {
	a := NewSimilarityAnalyzer(nil, testSegmenter(t))

	claim := "the river flows north through the valley"
	src := webSource("the river flows south")

	first, err := a.AnalyzeSimilarity(context.Background(), claim, src)
	if err != nil {
		t.Fatalf("AnalyzeSimilarity failed: %v", err)
	}
	second, err := a.AnalyzeSimilarity(context.Background(), claim, src)
	if err != nil {
		t.Fatalf("AnalyzeSimilarity failed: %v", err)
	}
	if first != second {
		t.Errorf("fallback must be deterministic: %+v vs %+v", first, second)
	}
}

func TestAnalyzeSimilarity_FallbackCap(t *testing.T) {
	a := NewSimilarityAnalyzer(nil, testSegmenter(t))

	claim := "one two three four five six seven eight"
	result, err := a.AnalyzeSimilarity(context.Background(), claim, webSource(claim))
	if err != nil {
		t.Fatalf("AnalyzeSimilarity failed: %v", err)
	}
	if result.SimilarityScore != 0.5 {
		t.Errorf("fallback score must cap at 0.5, got %v", result.SimilarityScore)
	}
}

func TestAnalyzeSimilarity_ModelPath(t *testing.T) {
	provider := &mockProvider{
		completeFn: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return &llm.Response{Content: similarityJSON(0.85, true, "核心信息一致")}, nil
		},
	}
	a := NewSimilarityAnalyzer(provider, testSegmenter(t))

	result, err := a.AnalyzeSimilarity(context.Background(), "alpha beta gamma", webSource("delta epsilon zeta"))
	if err != nil {
		t.Fatalf("AnalyzeSimilarity failed: %v", err)
	}
	if result.SimilarityScore != 0.85 || !result.IsSupporting {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Explanation != "核心信息一致" {
		t.Errorf("unexpected explanation: %q", result.Explanation)
	}
}

func TestAnalyzeSimilarity_SupportingRecomputed(t *testing.T) {
	// The backend claims non-supporting despite a high score; the flag is
	// recomputed from the score and wins.
	provider := &mockProvider{
		completeFn: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return &llm.Response{Content: similarityJSON(0.9, false, "ok")}, nil
		},
	}
	a := NewSimilarityAnalyzer(provider, testSegmenter(t))

	result, err := a.AnalyzeSimilarity(context.Background(), "alpha beta gamma", webSource("delta epsilon zeta"))
	if err != nil {
		t.Fatalf("AnalyzeSimilarity failed: %v", err)
	}
	if !result.IsSupporting {
		t.Error("is_supporting must be recomputed from the score")
	}
}

func TestAnalyzeSimilarity_OverlapCorrection(t *testing.T) {
	provider := &mockProvider{
		completeFn: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return &llm.Response{Content: similarityJSON(0.1, false, "表达方式不同")}, nil
		},
	}
	a := NewSimilarityAnalyzer(provider, testSegmenter(t))

	// 2 overlapping terms: alpha, beta. 0.1 + 2*0.1 = 0.3, still not
	// strictly above the threshold.
	result, err := a.AnalyzeSimilarity(context.Background(), "alpha beta gamma", webSource("alpha beta delta"))
	if err != nil {
		t.Fatalf("AnalyzeSimilarity failed: %v", err)
	}
	if math.Abs(result.SimilarityScore-0.3) > 1e-9 {
		t.Errorf("expected corrected score 0.3, got %v", result.SimilarityScore)
	}
	if result.IsSupporting {
		t.Error("corrected score of exactly 0.3 must not be supporting")
	}
	if !strings.Contains(result.Explanation, "由于存在2个重叠关键词") {
		t.Errorf("correction must be noted in the explanation: %q", result.Explanation)
	}
	if result.SimilarityScore < 0.1 {
		t.Error("correction must never lower the score")
	}
}

func TestAnalyzeSimilarity_CorrectionCap(t *testing.T) {
	provider := &mockProvider{
		completeFn: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return &llm.Response{Content: similarityJSON(0.2, false, "低分")}, nil
		},
	}
	a := NewSimilarityAnalyzer(provider, testSegmenter(t))

	// 6 overlapping terms would push 0.2 to 0.8; the correction caps at 0.5.
	claim := "one two three four five six"
	result, err := a.AnalyzeSimilarity(context.Background(), claim, webSource(claim))
	if err != nil {
		t.Fatalf("AnalyzeSimilarity failed: %v", err)
	}
	if result.SimilarityScore != 0.5 {
		t.Errorf("corrected score must cap at 0.5, got %v", result.SimilarityScore)
	}
	if !result.IsSupporting {
		t.Error("0.5 is above the threshold and must be supporting")
	}
}

func TestAnalyzeSimilarity_NoCorrectionAboveThreshold(t *testing.T) {
	provider := &mockProvider{
		completeFn: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return &llm.Response{Content: similarityJSON(0.35, true, "相似")}, nil
		},
	}
	a := NewSimilarityAnalyzer(provider, testSegmenter(t))

	claim := "one two three four five six"
	result, err := a.AnalyzeSimilarity(context.Background(), claim, webSource(claim))
	if err != nil {
		t.Fatalf("AnalyzeSimilarity failed: %v", err)
	}
	if result.SimilarityScore != 0.35 {
		t.Errorf("scores at or above the threshold must not be corrected, got %v", result.SimilarityScore)
	}
	if strings.Contains(result.Explanation, "重叠关键词") {
		t.Errorf("no correction note expected: %q", result.Explanation)
	}
}

func TestAnalyzeSimilarity_InvalidResponseFallsBack(t *testing.T) {
	cases := []struct {
		name    string
		content string
		err     error
	}{
		{"backend error", "", errors.New("api unreachable")},
		{"not json", "the model rambled", nil},
		{"missing fields", `{"similarity_score":0.5}`, nil},
		{"score above range", similarityJSON(1.5, true, "x"), nil},
		{"score below range", similarityJSON(-0.1, false, "x"), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &mockProvider{
				completeFn: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
					if tc.err != nil {
						return nil, tc.err
					}
					return &llm.Response{Content: tc.content}, nil
				},
			}
			a := NewSimilarityAnalyzer(provider, testSegmenter(t))

			// 4 shared terms, so the fallback is recognizable: 0.4.
			result, err := a.AnalyzeSimilarity(context.Background(), "the red cat sat on a mat", webSource("the red cat sat here"))
			if err != nil {
				t.Fatalf("AnalyzeSimilarity failed: %v", err)
			}
			if math.Abs(result.SimilarityScore-0.4) > 1e-9 {
				t.Errorf("expected fallback score 0.4, got %v", result.SimilarityScore)
			}
			if !strings.Contains(result.Explanation, "基本相似度得分") {
				t.Errorf("expected fallback explanation, got %q", result.Explanation)
			}
		})
	}
}
