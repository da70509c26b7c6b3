package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/ppiankov/factguard/internal/llm"
	"github.com/ppiankov/factguard/internal/model"
	"github.com/ppiankov/factguard/internal/textutil"
)

// supportThreshold is the fixed similarity above which a source counts as
// supporting a claim. Strict inequality everywhere it is applied.
const supportThreshold = 0.3

const similaritySystemPrompt = "你是一个事实核查助手。请仔细分析文本之间的相似度，即使表达方式不同，只要核心信息相似就应该给出较高的相似度分数。请用中文解释你的分析。"

const similarityPromptTemplate = `请分析以下声明和来源文本之间的相似度和关系。
请仔细分析以下几个方面：
1. 核心信息是否相似（即使表达方式不同）
2. 关键词和概念的重叠程度
3. 语义上的关联性
4. 是否存在支持或反驳关系

请返回一个包含以下结构的JSON对象：
{
    "similarity_score": float (0-1),
    "is_supporting": boolean,
    "explanation": string
}

声明：
%s

来源：
%s

请只返回JSON对象，不要包含其他文本。`

// SimilarityAnalyzer scores how well a source supports a claim. The primary
// path is a model judgment; the fallback is a deterministic token-overlap
// score, so the same (claim, source) pair always yields the same result
// when the model path is unavailable.
type SimilarityAnalyzer struct {
	provider llm.Provider
	seg      *textutil.Segmenter
}

// NewSimilarityAnalyzer creates a new similarity analyzer.
func NewSimilarityAnalyzer(provider llm.Provider, seg *textutil.Segmenter) *SimilarityAnalyzer {
	return &SimilarityAnalyzer{
		provider: provider,
		seg:      seg,
	}
}

// AnalyzeSimilarity produces the similarity judgment for one (claim, source)
// pair. Backend and parse failures degrade to the overlap fallback; the
// returned error is reserved for unexpected internal failures, which the
// orchestrator treats as non-supporting.
func (a *SimilarityAnalyzer) AnalyzeSimilarity(ctx context.Context, claim string, source *model.Source) (model.SimilarityResult, error) {
	if a.provider == nil {
		return a.analyzeBasic(claim, source), nil
	}

	result, err := a.analyzeWithModel(ctx, claim, source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: similarity analysis fell back to overlap scoring: %v\n", err)
		return a.analyzeBasic(claim, source), nil
	}
	return result, nil
}

// similarityPayload mirrors the model's JSON object. Pointers distinguish
// missing fields from zero values.
type similarityPayload struct {
	SimilarityScore *float64 `json:"similarity_score"`
	IsSupporting    *bool    `json:"is_supporting"`
	Explanation     *string  `json:"explanation"`
}

func (a *SimilarityAnalyzer) analyzeWithModel(ctx context.Context, claim string, source *model.Source) (model.SimilarityResult, error) {
	req := llm.Request{
		System:      similaritySystemPrompt,
		Prompt:      fmt.Sprintf(similarityPromptTemplate, claim, source.Snippet),
		MaxTokens:   500,
		Temperature: 0.3,
	}

	resp, err := a.provider.Complete(ctx, req)
	if err != nil {
		return model.SimilarityResult{}, err
	}

	// Backend text is untrusted: strict JSON parse with per-field type and
	// range validation, never evaluated or implicitly typed.
	var payload similarityPayload
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Content)), &payload); err != nil {
		return model.SimilarityResult{}, fmt.Errorf("response is not a JSON object: %w", err)
	}
	if payload.SimilarityScore == nil || payload.IsSupporting == nil || payload.Explanation == nil {
		return model.SimilarityResult{}, fmt.Errorf("response missing similarity_score, is_supporting or explanation")
	}
	score := *payload.SimilarityScore
	if score < 0 || score > 1 {
		return model.SimilarityResult{}, fmt.Errorf("similarity_score %v out of range [0,1]", score)
	}

	explanation := *payload.Explanation

	// Model judgments can under-score paraphrased-but-true matches. When
	// the score is low but the texts share terms, raise it by 0.1 per
	// overlapping term, capped at 0.5, and note the adjustment.
	if score < supportThreshold {
		overlap := a.seg.Overlap(claim, source.Snippet)
		if overlap > 0 {
			score = math.Min(0.5, score+float64(overlap)*0.1)
			explanation += fmt.Sprintf("\n由于存在%d个重叠关键词，相似度分数已适当调整。", overlap)
		}
	}

	// is_supporting is always recomputed from the (possibly corrected)
	// score, overriding whatever the model returned.
	return model.SimilarityResult{
		SimilarityScore: score,
		IsSupporting:    score > supportThreshold,
		Explanation:     explanation,
	}, nil
}

// analyzeBasic computes the deterministic overlap-based score: 0.1 per
// shared term, capped at 0.5.
func (a *SimilarityAnalyzer) analyzeBasic(claim string, source *model.Source) model.SimilarityResult {
	overlap := a.seg.Overlap(claim, source.Snippet)
	score := math.Min(0.5, float64(overlap)*0.1)

	return model.SimilarityResult{
		SimilarityScore: score,
		IsSupporting:    score > supportThreshold,
		Explanation:     fmt.Sprintf("基本相似度得分：%.2f，包含%d个重叠关键词", score, overlap),
	}
}
