// Package analyze implements the fact-checking core: claim extraction,
// claim-source similarity scoring, confidence aggregation, explanation
// generation and the orchestrating analysis service.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/factguard/internal/llm"
	"github.com/ppiankov/factguard/internal/model"
	"github.com/ppiankov/factguard/internal/textutil"
)

const extractionMaxRetries = 3

const extractSystemPrompt = "你是一个事实核查助手。请从给定文本中提取可验证的事实声明，并评估每个声明的不常见程度。"

const extractPromptTemplate = `请分析以下文本并提取可以验证的关键事实声明。
对于每个声明，请专注于具体的、可验证的陈述，而不是观点或一般性陈述。
如果有代词请根据上下文进行替换，比如这类儿童需要替代为具体的人群。
返回的声明要有具体的意义，不要是一些没有意义的名词或标点。
对于每个声明，请评估其不常见程度（0-100的整数），其中：
- 0-30: 非常常见的事实
- 31-60: 一般常见的事实
- 61-100: 不常见或独特的事实
请以JSON数组的形式返回，每个元素是一个对象，包含claim（声明）和uncommonness（不常见程度）两个字段。

要分析的文本：
%s

请只返回JSON数组，不要包含其他文本。`

// ClaimExtractor turns raw text into a list of atomic, verifiable claims.
// The primary path is a streamed model completion; any failure degrades to
// sentence-segmentation heuristics, which cannot fail.
type ClaimExtractor struct {
	provider llm.Provider
	seg      *textutil.Segmenter
}

// NewClaimExtractor creates a new claim extractor. A nil provider disables
// the model path entirely.
func NewClaimExtractor(provider llm.Provider, seg *textutil.Segmenter) *ClaimExtractor {
	return &ClaimExtractor{
		provider: provider,
		seg:      seg,
	}
}

// ExtractClaims extracts verifiable claims from text. The returned error is
// reserved for unexpected internal failures; backend and parse failures are
// absorbed by the fallback, so the list may be empty but extraction itself
// does not fail.
func (e *ClaimExtractor) ExtractClaims(ctx context.Context, text string) ([]model.Claim, error) {
	if e.provider == nil {
		return e.extractBasic(text), nil
	}

	content, err := e.streamWithRetries(ctx, text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: claim extraction stream failed, using sentence segmentation: %v\n", err)
		return e.extractBasic(text), nil
	}

	claims, err := parseClaims(content)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: claim extraction response invalid, using sentence segmentation: %v\n", err)
		return e.extractBasic(text), nil
	}
	if len(claims) == 0 {
		return e.extractBasic(text), nil
	}
	return claims, nil
}

// streamWithRetries issues the streamed extraction call up to three times.
// Each retry opens a brand-new stream; partial fragments from a failed
// attempt are discarded. An attempt that completes without a completion
// signal counts against the budget like any other stream failure.
func (e *ClaimExtractor) streamWithRetries(ctx context.Context, text string) (string, error) {
	req := llm.Request{
		System:      extractSystemPrompt,
		Prompt:      fmt.Sprintf(extractPromptTemplate, text),
		MaxTokens:   500,
		Temperature: 0.3,
	}

	var lastErr error
	for attempt := 1; attempt <= extractionMaxRetries; attempt++ {
		content, err := e.provider.CompleteStream(ctx, req)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if attempt < extractionMaxRetries {
			fmt.Fprintf(os.Stderr, "Warning: extraction stream attempt %d/%d failed: %v\n", attempt, extractionMaxRetries, err)
		}
	}
	return "", fmt.Errorf("no complete response after %d attempts: %w", extractionMaxRetries, lastErr)
}

// claimPayload mirrors one element of the model's JSON array. Pointers let
// missing fields be distinguished from zero values during validation.
type claimPayload struct {
	Claim        *string  `json:"claim"`
	Uncommonness *float64 `json:"uncommonness"`
}

// parseClaims parses and validates the reassembled model response. The top
// level must be a JSON array; every item must carry a claim string and a
// numeric uncommonness in [0,100]. Anything else rejects the whole response.
func parseClaims(content string) ([]model.Claim, error) {
	content = stripCodeFence(content)

	var payload []claimPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("response is not a JSON array of claims: %w", err)
	}

	claims := make([]model.Claim, 0, len(payload))
	for i, item := range payload {
		if item.Claim == nil || item.Uncommonness == nil {
			return nil, fmt.Errorf("item %d missing claim or uncommonness field", i)
		}
		u := *item.Uncommonness
		if u < 0 || u > 100 {
			return nil, fmt.Errorf("item %d uncommonness %v out of range [0,100]", i, u)
		}
		claims = append(claims, model.Claim{
			Text:         *item.Claim,
			Uncommonness: int(u),
			Tag:          model.TagForUncommonness(int(u)),
		})
	}
	return claims, nil
}

// stripCodeFence removes a Markdown code-fence wrapper if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractBasic is the deterministic fallback: sentence-segment the text and
// keep sentences long enough to carry a verifiable statement. Questions are
// discarded. Every surviving sentence becomes a claim with the default
// uncommonness.
func (e *ClaimExtractor) extractBasic(text string) []model.Claim {
	cjk := textutil.ContainsCJK(text)
	claims := []model.Claim{}
	for _, sentence := range textutil.SplitSentences(text) {
		if strings.HasSuffix(sentence, "?") || strings.HasSuffix(sentence, "？") {
			continue
		}
		statement := strings.TrimSpace(strings.TrimRight(sentence, textutil.SentenceTerminators))
		if statement == "" {
			continue
		}
		if cjk {
			if len(e.seg.Tokens(statement)) <= 3 {
				continue
			}
		} else {
			if len(strings.Fields(statement)) <= 5 {
				continue
			}
		}
		claims = append(claims, model.Claim{
			Text:         statement,
			Uncommonness: model.DefaultUncommonness,
			Tag:          model.TagQuestionable,
		})
	}
	return claims
}
