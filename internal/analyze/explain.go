package analyze

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/factguard/internal/llm"
)

const explainSystemPrompt = "你是一个事实核查助手。请用清晰简洁的中文生成事实核查结果说明。"

const explainPromptTemplate = `请用中文生成一个清晰简洁的事实核查结果说明。
请包含以下信息：
- 整体可靠性评估
- 置信度
- 支持来源数量

请使用自然、易懂的中文表达。

结果：
- 置信度：%.2f
- 支持来源：%d

请只返回说明文本，不要包含其他格式。`

// ExplanationGenerator converts the scalar confidence and source count into
// a human-readable rationale, via model phrasing with a fixed-bucket
// fallback template.
type ExplanationGenerator struct {
	provider llm.Provider
}

// NewExplanationGenerator creates a new explanation generator.
func NewExplanationGenerator(provider llm.Provider) *ExplanationGenerator {
	return &ExplanationGenerator{provider: provider}
}

// GenerateExplanation produces the user-facing explanation. Never fails:
// any model failure degrades to the bucket template.
func (g *ExplanationGenerator) GenerateExplanation(ctx context.Context, confidence float64, numSources int) string {
	if g.provider == nil {
		return basicExplanation(confidence, numSources)
	}

	resp, err := g.provider.Complete(ctx, llm.Request{
		System:      explainSystemPrompt,
		Prompt:      fmt.Sprintf(explainPromptTemplate, confidence, numSources),
		MaxTokens:   500,
		Temperature: 0.3,
	})
	if err != nil || resp.Content == "" {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: explanation generation fell back to template: %v\n", err)
		}
		return basicExplanation(confidence, numSources)
	}
	return resp.Content
}

// basicExplanation is the fixed-bucket fallback.
func basicExplanation(confidence float64, numSources int) string {
	var base string
	switch {
	case confidence > 0.8:
		base = "这条信息高度可靠"
	case confidence > 0.6:
		base = "这条信息基本可靠"
	case confidence > 0.4:
		base = "这条信息的可靠性存在争议"
	default:
		base = "这条信息不可靠"
	}

	return fmt.Sprintf("%s，置信度为%.1f%%。有%d个来源支持。", base, confidence*100, numSources)
}
