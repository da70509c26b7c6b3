package analyze

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/factguard/internal/llm"
	"github.com/ppiankov/factguard/internal/model"
	"github.com/ppiankov/factguard/internal/textutil"
)

// factThreshold is the confidence above which a text is reported as
// factual. Strict inequality.
const factThreshold = 0.6

// Localized user-facing messages for short-circuit and degraded paths.
const (
	msgNoSources     = "没有提供任何来源进行验证。"
	msgNoClaims      = "文本中没有找到可验证的声明。"
	msgExtractError  = "提取声明时发生错误，请稍后重试。"
	msgExplainError  = "分析过程中出现错误，无法生成详细解释。"
	msgInternalError = "分析过程中发生错误，请稍后重试。"
)

// AnalysisService orchestrates the fact-checking pipeline: claim extraction,
// per-claim similarity scoring, confidence aggregation and explanation
// generation. It never propagates a failure to its caller; every failure
// mode produces a well-formed low-confidence response.
type AnalysisService struct {
	extractor  *ClaimExtractor
	analyzer   *SimilarityAnalyzer
	calculator *ConfidenceCalculator
	generator  *ExplanationGenerator
	verbose    bool
}

// NewAnalysisService wires the pipeline components around one shared
// provider handle. The provider's connection pool is the only resource
// shared between concurrent requests.
func NewAnalysisService(provider llm.Provider, seg *textutil.Segmenter, verbose bool) *AnalysisService {
	return &AnalysisService{
		extractor:  NewClaimExtractor(provider, seg),
		analyzer:   NewSimilarityAnalyzer(provider, seg),
		calculator: NewConfidenceCalculator(),
		generator:  NewExplanationGenerator(provider),
		verbose:    verbose,
	}
}

// AnalyzeText checks text against the candidate sources and assembles the
// final verdict.
func (s *AnalysisService) AnalyzeText(ctx context.Context, text string, sources []*model.Source) (resp *model.FactCheckResponse) {
	// Outermost boundary: anything unexpected becomes the same
	// zero-confidence error response instead of a fault.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Error: analysis pipeline panic: %v\n", r)
			resp = errorResponse(msgInternalError)
		}
	}()

	if len(sources) == 0 {
		return errorResponse(msgNoSources)
	}

	claims, err := s.extractor.ExtractClaims(ctx, text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: claim extraction failed: %v\n", err)
		return errorResponse(msgExtractError)
	}
	if len(claims) == 0 {
		return errorResponse(msgNoClaims)
	}
	s.logf("提取出 %d 个声明\n", len(claims))

	var verifiedSources []*model.Source
	sourceContributions := make(map[string]float64)
	claimScores := make(map[string]model.ClaimScore)

	for _, claim := range claims {
		best, claimSources, details, err := s.scoreClaim(ctx, claim, sources, sourceContributions)
		if err != nil {
			// The claim records zero support; the loop continues.
			fmt.Fprintf(os.Stderr, "Error: scoring claim %q failed: %v\n", claim.Text, err)
			claimScores[claim.Text] = model.ClaimScore{}
			continue
		}

		if len(claimSources) > 0 {
			// Cross-claim duplicates are appended deliberately: a source
			// supporting several claims appears once per claim.
			verifiedSources = append(verifiedSources, claimSources...)
			claimScores[claim.Text] = model.ClaimScore{
				TotalScore:    best,
				SourceCount:   len(claimSources),
				SourceDetails: details,
			}
			s.logf("声明 %q 最终得分: %.2f，支持来源数量: %d\n", claim.Text, best, len(claimSources))
		} else {
			claimScores[claim.Text] = model.ClaimScore{}
			s.logf("未找到支持声明 %q 的来源\n", claim.Text)
		}
	}

	confidence := s.safeConfidence(claims, verifiedSources, claimScores)

	// Contribution scores are only meaningful now that aggregation is done.
	for _, source := range verifiedSources {
		source.ContributionScore = sourceContributions[source.Title]
	}

	explanation := s.safeExplanation(ctx, confidence, len(verifiedSources))

	s.logf("分析完成。最终置信度: %.2f，已验证的来源数量: %d\n", confidence, len(verifiedSources))

	academic := []*model.Source{}
	for _, source := range verifiedSources {
		if source.SourceType == model.SourceTypeAcademic {
			academic = append(academic, source)
		}
	}
	if verifiedSources == nil {
		verifiedSources = []*model.Source{}
	}

	return &model.FactCheckResponse{
		IsFact:          confidence > factThreshold,
		Confidence:      confidence,
		Explanation:     explanation,
		Sources:         verifiedSources,
		AcademicSources: academic,
	}
}

// scoreClaim evaluates one claim against every candidate source. A failure
// on a single (claim, source) pair skips that pair; a failure covering the
// whole claim is reported to the caller, which records zero support.
func (s *AnalysisService) scoreClaim(
	ctx context.Context,
	claim model.Claim,
	sources []*model.Source,
	sourceContributions map[string]float64,
) (best float64, claimSources []*model.Source, details []model.SourceScoreDetail, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("claim scoring panic: %v", r)
		}
	}()

	for _, source := range sources {
		result, aerr := s.analyzer.AnalyzeSimilarity(ctx, claim.Text, source)
		if aerr != nil {
			// Pair-level failure: treated as non-supporting.
			fmt.Fprintf(os.Stderr, "Error: analyzing source %q failed: %v\n", source.Title, aerr)
			continue
		}
		if !result.IsSupporting {
			continue
		}

		// Source-type weighting for the contribution bookkeeping only; the
		// claim's best similarity stays unweighted.
		contribution := result.SimilarityScore
		switch source.SourceType {
		case model.SourceTypeAcademic:
			contribution *= 1.2
		case model.SourceTypeGovernment:
			contribution *= 1.1
		}

		// Track the maximum contribution ever attributed to this title
		// across all claims. Max is commutative and associative, so the
		// reduction is order-independent.
		if cur, ok := sourceContributions[source.Title]; !ok || contribution > cur {
			sourceContributions[source.Title] = contribution
		}

		if result.SimilarityScore > best {
			best = result.SimilarityScore
		}

		// Within one claim the same source instance is counted once,
		// de-duplicated by identity.
		if !containsSource(claimSources, source) {
			claimSources = append(claimSources, source)
			details = append(details, model.SourceScoreDetail{
				Source: source.Title,
				Score:  contribution,
				Type:   source.SourceType,
			})
		}
	}

	return best, claimSources, details, nil
}

// safeConfidence guards the aggregation step: an unexpected failure yields
// 0.0 and the pipeline continues.
func (s *AnalysisService) safeConfidence(claims []model.Claim, verified []*model.Source, scores map[string]model.ClaimScore) (confidence float64) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Error: confidence calculation failed: %v\n", r)
			confidence = 0.0
		}
	}()
	return s.calculator.CalculateConfidence(claims, verified, scores)
}

// safeExplanation guards explanation generation with the fixed degraded
// message.
func (s *AnalysisService) safeExplanation(ctx context.Context, confidence float64, numSources int) (explanation string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Error: explanation generation failed: %v\n", r)
			explanation = msgExplainError
		}
	}()
	return s.generator.GenerateExplanation(ctx, confidence, numSources)
}

func (s *AnalysisService) logf(format string, args ...interface{}) {
	if s.verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func containsSource(sources []*model.Source, target *model.Source) bool {
	for _, s := range sources {
		if s == target {
			return true
		}
	}
	return false
}

func errorResponse(message string) *model.FactCheckResponse {
	return &model.FactCheckResponse{
		IsFact:          false,
		Confidence:      0.0,
		Explanation:     message,
		Sources:         []*model.Source{},
		AcademicSources: []*model.Source{},
	}
}
