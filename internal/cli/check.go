package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/factguard/internal/analyze"
	"github.com/ppiankov/factguard/internal/llm"
	"github.com/ppiankov/factguard/internal/model"
	"github.com/ppiankov/factguard/internal/search"
	"github.com/ppiankov/factguard/internal/textutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outJSON      string
	checkTimeout time.Duration
	noCache      bool
	withScholar  bool
	llmProvider  string
	llmModel     string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <text>",
	Short: "Fact-check a piece of text against external sources",
	Long: `Check runs the full fact-checking pipeline on the given text:
- Extract verifiable claims (with uncommonness scores and plausibility tags)
- Retrieve candidate sources from the configured connectors
- Score every claim against every source for semantic support
- Aggregate into an overall confidence verdict with citations

Example:
  factguard check "长城是明代修建的防御工事。"
  factguard check "The Great Wall was built during the Ming dynasty." --json result.json
  factguard check "..." --llm-provider deepseek --scholar`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&outJSON, "json", "", "write full result JSON to this path")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Minute, "overall check timeout")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable search result cache")
	checkCmd.Flags().BoolVar(&withScholar, "scholar", false, "enable the Google Scholar scraping connector")
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, deepseek, ollama, anthropic)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	text := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	cfg := buildConfig()
	if noCache {
		cfg.Cache.Enabled = false
	}
	if withScholar {
		cfg.Search.EnableScholar = true
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	analysis, searcher, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking text (%d bytes), provider: %s\n", len(text), cfg.LLM.Provider)
	}

	sources := searcher.SearchAll(ctx, text)
	result := analysis.AnalyzeText(ctx, text, sources)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if outJSON != "" {
		if err := os.WriteFile(outJSON, data, 0644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}

	fmt.Println(string(data))
	return nil
}

// buildConfig merges defaults, config file and environment.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid configuration, using defaults: %v\n", err)
		cfg = model.DefaultConfig()
	}
	cfg.Output.Verbose = verbose

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = llm.APIKeyFromEnv(cfg.LLM.Provider)
	}
	if cfg.Search.GoogleAPIKey == "" {
		cfg.Search.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if cfg.Search.GoogleCSEID == "" {
		cfg.Search.GoogleCSEID = os.Getenv("GOOGLE_CSE_ID")
	}
	if cfg.Search.NewsAPIKey == "" {
		cfg.Search.NewsAPIKey = os.Getenv("NEWS_API_KEY")
	}
	if cfg.Search.SemanticScholarAPIKey == "" {
		cfg.Search.SemanticScholarAPIKey = os.Getenv("SEMANTIC_SCHOLAR_API_KEY")
	}

	return cfg
}

// buildPipeline assembles the analysis and search services for a config.
func buildPipeline(cfg *model.Config) (*analyze.AnalysisService, *search.Service, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		return nil, nil, fmt.Errorf("initialize LLM provider: %w", err)
	}
	if provider == nil {
		fmt.Fprintln(os.Stderr, "Warning: no LLM provider configured, running on deterministic fallbacks")
	}

	seg, err := textutil.NewSegmenter()
	if err != nil {
		return nil, nil, fmt.Errorf("initialize segmenter: %w", err)
	}

	analysis := analyze.NewAnalysisService(provider, seg, cfg.Output.Verbose)
	searcher := search.NewService(cfg)
	return analysis, searcher, nil
}
