package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	serverURL string

	// Query command flags
	mode        string
	limit       int
	sectionPath string
	source      string
	docsVersion string
	rerank      bool
	rawJSON     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "searchctl",
	Short:   "Query a running search-orchestrator",
	Version: version,
}

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Run a search query",
	Long: `Run a search query against the orchestrator.

Examples:
  # Hybrid search with defaults
  searchctl query "vector search"

  # Keyword-only search against an exact docs version
  searchctl query "configuration" --mode keyword --docs-version 0.25.1

  # Skip reranking and print the raw envelope
  searchctl query "indexing" --rerank=false --json`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the resolved latest docs version",
	RunE:  showLatest,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("SEARCHCTL_SERVER", "http://localhost:9020"), "orchestrator base URL")

	queryCmd.Flags().StringVar(&mode, "mode", "", "retrieval mode: keyword, semantic or hybrid")
	queryCmd.Flags().IntVar(&limit, "limit", 0, "maximum results (1-50)")
	queryCmd.Flags().StringVar(&sectionPath, "section-path", "", "restrict to a section path")
	queryCmd.Flags().StringVar(&source, "source", "", "restrict to a source")
	queryCmd.Flags().StringVar(&docsVersion, "docs-version", "", "version selector: latest, all or an exact version")
	queryCmd.Flags().BoolVar(&rerank, "rerank", true, "apply cross-encoder reranking")
	queryCmd.Flags().BoolVar(&rawJSON, "json", false, "print the raw response envelope")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(latestCmd)
}

type resultView struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Snippet     string   `json:"snippet"`
	KeywordRank *int     `json:"keyword_rank"`
	VectorRank  *int     `json:"vector_rank"`
	RRFScore    *float64 `json:"rrf_score"`
	RerankScore *float64 `json:"rerank_score"`
}

type envelopeView struct {
	RerankApplied bool         `json:"rerank_applied"`
	Warnings      []string     `json:"warnings"`
	Results       []resultView `json:"results"`
	TimingsMs     struct {
		Total int64 `json:"total"`
	} `json:"timings_ms"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	params := url.Values{}
	params.Set("q", args[0])
	params.Set("rerank", strconv.FormatBool(rerank))
	if mode != "" {
		params.Set("mode", mode)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if sectionPath != "" {
		params.Set("section_path", sectionPath)
	}
	if source != "" {
		params.Set("source", source)
	}
	if docsVersion != "" {
		params.Set("version", docsVersion)
	}

	body, err := get(fmt.Sprintf("%s/v1/search?%s", serverURL, params.Encode()))
	if err != nil {
		return err
	}

	if rawJSON {
		fmt.Println(string(body))
		return nil
	}

	var envelope envelopeView
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	for _, w := range envelope.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for i, r := range envelope.Results {
		fmt.Printf("%2d. %s\n    %s\n", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Printf("    %s\n", r.Snippet)
		}
		fmt.Printf("    %s\n", formatSignals(r))
	}
	fmt.Printf("%d results in %dms (rerank_applied=%v)\n",
		len(envelope.Results), envelope.TimingsMs.Total, envelope.RerankApplied)
	return nil
}

func showLatest(cmd *cobra.Command, args []string) error {
	body, err := get(fmt.Sprintf("%s/v1/versions/latest", serverURL))
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}

func get(target string) ([]byte, error) {
	client := &http.Client{Timeout: 35 * time.Second}
	resp, err := client.Get(target)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func formatSignals(r resultView) string {
	s := ""
	if r.KeywordRank != nil {
		s += fmt.Sprintf("kw=%d ", *r.KeywordRank)
	}
	if r.VectorRank != nil {
		s += fmt.Sprintf("vec=%d ", *r.VectorRank)
	}
	if r.RRFScore != nil {
		s += fmt.Sprintf("rrf=%.5f ", *r.RRFScore)
	}
	if r.RerankScore != nil {
		s += fmt.Sprintf("rerank=%.4f", *r.RerankScore)
	}
	return s
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
