package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RichardKnop/petrag"
)

type Adapter struct {
	apiKey      string
	baseURL     string
	searchDepth string
	httpClient  *http.Client
	logger      *zap.Logger
}

type Option func(*Adapter)

const (
	defaultBaseURL     = "https://api.tavily.com"
	defaultSearchDepth = "basic"
	defaultTimeout     = 15 * time.Second
	maxErrorBody       = 512
)

func New(apiKey string, options ...Option) (*Adapter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("tavily api key: %w", petrag.ErrMissingCredentials)
	}

	a := &Adapter{
		apiKey:      apiKey,
		baseURL:     defaultBaseURL,
		searchDepth: defaultSearchDepth,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		logger:      zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	a.logger.Sugar().With(
		"base_url", a.baseURL,
		"search_depth", a.searchDepth,
	).Info("init tavily adapter")

	return a, nil
}

func WithBaseURL(baseURL string) Option {
	return func(a *Adapter) {
		a.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithSearchDepth(depth string) Option {
	return func(a *Adapter) {
		a.searchDepth = depth
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) {
		a.httpClient = client
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

const adapterName = "tavily"

func (a *Adapter) Name() string {
	return adapterName
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Search runs a web search. The caller bounds the call with the context deadline.
func (a *Adapter) Search(ctx context.Context, query string, maxResults int) ([]petrag.Snippet, error) {
	body, err := json.Marshal(searchRequest{
		APIKey:      a.apiKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: a.searchDepth,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating tavily request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("tavily search: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("error decoding tavily response: %w", err)
	}

	snippets := make([]petrag.Snippet, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		snippets = append(snippets, petrag.Snippet{
			Title:         r.Title,
			Content:       r.Content,
			URL:           r.URL,
			RelevanceHint: r.Score,
		})
	}

	a.logger.Sugar().With("query", query, "results", len(snippets)).Debug("tavily search")

	return snippets, nil
}
