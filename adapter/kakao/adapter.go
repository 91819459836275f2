package kakao

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RichardKnop/petrag"
)

// Adapter talks to the Kakao Local REST API. It serves both geocoding and
// veterinary facility search.
type Adapter struct {
	apiKey     string
	baseURL    string
	category   string
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Adapter)

const (
	defaultBaseURL  = "https://dapi.kakao.com"
	defaultCategory = "동물병원"
	defaultTimeout  = 10 * time.Second

	// Limits imposed by the keyword search endpoint.
	maxRadius   = 20000
	maxPageSize = 15

	maxErrorBody = 512
)

func New(apiKey string, options ...Option) (*Adapter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("kakao api key: %w", petrag.ErrMissingCredentials)
	}

	a := &Adapter{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		category:   defaultCategory,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	a.logger.Sugar().With("base_url", a.baseURL, "category", a.category).Info("init kakao adapter")

	return a, nil
}

func WithBaseURL(baseURL string) Option {
	return func(a *Adapter) {
		a.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithCategory sets the keyword used for nearby searches.
func WithCategory(category string) Option {
	return func(a *Adapter) {
		a.category = category
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

const adapterName = "kakao"

func (a *Adapter) Name() string {
	return adapterName
}

func (a *Adapter) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("error creating kakao request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("kakao %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("kakao %s: unexpected status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding kakao response: %w", err)
	}
	return nil
}
