package sofascore

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"github.com/riskibarqy/quiniela/internal/platform/resilience"
	"github.com/riskibarqy/quiniela/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultBaseURL      = "https://api.sofascore.com/api/v1"
	defaultTimeout      = 15 * time.Second
	defaultUserAgent    = "quiniela-sync/1.0"
	maxResponseBodySize = 4 << 20
)

var (
	errSofaScoreTransient = crerr.New("sofascore transient failure")
	errNotFound           = crerr.New("sofascore resource not found")
)

// emptyRound is what a round the provider does not know yet looks like to callers.
var emptyRound = []byte(`{"events":[]}`)

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	TournamentID   int64
	SeasonID       int64
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Clock          clockwork.Clock
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	tournamentID   int64
	seasonID       int64
	timeout        time.Duration
	retry          resilience.RetryPolicy
	clock          clockwork.Clock
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                defaultUserAgent,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBodySize,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		tournamentID:   cfg.TournamentID,
		seasonID:       cfg.SeasonID,
		timeout:        timeout,
		retry:          resilience.RetryPolicy{MaxRetries: max(cfg.MaxRetries, 0), Backoff: cfg.RetryBackoff},
		clock:          clock,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg, clock),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchRoundEvents returns the raw {"events": [...]} document of one round of the configured
// tournament season. A round the provider answers with 404 comes back with no events.
func (c *Client) FetchRoundEvents(ctx context.Context, roundNumber int) ([]byte, error) {
	if roundNumber <= 0 {
		return nil, fmt.Errorf("round number must be greater than zero")
	}
	if c.tournamentID <= 0 || c.seasonID <= 0 {
		return nil, fmt.Errorf("%w: sofascore tournament and season are not configured", usecase.ErrDependencyUnavailable)
	}

	path := fmt.Sprintf("/unique-tournament/%d/season/%d/events/round/%d", c.tournamentID, c.seasonID, roundNumber)
	raw, err := c.get(ctx, path)
	if err != nil {
		if stderrors.Is(err, errNotFound) {
			return append([]byte(nil), emptyRound...), nil
		}
		return nil, fmt.Errorf("fetch round=%d: %w", roundNumber, err)
	}

	var doc struct {
		Events []any `json:"events"`
	}
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode round=%d payload: %w", roundNumber, err)
	}
	return raw, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sofascore circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: results provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, c.baseURL+path)
		c.recordCircuitResult(reqErr)
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var body []byte
	err := resilience.Retry(ctx, c.clock, c.retry, func(attempt int) error {
		raw, reqErr := c.doRequest(ctx, fullURL)
		if reqErr != nil {
			if !isSofaScoreCircuitFailure(reqErr) {
				return resilience.Permanent(reqErr)
			}
			c.logger.DebugContext(ctx, "sofascore request attempt failed", "attempt", attempt, "error", reqErr)
			return reqErr
		}
		body = raw
		return nil
	})
	if err != nil {
		if !stderrors.Is(err, errNotFound) {
			c.logger.WarnContext(ctx, "sofascore request failed", "url", fullURL, "error", err)
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.SetUserAgent(defaultUserAgent)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		if stderrors.Is(err, fasthttp.ErrBodyTooLarge) {
			return nil, fmt.Errorf("provider response exceeds %d bytes", maxResponseBodySize)
		}
		return nil, fmt.Errorf("%w: send request: %v", errSofaScoreTransient, err)
	}

	status := resp.StatusCode()
	raw := append([]byte(nil), resp.Body()...)
	switch {
	case status >= 200 && status < 300:
		return raw, nil
	case status == fasthttp.StatusNotFound:
		return nil, errNotFound
	case isRetryableStatus(status):
		return nil, fmt.Errorf("%w: provider status=%d body=%s", errSofaScoreTransient, status, abbreviateBody(raw))
	default:
		return nil, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(raw))
	}
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled {
		return
	}
	if err != nil && isSofaScoreCircuitFailure(err) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isSofaScoreCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errSofaScoreTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
