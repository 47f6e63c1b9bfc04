package economy

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-league/internal/platform/logging"
	"github.com/riskibarqy/club-league/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

var errEconomyTransient = crerr.New("economy transient failure")

type ClientConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client posts match credits and debits to the platform's economy service.
// Reason tags double as idempotency keys, so retried postings never pay a
// participant twice.
type Client struct {
	client         *fasthttp.Client
	baseURL        string
	apiKey         string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig, logger *logging.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type postingPayload struct {
	ParticipantRef string `json:"participant_ref"`
	Amount         int64  `json:"amount"`
	ReasonTag      string `json:"reason_tag"`
}

func (c *Client) CreditParticipant(ctx context.Context, participantRef string, amount int64, reasonTag string) error {
	return c.post(ctx, "/v1/ledger/credits", participantRef, amount, reasonTag)
}

func (c *Client) DebitParticipant(ctx context.Context, participantRef string, amount int64, reasonTag string) error {
	return c.post(ctx, "/v1/ledger/debits", participantRef, amount, reasonTag)
}

func (c *Client) post(ctx context.Context, path, participantRef string, amount int64, reasonTag string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "economy circuit breaker rejected request", "state", string(c.breaker.State()))
			return fmt.Errorf("economy service is temporarily unavailable: %w", err)
		}
	}

	participantRef = strings.TrimSpace(participantRef)
	if participantRef == "" {
		return crerr.New("participant ref is required")
	}
	if amount <= 0 {
		return crerr.Newf("posting amount must be positive, got %d", amount)
	}
	if strings.TrimSpace(reasonTag) == "" {
		return crerr.New("reason tag is required")
	}

	baseURL, err := validateHTTPBaseURL(c.baseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid ECONOMY_BASE_URL")
	}
	postingURL := baseURL + path

	body, err := sonic.Marshal(postingPayload{
		ParticipantRef: participantRef,
		Amount:         amount,
		ReasonTag:      reasonTag,
	})
	if err != nil {
		return crerr.Wrap(err, "marshal ledger posting")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(postingURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Idempotency-Key", strings.TrimSpace(reasonTag))
	req.SetBody(body)

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		callErr := fmt.Errorf("%w: post ledger entry url=%s: %v", errEconomyTransient, postingURL, err)
		c.recordCircuitResult(callErr)
		return callErr
	}

	statusCode := resp.StatusCode()
	if statusCode/100 != 2 {
		snippet := responseSnippet(resp)
		if isRetryableStatus(statusCode) {
			callErr := fmt.Errorf("%w: post ledger entry status=%d url=%s body=%s", errEconomyTransient, statusCode, postingURL, snippet)
			c.recordCircuitResult(callErr)
			return callErr
		}

		callErr := fmt.Errorf("post ledger entry status=%d url=%s body=%s", statusCode, postingURL, snippet)
		c.recordCircuitResult(callErr)
		return callErr
	}

	c.logger.InfoContext(ctx, "ledger entry posted",
		"path", path,
		"participant_ref", participantRef,
		"amount", amount,
		"reason_tag", reasonTag,
	)
	c.recordCircuitResult(nil)
	return nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errEconomyTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func responseSnippet(resp *fasthttp.Response) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	body := resp.Body()
	if len(body) > 4096 {
		body = body[:4096]
	}
	_, _ = buf.Write(body)

	return strings.TrimSpace(buf.String())
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}
