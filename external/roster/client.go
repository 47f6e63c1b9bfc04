package roster

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/club-league/internal/platform/logging"
)

// Client resolves a participant's roster strength from the squad service.
// The match simulator treats any failure here as a hard stop for human
// clubs, so the client stays simple and lets callers decide on fallbacks.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
}

func NewClient(httpClient *http.Client, baseURL, apiKey string, logger *logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		logger:     logger,
	}
}

func (c *Client) RosterStrength(ctx context.Context, participantRef string) (float64, error) {
	participantRef = strings.TrimSpace(participantRef)
	if participantRef == "" {
		return 0, fmt.Errorf("participant ref is required")
	}

	strengthURL := fmt.Sprintf("%s/v1/participants/%s/roster/strength", c.baseURL, participantRef)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strengthURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create roster strength request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request roster strength: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("read roster strength response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "roster strength non-200",
			"status_code", resp.StatusCode,
			"participant_ref", participantRef,
		)
		return 0, fmt.Errorf("roster strength request failed with status %d", resp.StatusCode)
	}

	var decoded strengthResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return 0, fmt.Errorf("unmarshal roster strength response: %w", err)
	}
	if decoded.Strength < 0 {
		return 0, fmt.Errorf("invalid roster strength %f", decoded.Strength)
	}

	return decoded.Strength, nil
}

type strengthResponse struct {
	ParticipantRef string  `json:"participant_ref"`
	Strength       float64 `json:"strength"`
}
