package save

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	apierrors "github.com/lifeos/agent-api/internal/errors"
	"github.com/lifeos/agent-api/internal/logger"
)

const defaultRequestTimeout = 15 * time.Second

// RecordsClient posts extracted drafts to the records API.
type RecordsClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewRecordsClient(baseURL string, log *logger.Logger) *RecordsClient {
	return &RecordsClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		logger:     log.WithComponent("records-client"),
	}
}

// Create posts a draft to the given records endpoint path (for example
// "/api/v1/meal-plans"). A 422 response is decoded into a
// *apierrors.ValidationError so callers can surface field messages.
func (c *RecordsClient) Create(ctx context.Context, path string, draft any) error {
	body, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("records request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnprocessableEntity:
		var ve apierrors.ValidationError
		if err := json.NewDecoder(resp.Body).Decode(&ve); err != nil || len(ve.Errors) == 0 {
			return fmt.Errorf("records rejected draft with status 422")
		}
		return &ve
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("records API returned unexpected status",
			slog.Int("status", resp.StatusCode),
			slog.String("path", path),
			slog.String("body", string(snippet)))
		return fmt.Errorf("records API returned status %d", resp.StatusCode)
	}
}
