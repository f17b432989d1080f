package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"student-app/internal/domain"
)

const maxBodyBytes = 8 << 20

// Client fetches module documents from the content API: GET {baseURL}/module/{id}.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchModule downloads and decodes one module. Any transport, status or decode failure
// is returned as an error; callers treat it as "no module available". A body without a
// module id yields (nil, nil).
func (c *Client) FetchModule(ctx context.Context, moduleID domain.ID) (*domain.ModuleDocument, error) {
	url := fmt.Sprintf("%s/module/%s", c.baseURL, moduleID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch module %s: %w", moduleID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch module %s: unexpected status %d", moduleID, resp.StatusCode)
	}

	var doc domain.ModuleDocument
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode module %s: %w", moduleID, err)
	}
	// A null or empty body means the API has no module to give.
	if doc.ID == 0 {
		return nil, nil
	}
	return &doc, nil
}
