package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client reads devices and sensor data from the ingest API
type Client struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewClient creates a new ingest API client
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ListDevices fetches the device list and normalizes each record to a name
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	var raw []json.RawMessage
	if err := c.getJSON(ctx, c.baseURL+"/devices", &raw); err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(raw))
	for _, record := range raw {
		name, ok := resolveDeviceName(record)
		if !ok {
			c.logger.Debug().
				RawJSON("record", record).
				Msg("Skipping device record with no usable name")
			continue
		}
		devices = append(devices, Device{Name: name})
	}
	return devices, nil
}

// dataResponse mirrors the data endpoint's envelope
type dataResponse struct {
	Data  []rawReading `json:"data"`
	Count int          `json:"count"`
}

// FetchReadings fetches up to limit recent readings for a device. The server
// returns rows most-recent-first; order is preserved.
func (c *Client) FetchReadings(ctx context.Context, device string, limit int) ([]Reading, error) {
	endpoint := fmt.Sprintf("%s/devices/%s/data?limit=%d",
		c.baseURL, url.PathEscape(device), limit)

	var resp dataResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	readings := make([]Reading, 0, len(resp.Data))
	for _, rr := range resp.Data {
		readings = append(readings, rr.normalize())
	}
	return readings, nil
}

// getJSON performs a GET and decodes the JSON body into out
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %d from %s", ErrStatus, resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, endpoint, err)
	}
	return nil
}
