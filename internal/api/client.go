package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Backend is the persistence collaborator the UI talks to. The demo server
// and test fakes implement it alongside the HTTP client.
type Backend interface {
	FetchCalendar(ctx context.Context) (*Calendar, error)
	FetchBlocks(ctx context.Context, from, to time.Time) ([]Block, error)
	CreateBlock(ctx context.Context, create BlockCreate) (*Block, error)
	UpdateAppointment(ctx context.Context, id string, update AppointmentUpdate) (*Appointment, error)
	UpdateBlock(ctx context.Context, id string, update BlockUpdate) (*Block, error)
}

// StatusError is a non-2xx backend response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Body)
}

// Client talks to the booking backend over HTTP.
type Client struct {
	BaseURL string
	Token   string

	httpClient *http.Client
}

// NewClient builds a client for the given base URL. Token may be empty for
// backends that do not require auth (the bundled demo server).
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) FetchCalendar(ctx context.Context) (*Calendar, error) {
	var cal Calendar
	if err := c.do(ctx, http.MethodGet, "/api/calendar", nil, &cal); err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}
	return &cal, nil
}

func (c *Client) FetchBlocks(ctx context.Context, from, to time.Time) ([]Block, error) {
	q := url.Values{}
	q.Set("from", FormatInstant(from))
	q.Set("to", FormatInstant(to))

	var blocks []Block
	if err := c.do(ctx, http.MethodGet, "/api/blocks?"+q.Encode(), nil, &blocks); err != nil {
		return nil, fmt.Errorf("fetch blocks: %w", err)
	}
	return blocks, nil
}

func (c *Client) CreateBlock(ctx context.Context, create BlockCreate) (*Block, error) {
	var block Block
	if err := c.do(ctx, http.MethodPost, "/api/blocks", create, &block); err != nil {
		return nil, fmt.Errorf("create block: %w", err)
	}
	return &block, nil
}

func (c *Client) UpdateAppointment(ctx context.Context, id string, update AppointmentUpdate) (*Appointment, error) {
	var appt Appointment
	path := "/api/appointments/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, path, update, &appt); err != nil {
		return nil, fmt.Errorf("update appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (c *Client) UpdateBlock(ctx context.Context, id string, update BlockUpdate) (*Block, error) {
	var block Block
	path := "/api/blocks/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, path, update, &block); err != nil {
		return nil, fmt.Errorf("update block %s: %w", id, err)
	}
	return &block, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
