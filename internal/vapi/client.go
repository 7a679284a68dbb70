// Package vapi is the adapter for the upstream voice-assistant platform.
//
// Rules:
// - No upstream HTTP calls outside this package.
// - Keep request/response types upstream-agnostic at the API boundary;
//   payload quirks (field aliases, partial records) are resolved here.
package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"hotel-assistant-api/internal/config"
)

// ErrMalformed marks upstream payloads that are missing required fields.
// Callers treat it like any other upstream failure; it exists so logs can
// distinguish bad data from bad transport.
var ErrMalformed = errors.New("vapi: malformed response")

// ErrNotFound maps upstream 404s.
var ErrNotFound = errors.New("vapi: not found")

// API is the upstream surface the dashboard consumes.
type API interface {
	ListAssistants(ctx context.Context) ([]Assistant, error)
	GetAssistant(ctx context.Context, id string) (Assistant, error)
	DeleteAssistant(ctx context.Context, id string) error

	ListCalls(ctx context.Context, assistantID string) ([]Call, error)
	GetCall(ctx context.Context, id string) (CallDetail, error)

	ListPhoneNumbers(ctx context.Context) ([]PhoneNumber, error)
	CreatePhoneNumber(ctx context.Context, number, assistantID string) (PhoneNumber, error)
	UpdatePhoneNumber(ctx context.Context, id string, number, assistantID string) (PhoneNumber, error)
	DeletePhoneNumber(ctx context.Context, id string) error
}

// Client talks to the upstream REST API with a private bearer key.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ API = (*Client)(nil)

func NewClient(cfg config.VapiConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) ListAssistants(ctx context.Context) ([]Assistant, error) {
	var out []Assistant
	if err := c.do(ctx, http.MethodGet, "/assistant", nil, &out); err != nil {
		return nil, err
	}
	for _, a := range out {
		if a.ID == "" || a.Name == "" {
			return nil, fmt.Errorf("%w: assistant missing id or name", ErrMalformed)
		}
	}
	return out, nil
}

func (c *Client) GetAssistant(ctx context.Context, id string) (Assistant, error) {
	var out Assistant
	if err := c.do(ctx, http.MethodGet, "/assistant/"+url.PathEscape(id), nil, &out); err != nil {
		return Assistant{}, err
	}
	if out.ID == "" || out.Name == "" {
		return Assistant{}, fmt.Errorf("%w: assistant missing id or name", ErrMalformed)
	}
	return out, nil
}

func (c *Client) DeleteAssistant(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/assistant/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListCalls(ctx context.Context, assistantID string) ([]Call, error) {
	path := "/call"
	if assistantID != "" {
		path += "?assistantId=" + url.QueryEscape(assistantID)
	}
	var out []Call
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	for _, call := range out {
		if err := validateCall(call); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Client) GetCall(ctx context.Context, id string) (CallDetail, error) {
	var out CallDetail
	if err := c.do(ctx, http.MethodGet, "/call/"+url.PathEscape(id), nil, &out); err != nil {
		return CallDetail{}, err
	}
	// Detail payloads for queued or in-progress calls can be sparse; only the
	// id is required here.
	if out.ID == "" {
		return CallDetail{}, fmt.Errorf("%w: call missing id", ErrMalformed)
	}
	return out, nil
}

func (c *Client) ListPhoneNumbers(ctx context.Context) ([]PhoneNumber, error) {
	var out []PhoneNumber
	if err := c.do(ctx, http.MethodGet, "/phone-number", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type phoneNumberRequest struct {
	Number      string `json:"number,omitempty"`
	AssistantID string `json:"assistantId,omitempty"`
	Provider    string `json:"provider,omitempty"`
}

func (c *Client) CreatePhoneNumber(ctx context.Context, number, assistantID string) (PhoneNumber, error) {
	// Only Twilio-backed numbers are supported.
	body := phoneNumberRequest{Number: number, AssistantID: assistantID, Provider: "twilio"}
	var out PhoneNumber
	if err := c.do(ctx, http.MethodPost, "/phone-number", body, &out); err != nil {
		return PhoneNumber{}, err
	}
	return out, nil
}

func (c *Client) UpdatePhoneNumber(ctx context.Context, id string, number, assistantID string) (PhoneNumber, error) {
	body := phoneNumberRequest{Number: number, AssistantID: assistantID}
	var out PhoneNumber
	if err := c.do(ctx, http.MethodPatch, "/phone-number/"+url.PathEscape(id), body, &out); err != nil {
		return PhoneNumber{}, err
	}
	return out, nil
}

func (c *Client) DeletePhoneNumber(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/phone-number/"+url.PathEscape(id), nil, nil)
}

func validateCall(call Call) error {
	if call.ID == "" || call.Status == "" || call.CreatedAt.IsZero() {
		return fmt.Errorf("%w: call missing id, status, or createdAt", ErrMalformed)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("vapi: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("vapi: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("vapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("vapi: %s %s: status %d: %s", method, path, resp.StatusCode, detail)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrMalformed, method, path, err)
	}
	return nil
}
