package vpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrSessionDeclined is returned when the provider answers but refuses
	// to create a payment session.
	ErrSessionDeclined = errors.New("vpay: payment session declined")

	// ErrBadResponse is returned when the provider's response cannot be
	// decoded into the expected shape.
	ErrBadResponse = errors.New("vpay: malformed provider response")

	// ErrRateUnavailable is returned when no usable conversion rate could
	// be obtained.
	ErrRateUnavailable = errors.New("vpay: conversion rate unavailable")
)

const (
	createSessionPath = "/api/v1/pay/create"
	ratesPath         = "/api/rates/"

	statusSuccess = "success"
)

// SessionRequest is the payload for the provider's session-creation endpoint.
// Field names follow the provider's wire contract.
type SessionRequest struct {
	Key                   string  `json:"key"`
	Customer              string  `json:"customer"`
	Amount                float64 `json:"amount"`
	WebhookURL            string  `json:"webhook_url"`
	ReturnURL             string  `json:"return_url"`
	InternalTransactionID string  `json:"internalTransactionId"`
	ReceivingCurrency     string  `json:"receivingCurrency"`
}

type sessionResponse struct {
	Status string `json:"status"`
	Data   struct {
		Code string `json:"code"`
	} `json:"data"`
}

type rateResponse struct {
	Status string  `json:"status"`
	Rate   float64 `json:"rate"`
}

// Client is an HTTP client for the VPAY provider API.
type Client struct {
	baseURL        string
	sessionTimeout time.Duration
	rateTimeout    time.Duration
	httpClient     *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSessionTimeout bounds session-creation calls.
func WithSessionTimeout(d time.Duration) Option {
	return func(c *Client) { c.sessionTimeout = d }
}

// WithRateTimeout bounds rate-lookup calls.
func WithRateTimeout(d time.Duration) Option {
	return func(c *Client) { c.rateTimeout = d }
}

// NewClient creates a Client for the given provider base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		sessionTimeout: 70 * time.Second,
		rateTimeout:    10 * time.Second,
		httpClient:     &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateSession asks the provider to create a hosted payment session and
// returns the opaque session code. A session exists only when the provider
// reports success AND returns a non-empty code; every other well-formed
// answer is ErrSessionDeclined, and transport or decode failures are
// reported distinctly so callers can tell a refusal from an outage.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("vpay: encode session request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.sessionTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createSessionPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("vpay: build session request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("vpay: session request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("vpay: read session response: %w", err)
	}

	var decoded sessionResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	if decoded.Status != statusSuccess || decoded.Data.Code == "" {
		return "", ErrSessionDeclined
	}

	return decoded.Data.Code, nil
}

// GetRate fetches the conversion rate from the given currency to USD. The
// rate is looked up fresh on every call; the provider path is
// /api/rates/<CODE>USD.
func (c *Client) GetRate(ctx context.Context, currency string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.rateTimeout)
	defer cancel()

	url := c.baseURL + ratesPath + strings.ToUpper(currency) + "USD"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("vpay: build rate request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("vpay: rate request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("vpay: read rate response: %w", err)
	}
	if len(raw) == 0 {
		return 0, ErrRateUnavailable
	}

	var decoded rateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	if decoded.Status != statusSuccess {
		return 0, ErrRateUnavailable
	}
	if decoded.Rate <= 0 {
		return 0, ErrRateUnavailable
	}

	return decoded.Rate, nil
}
