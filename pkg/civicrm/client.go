// Package civicrm is the client for the external CiviCRM entity store.
//
// The store exposes a REST endpoint with entity/action semantics
// (Contact.create, Email.get and so on). There are no transactions: each
// call is an independent synchronous round-trip, and callers are expected
// to tolerate partial failure. Failure is signalled distinctly from "zero
// results": an API-level error or transport error returns a non-nil error,
// while an empty result set returns an empty slice and nil error.
package civicrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
)

const (
	// DefaultTimeout is the default request timeout
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum response body size (10MB)
	MaxResponseSize = 10 * 1024 * 1024
)

// Config holds CiviCRM API client configuration
type Config struct {
	// Endpoint is the full URL of the REST endpoint
	Endpoint string
	// APIKey authenticates the acting user
	APIKey string
	// SiteKey authenticates the calling site
	SiteKey string

	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

// DefaultConfig returns default client configuration
func DefaultConfig() Config {
	return Config{
		Timeout:         DefaultTimeout,
		MaxIdleConns:    100,
		IdleConnTimeout: 90 * time.Second,
	}
}

// API is the transport contract the typed services are built on. Tests
// substitute an in-memory fake.
type API interface {
	// Get returns all records matching the criteria. Empty result is not
	// an error.
	Get(ctx context.Context, entity string, params map[string]any) ([]map[string]any, error)
	// Create creates or updates a record (the store keys update on the
	// presence of "id" in params) and returns the written record.
	Create(ctx context.Context, entity string, params map[string]any) (map[string]any, error)
	// GetFields returns the entity's field definitions as the store
	// describes them for create calls.
	GetFields(ctx context.Context, entity string) ([]map[string]any, error)
}

// Client is the HTTP implementation of the API contract.
type Client struct {
	client *http.Client
	config Config
	logger ectologger.Logger
}

// NewClient creates a new CiviCRM API client
func NewClient(cfg Config, logger ectologger.Logger) *Client {
	transport := &http.Transport{
		MaxIdleConns:    cfg.MaxIdleConns,
		IdleConnTimeout: cfg.IdleConnTimeout,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config: cfg,
		logger: logger,
	}
}

// apiResponse is the envelope every REST call returns.
type apiResponse struct {
	IsError      int             `json:"is_error"`
	ErrorMessage string          `json:"error_message"`
	Count        int             `json:"count"`
	ID           any             `json:"id"`
	Values       json.RawMessage `json:"values"`
}

// Call executes one entity/action round-trip.
func (c *Client) Call(ctx context.Context, entity, action string, params map[string]any) (*apiResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.Client.Call")
	defer span.End()

	if params == nil {
		params = map[string]any{}
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to encode %s.%s params: %v", entity, action, err)
	}

	form := url.Values{}
	form.Set("entity", entity)
	form.Set("action", action)
	form.Set("api_key", c.config.APIKey)
	form.Set("key", c.config.SiteKey)
	form.Set("json", string(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to build %s.%s request: %v", entity, action, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Errorf("CiviCRM request failed: %s.%s", entity, action)
		return nil, httperror.NewHTTPErrorf(http.StatusBadGateway, "%s.%s request failed: %v", entity, action, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusBadGateway, "failed to read %s.%s response: %v", entity, action, err)
	}
	if len(raw) > MaxResponseSize {
		return nil, httperror.NewHTTPErrorf(http.StatusBadGateway, "%s.%s response too large", entity, action)
	}

	c.logger.WithContext(ctx).Debugf("CiviCRM %s.%s -> %d (%s)", entity, action, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, httperror.NewHTTPErrorf(resp.StatusCode, "%s.%s returned status %d", entity, action, resp.StatusCode)
	}

	var envelope apiResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusBadGateway, "failed to decode %s.%s response: %v", entity, action, err)
	}

	if envelope.IsError != 0 {
		c.logger.WithContext(ctx).WithFields(map[string]any{
			"entity": entity,
			"action": action,
			"error":  envelope.ErrorMessage,
		}).Warn("CiviCRM API returned an error")
		return nil, httperror.NewHTTPErrorf(http.StatusBadGateway, "%s.%s: %s", entity, action, envelope.ErrorMessage)
	}

	return &envelope, nil
}

// Get implements API.Get.
func (c *Client) Get(ctx context.Context, entity string, params map[string]any) ([]map[string]any, error) {
	envelope, err := c.Call(ctx, entity, "get", params)
	if err != nil {
		return nil, err
	}
	return decodeValues(envelope.Values)
}

// Create implements API.Create.
func (c *Client) Create(ctx context.Context, entity string, params map[string]any) (map[string]any, error) {
	envelope, err := c.Call(ctx, entity, "create", params)
	if err != nil {
		return nil, err
	}

	values, err := decodeValues(envelope.Values)
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		return values[0], nil
	}

	// Some write endpoints only echo the ID.
	if envelope.ID != nil {
		return map[string]any{"id": envelope.ID}, nil
	}
	return nil, httperror.NewHTTPErrorf(http.StatusBadGateway, "%s.create returned no record", entity)
}

// GetFields implements API.GetFields.
func (c *Client) GetFields(ctx context.Context, entity string) ([]map[string]any, error) {
	envelope, err := c.Call(ctx, entity, "getfields", map[string]any{"api_action": "create"})
	if err != nil {
		return nil, err
	}
	return decodeValues(envelope.Values)
}

// decodeValues normalizes the "values" payload, which arrives either as
// an array of records or as an object keyed by record ID.
func decodeValues(raw json.RawMessage) ([]map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var asList []map[string]any
	if err := json.Unmarshal(raw, &asList); err == nil {
		return asList, nil
	}

	var asMap map[string]map[string]any
	if err := json.Unmarshal(raw, &asMap); err == nil {
		out := make([]map[string]any, 0, len(asMap))
		for _, v := range asMap {
			out = append(out, v)
		}
		return out, nil
	}

	return nil, fmt.Errorf("unexpected values payload: %s", truncate(string(raw), 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
