package maccms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ymzhao/vodbridge/internal/circuitbreaker"
	apperrors "github.com/ymzhao/vodbridge/internal/errors"
	"github.com/ymzhao/vodbridge/internal/logger"
	"github.com/ymzhao/vodbridge/internal/models"
	"github.com/ymzhao/vodbridge/internal/retry"
)

const (
	defaultTimeout = 10 * time.Second
	defaultDialect = "json"

	actionList   = "list"
	actionDetail = "detail"
	actionClass  = "class"
)

// ClientConfig holds upstream client configuration
type ClientConfig struct {
	BaseURL       string
	Dialect       string // "json" or "maccms10", sent as the "at" parameter
	Timeout       time.Duration
	RetryAttempts int
}

// Client talks to a single MacCMS provide/vod endpoint. It is bound to
// one base URL for its whole lifetime; rebinding builds a new Client.
type Client struct {
	baseURL    string
	dialect    string
	httpClient *http.Client
	logger     *logger.Logger
	circuitBrk *circuitbreaker.CircuitBreaker
	retryCfg   retry.Config
}

// NewClient creates a client for the given upstream base URL
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Dialect == "" {
		cfg.Dialect = defaultDialect
	}

	retryCfg := retry.DefaultConfig()
	if cfg.RetryAttempts > 0 {
		retryCfg.MaxAttempts = cfg.RetryAttempts
	}

	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())

	return &Client{
		baseURL: models.NormalizeEndpointURL(cfg.BaseURL),
		dialect: cfg.Dialect,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger:     logger.AppLogger(),
		circuitBrk: cb,
		retryCfg:   retryCfg,
	}
}

// BaseURL returns the normalized base URL the client is bound to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListParams narrows a video list call. Zero values are omitted from the
// request; Page defaults to 1.
type ListParams struct {
	Page    int
	TypeID  *int
	Keyword string
	Hours   *int
}

// VideoList fetches one page of video records
func (c *Client) VideoList(ctx context.Context, p ListParams) (*models.VideoEnvelope, error) {
	page := p.Page
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("ac", actionList)
	params.Set("pg", strconv.Itoa(page))
	if p.TypeID != nil {
		params.Set("t", strconv.Itoa(*p.TypeID))
	}
	if p.Keyword != "" {
		params.Set("wd", p.Keyword)
	}
	if p.Hours != nil {
		params.Set("h", strconv.Itoa(*p.Hours))
	}

	var envelope models.VideoEnvelope
	if err := c.makeRequest(ctx, params, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// VideoDetail fetches full records for one or more comma-separated ids
func (c *Client) VideoDetail(ctx context.Context, ids string) (*models.VideoEnvelope, error) {
	params := url.Values{}
	params.Set("ac", actionDetail)
	params.Set("ids", ids)

	var envelope models.VideoEnvelope
	if err := c.makeRequest(ctx, params, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// Categories fetches the category tree
func (c *Client) Categories(ctx context.Context) (*models.CategoryEnvelope, error) {
	params := url.Values{}
	params.Set("ac", actionClass)

	var envelope models.CategoryEnvelope
	if err := c.makeRequest(ctx, params, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// makeRequest performs an HTTP request against the bound base URL with
// circuit breaker and retry. Any failure comes back as REMOTE_CALL_FAILED
// wrapping the transport cause.
func (c *Client) makeRequest(ctx context.Context, params url.Values, result interface{}) error {
	params.Set("at", c.dialect)
	requestURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	operation := func() error {
		return c.circuitBrk.Execute(func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
			if err != nil {
				return apperrors.Wrap(err, apperrors.CodeInvalidInput, "failed to build request")
			}
			req.Header.Set("Accept", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return apperrors.Wrap(err, apperrors.CodeServiceUnavailable, "upstream request failed")
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests {
				return apperrors.New(apperrors.CodeRateLimited, "upstream rate limit exceeded")
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return apperrors.Wrap(err, apperrors.CodeServiceUnavailable, "failed to read upstream response")
			}

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				code := apperrors.CodeRemoteCall
				if resp.StatusCode >= 500 {
					code = apperrors.CodeServiceUnavailable
				}
				return apperrors.New(code, fmt.Sprintf("upstream error (status %d)", resp.StatusCode))
			}

			if err := json.Unmarshal(body, result); err != nil {
				return apperrors.Wrap(err, apperrors.CodeRemoteCall, "failed to decode upstream response")
			}

			return nil
		})
	}

	err := retry.Do(ctx, c.retryCfg, operation, apperrors.IsRetryable)
	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"base_url": c.baseURL,
			"action":   params.Get("ac"),
			"error":    err.Error(),
		}).Warn("upstream API request failed after retries")
		if apperrors.IsCode(err, apperrors.CodeRemoteCall) {
			return err
		}
		return apperrors.RemoteCallFailed("upstream API call failed", err)
	}

	return nil
}
