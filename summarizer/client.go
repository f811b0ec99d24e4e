package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
)

// Endpoint is the path of the YouTube processing route on the remote service.
const Endpoint = "/api/youtube"

const (
	DefaultTimeout          = 30 * time.Second
	DefaultMaxResponseBytes = 10 << 20
)

// Service turns a summary request into a result payload.
type Service interface {
	Summarize(ctx context.Context, req models.SummaryRequest) (*models.ResultPayload, error)
}

// Client talks to the remote summarization service over HTTP.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	maxResponseBytes int64
	timeout          time.Duration
	logger           *logrus.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		c.maxResponseBytes = n
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		httpClient:       &http.Client{Timeout: DefaultTimeout},
		maxResponseBytes: DefaultMaxResponseBytes,
		logger:           logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Summarize issues exactly one POST to the service. It never retries.
func (c *Client) Summarize(ctx context.Context, req models.SummaryRequest) (*models.ResultPayload, error) {
	const op = "Client.Summarize"
	logger := c.logger.WithFields(logrus.Fields{
		"url":     req.URL,
		"pattern": req.Pattern,
	})

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Internal(op, err, errors.GenericMessage)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Internal(op, pkgerrors.Wrap(err, "building request"), errors.GenericMessage)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.WithError(err).Warn("Summary request failed")
		return nil, errors.Transport(op, err, transportMessage(ctx, err))
	}
	defer resp.Body.Close()

	logger = logger.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxResponseBytes))
		logger.Warn("Summary service returned non-success status")
		return nil, errors.Transport(op, fmt.Errorf("unexpected status %q", resp.Status), statusMessage(resp))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		logger.WithError(err).Warn("Failed to read summary response")
		return nil, errors.Transport(op, pkgerrors.Wrap(err, "reading response body"), transportMessage(ctx, err))
	}
	if int64(len(data)) > c.maxResponseBytes {
		logger.WithField("limit", c.maxResponseBytes).Warn("Summary response exceeded size limit")
		return nil, errors.Parse(op, fmt.Errorf("response exceeds %d bytes", c.maxResponseBytes), "The summarization service returned too much data")
	}

	var payload models.ResultPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.WithError(err).Warn("Failed to decode summary response")
		return nil, errors.Parse(op, pkgerrors.Wrap(err, "decoding response"), "The summarization service returned an invalid response")
	}

	logger.Info("Summary received")
	return &payload, nil
}

// statusMessage mirrors the status line: "Error: <reason phrase>".
func statusMessage(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	if reason == "" {
		reason = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return "Error: " + reason
}

func transportMessage(ctx context.Context, err error) string {
	switch {
	case pkgerrors.Is(ctx.Err(), context.DeadlineExceeded), isTimeout(err):
		return "The request timed out, please try again"
	case pkgerrors.Is(ctx.Err(), context.Canceled):
		return "The request was cancelled"
	default:
		return "Could not reach the summarization service"
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return pkgerrors.As(err, &t) && t.Timeout()
}
