package blockcypher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/blockcypher/blockcypher-go/pkg/config"
	"github.com/blockcypher/blockcypher-go/pkg/types"
)

// HttpMethod selects the verb used by the shared call primitive
type HttpMethod int

const (
	MethodGet HttpMethod = iota
	MethodPost
	MethodDelete
)

func (m HttpMethod) String() string {
	switch m {
	case MethodGet:
		return http.MethodGet
	case MethodPost:
		return http.MethodPost
	case MethodDelete:
		return http.MethodDelete
	default:
		return fmt.Sprintf("HttpMethod(%d)", int(m))
	}
}

const redactedToken = "REDACTED"

// Client is a BlockCypher REST API client bound to one coin/chain pair.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	config     config.ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient validates cfg and creates a client. The config is copied, later
// changes to cfg have no effect.
func NewClient(cfg *config.ClientConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	c := &Client{
		config:     *cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c, nil
}

// SetHttpClient replaces the underlying HTTP client
func (c *Client) SetHttpClient(client *http.Client) {
	c.httpClient = client
}

// Config returns a copy of the client configuration
func (c *Client) Config() config.ClientConfig {
	return c.config
}

// EndpointUrl builds <base>/<version>/<currency>/<network><apiPath>?<query>,
// adding the API token when one is configured.
func (c *Client) EndpointUrl(apiPath string, query url.Values) (*url.URL, error) {
	if apiPath != "" && !strings.HasPrefix(apiPath, "/") {
		apiPath = "/" + apiPath
	}
	raw := fmt.Sprintf("%s/%s%s", strings.TrimRight(c.config.BaseUrl, "/"), c.config.ChainPath(), apiPath)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse endpoint url %s: %w", raw, err)
	}

	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	if c.config.Token != "" {
		q.Set("token", c.config.Token)
	}
	u.RawQuery = q.Encode()
	return u, nil
}

// call issues one request and decodes the JSON response into out. It
// reports false, without error, when the response carried no content
// (204 or empty body).
func (c *Client) call(ctx context.Context, method HttpMethod, apiPath string, query url.Values, body interface{}, out interface{}) (bool, error) {
	u, err := c.EndpointUrl(apiPath, query)
	if err != nil {
		return false, err
	}
	logUrl := redactUrl(u)

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return false, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method.String(), u.String(), reqBody)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestId := uuid.New().String()
	c.logger.Sugar().Debugw("Sending request",
		"requestId", requestId,
		"method", method.String(),
		"url", logUrl,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the unredacted URL
		if urlErr, ok := err.(*url.Error); ok {
			err = urlErr.Err
		}
		return false, errors.Wrapf(err, "%s %s failed", method.String(), logUrl)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read response body from %s", logUrl)
	}

	c.logger.Sugar().Debugw("Received response",
		"requestId", requestId,
		"status", resp.StatusCode,
		"bytes", len(respBody),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, &types.RemoteError{
			Method:     method.String(),
			Url:        logUrl,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return false, &types.MalformedResponseError{
			Url:  logUrl,
			Body: string(respBody),
			Err:  err,
		}
	}
	return true, nil
}

// doJSON performs a call and returns the decoded value, or nil when the
// response had no content.
func doJSON[T any](ctx context.Context, c *Client, method HttpMethod, apiPath string, query url.Values, body interface{}) (*T, error) {
	var out T
	found, err := c.call(ctx, method, apiPath, query, body, &out)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &out, nil
}

// doList is doJSON for endpoints returning a JSON array
func doList[T any](ctx context.Context, c *Client, method HttpMethod, apiPath string, query url.Values) ([]T, error) {
	list, err := doJSON[[]T](ctx, c, method, apiPath, query, nil)
	if err != nil || list == nil {
		return nil, err
	}
	return *list, nil
}

func redactUrl(u *url.URL) string {
	q := u.Query()
	if q.Get("token") == "" {
		return u.String()
	}
	q.Set("token", redactedToken)
	redacted := *u
	redacted.RawQuery = q.Encode()
	return redacted.String()
}

// pathSegment escapes a caller supplied identifier for use in a URL path
func pathSegment(name string, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%s cannot be empty: %w", name, types.ErrInvalidArgument)
	}
	return url.PathEscape(value), nil
}
