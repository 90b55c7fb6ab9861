package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// API defines the remote operations Stockroom consumes.
// It is implemented by *Client and can be replaced in tests.
type API interface {
	ListProducts(ctx context.Context, params ListParams) (ProductPage, error)
	SearchProducts(ctx context.Context, query string, params ListParams) (ProductPage, error)
	Login(ctx context.Context, creds LoginRequest) (*LoginResponse, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// ProductFields is the field selection requested for listing rows.
const ProductFields = "id,title,category,price,rating,brand,sku,stock,thumbnail"

const (
	DefaultBaseURL   = "https://dummyjson.com"
	defaultUserAgent = "stockroom/0.1"
	defaultTimeout   = 10 * time.Second
)

// Generic messages for failures the server does not explain.
const (
	msgLoadFailed   = "failed to load products"
	msgSearchFailed = "failed to search products"
	msgLoginFailed  = "authorization failed"
)

// APIError is returned for non-success HTTP responses. Message is safe to
// show to the user.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Options configure a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // zero disables pacing
	Logger            *zap.Logger
}

// Client talks to the catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewClient builds a Client for the catalog API at opts.BaseURL.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
		logger:    logger.Named("catalog"),
	}
	if rps := opts.RequestsPerSecond; rps > 0 {
		burst := int(math.Max(1, math.Ceil(rps)))
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return c, nil
}

// ListProducts retrieves one page of the full product list.
func (c *Client) ListProducts(ctx context.Context, params ListParams) (ProductPage, error) {
	if c == nil {
		return ProductPage{}, errors.New("client is nil")
	}
	rel := &url.URL{Path: "/products", RawQuery: listValues(params).Encode()}
	var payload ProductPage
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload, msgLoadFailed); err != nil {
		return ProductPage{}, err
	}
	return payload, nil
}

// SearchProducts retrieves one page of products matching query.
func (c *Client) SearchProducts(ctx context.Context, query string, params ListParams) (ProductPage, error) {
	if c == nil {
		return ProductPage{}, errors.New("client is nil")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return ProductPage{}, errors.New("search query required")
	}
	values := listValues(params)
	values.Set("q", query)
	rel := &url.URL{Path: "/products/search", RawQuery: values.Encode()}
	var payload ProductPage
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload, msgSearchFailed); err != nil {
		return ProductPage{}, err
	}
	return payload, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, creds LoginRequest) (*LoginResponse, error) {
	if c == nil {
		return nil, errors.New("client is nil")
	}
	body, err := json.Marshal(creds)
	if err != nil {
		return nil, errors.Wrap(err, "encode credentials")
	}
	var payload LoginResponse
	if err := c.doURL(ctx, http.MethodPost, &url.URL{Path: "/auth/login"}, body, &payload, msgLoginFailed); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.AccessToken) == "" {
		return nil, &APIError{Status: http.StatusOK, Message: msgLoginFailed}
	}
	return &payload, nil
}

func listValues(params ListParams) url.Values {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(params.Limit))
	values.Set("skip", strconv.Itoa(params.Skip))
	values.Set("select", ProductFields)
	if params.Sort != nil && strings.TrimSpace(params.Sort.Field) != "" {
		values.Set("sortBy", params.Sort.Field)
		order := params.Sort.Order
		if !order.Valid() {
			order = OrderAsc
		}
		values.Set("order", string(order))
	}
	return values
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body []byte, dest any, failMsg string) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "wait for rate limiter")
		}
	}

	reqURL := c.baseURL.ResolveReference(rel)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	lg := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", rel.Path),
	)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		lg.Warn("Request failed", zap.Error(err))
		return errors.Wrap(err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	lg.Debug("Request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: failMsg}
		if msg := serverMessage(resp.Body); msg != "" && method == http.MethodPost {
			apiErr.Message = msg
		}
		lg.Warn("Request rejected", zap.Int("status", resp.StatusCode), zap.String("message", apiErr.Message))
		return apiErr
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// serverMessage extracts {"message": "..."} from an error body.
func serverMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, errors.Wrapf(err, "parse api url %q", raw)
	}
	if u.Host == "" {
		return nil, errors.Errorf("api url %q has no host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
