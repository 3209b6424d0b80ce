package trello

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/uhppoted/trello-sheets/records"
)

const DefaultBaseURL = "https://api.trello.com/1"

// Config is the static connection configuration. Key and Token are passed through to the
// API as query parameters and are not validated here.
type Config struct {
	BaseURL   string
	Key       string
	Token     string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
	Debug     bool
}

func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		RateLimit: 10,
		RateBurst: 10,
	}
}

// Client is a minimal Trello REST client. Requests are paced but never retried.
type Client struct {
	config  Config
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	limit := rate.Inf
	burst := config.RateBurst
	if config.RateLimit > 0 {
		limit = rate.Limit(config.RateLimit)
	}

	if burst < 1 {
		burst = 1
	}

	return &Client{
		config: config,
		http: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Get fetches a single unpaginated resource.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (records.Value, error) {
	return c.get(ctx, endpoint, params)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (records.Value, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return records.Value{}, &TransportError{Endpoint: endpoint, Err: err}
	}

	query := url.Values{}
	for k, v := range params {
		query[k] = append([]string{}, v...)
	}

	if c.config.Debug {
		debugf("GET %v?%v", endpoint, query.Encode())
	}

	if c.config.Key != "" {
		query.Set("key", c.config.Key)
	}

	if c.config.Token != "" {
		query.Set("token", c.config.Token)
	}

	uri := strings.TrimSuffix(c.config.BaseURL, "/") + "/" + strings.TrimPrefix(endpoint, "/")
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return records.Value{}, &TransportError{Endpoint: endpoint, Err: redact(err)}
	}

	rq.Header.Set("Accept", "application/json")

	response, err := c.http.Do(rq)
	if err != nil {
		return records.Value{}, &TransportError{Endpoint: endpoint, Err: redact(err)}
	}

	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(response.StatusCode)
		}

		return records.Value{}, &TransportError{
			Endpoint:   endpoint,
			StatusCode: response.StatusCode,
			Err:        errors.New(msg),
		}
	}

	v, err := records.DecodeReader(response.Body)
	if err != nil {
		return records.Value{}, &ParseError{Endpoint: endpoint, Err: err}
	}

	return v, nil
}

// redact strips the query string (and with it the key and token) from net/url errors.
func redact(err error) error {
	var e *url.Error
	if errors.As(err, &e) {
		u := e.URL
		if ix := strings.Index(u, "?"); ix >= 0 {
			u = u[:ix]
		}

		return &url.Error{Op: e.Op, URL: u, Err: e.Err}
	}

	return err
}

func debugf(format string, args ...any) {
	log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}
