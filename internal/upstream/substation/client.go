package substation

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gridpulse/substation-pipeline/internal/config"
	"github.com/gridpulse/substation-pipeline/internal/domain"
	"github.com/gridpulse/substation-pipeline/internal/upstream"
)

const (
	authTimeout  = 30 * time.Second
	fetchTimeout = 60 * time.Second
)

// FetchError reports a non-success vendor response or transport failure.
// It aborts the ingestion cycle; retrying is the caller's concern.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vendor request %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("vendor request %s returned status %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client talks to the Substation360-style measurement API.
type Client struct {
	httpClient *http.Client
	config     config.Vendor
	log        *zap.Logger
}

// NewClient creates a vendor client from config. A custom CA path takes
// precedence over the verify toggle.
func NewClient(cfg config.Vendor, log *zap.Logger) (*Client, error) {
	tlsConfig := &tls.Config{}

	if cfg.CACertPath != "" {
		pem, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read vendor CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.CACertPath)
		}
		tlsConfig.RootCAs = pool
	} else if !cfg.VerifySSL {
		log.Warn("Vendor TLS verification disabled")
		tlsConfig.InsecureSkipVerify = true
	}

	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		},
		config: cfg,
		log:    log,
	}, nil
}

// Authenticate posts the password grant form and returns the token.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	form := url.Values{
		"grant_type": {"password"},
		"clienttype": {"user"},
		"username":   {c.config.Username},
		"password":   {c.config.Password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var body struct {
		Token string `json:"token"`
	}
	if err := c.do(req, &body); err != nil {
		return "", err
	}
	if body.Token == "" {
		return "", fmt.Errorf("auth succeeded but token missing from response")
	}

	c.log.Info("Obtained vendor token")
	return body.Token, nil
}

// ListInstruments fetches the tenant's instrument records.
func (c *Client) ListInstruments(ctx context.Context, token string) ([]any, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+"/instrument", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build instrument request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var body any
	if err := c.do(req, &body); err != nil {
		return nil, err
	}

	return upstream.AsList(body), nil
}

// FetchSeries fetches mean readings over [from, to]. The vendor expects a
// GET carrying the instrument id array as a JSON body plus from/to query
// parameters.
func (c *Client) FetchSeries(ctx context.Context, token string, endpoint domain.Endpoint, instrumentIDs []int64, from, to time.Time) ([]any, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	ids, err := json.Marshal(instrumentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal instrument ids: %w", err)
	}

	u := fmt.Sprintf("%s/%s?%s", c.config.BaseURL, endpoint.VendorPath(), url.Values{
		"from": {from.UTC().Format(time.RFC3339)},
		"to":   {to.UTC().Format(time.RFC3339)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, bytes.NewReader(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to build series request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	var body any
	if err := c.do(req, &body); err != nil {
		return nil, err
	}

	return upstream.AsList(body), nil
}

// do executes a request and decodes the JSON response, converting
// transport failures and non-2xx statuses into FetchError.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("Vendor request failed",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode))
		return &FetchError{URL: req.URL.String(), Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode vendor response: %w", err)
	}
	return nil
}
