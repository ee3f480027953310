// Package httpclient sends payment-hold service requests over HTTP. Service
// hosts are resolved from a URL template so one binary can talk to every
// deployment environment.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/payment-holds/internal/ports"
)

const (
	CallerName = "lambda-payment-holds"

	HeaderCorrelationID = "X-Correlation-Id"
	HeaderCallerName    = "X-Caller-Name"

	ServicePlaceholder     = "{service}"
	EnvironmentPlaceholder = "{environment}"

	// TruncatedSuffix marks response text cut at maxResponseBytes.
	TruncatedSuffix = " [truncated]"

	maxResponseBytes = 1 << 20
)

type Client struct {
	URLTemplate string
	Environment string
	HTTPClient  *http.Client
}

var _ ports.ServiceClient = Client{}

func New(urlTemplate, environment string, httpClient *http.Client) Client {
	return Client{URLTemplate: urlTemplate, Environment: environment, HTTPClient: httpClient}
}

// Send performs one request and returns whatever status the service answered
// with. Only transport failures are errors.
func (c Client) Send(ctx context.Context, req ports.Request) (ports.Response, error) {
	baseURL, err := c.ServiceURL(req.Service)
	if err != nil {
		return ports.Response{}, err
	}

	endpoint, err := buildServiceURL(baseURL, req.Path)
	if err != nil {
		return ports.Response{}, err
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return ports.Response{}, fmt.Errorf("create %s request: %w", req.Service, err)
	}
	httpReq.Header.Set(HeaderCallerName, CallerName)
	if req.CorrelationID != "" {
		httpReq.Header.Set(HeaderCorrelationID, req.CorrelationID)
	}
	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return ports.Response{}, fmt.Errorf("%s %s%s: %w", req.Method, req.Service, req.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return ports.Response{}, fmt.Errorf("read %s response: %w", req.Service, err)
	}

	text := string(data)
	if len(data) > maxResponseBytes {
		text = string(data[:maxResponseBytes]) + TruncatedSuffix
	}

	return ports.Response{StatusCode: resp.StatusCode, Text: text}, nil
}

// ServiceURL fills the template's placeholders for service.
func (c Client) ServiceURL(service string) (string, error) {
	if strings.TrimSpace(c.URLTemplate) == "" {
		return "", errors.New("service url template is required")
	}
	if strings.Contains(c.URLTemplate, ServicePlaceholder) && service == "" {
		return "", errors.New("service name is required")
	}

	replacer := strings.NewReplacer(
		ServicePlaceholder, service,
		EnvironmentPlaceholder, c.Environment,
	)
	return replacer.Replace(c.URLTemplate), nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func buildServiceURL(baseURL string, path string) (string, error) {
	if path == "" {
		return "", errors.New("request path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse service url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("service url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("service url host is required")
	}

	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse request path: %w", err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return "", fmt.Errorf("request path %q must not name a host", path)
	}

	// The request path is appended to whatever path the template carries.
	endpoint := parsed.JoinPath(ref.EscapedPath())
	endpoint.RawQuery = ref.RawQuery
	return endpoint.String(), nil
}
