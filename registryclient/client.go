// Package registryclient talks to the legacy drug-registry backend over its
// SOAP-style remote procedure protocol. It is the only place transport errors
// exist: everything it returns is either raw payload bytes or a classified
// *failure.ServiceFailure.
package registryclient

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/medregistry/search-gateway/failure"
	"github.com/medregistry/search-gateway/interfaces"
	"github.com/medregistry/search-gateway/logging"
	"github.com/medregistry/search-gateway/metrics"
	"github.com/medregistry/search-gateway/textrepair"
)

const soapNamespace = "http://schemas.xmlsoap.org/soap/envelope/"

// maxResponseSize bounds how much of an upstream response is read (8MB).
const maxResponseSize = 8 * 1024 * 1024

// Client is the HTTP-level upstream collaborator. Retry/backoff, if any, is
// configured here and nowhere else; callers see one terminal outcome per Fetch.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

// New creates a client for the registry endpoint with a bounded per-call
// timeout.
func New(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		timeout:  timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ interfaces.UpstreamClient = (*Client)(nil)

// Fetch performs one search call and returns the raw response payload.
// Network loss, timeouts and non-200 answers are classified here; the payload
// itself (including protocol faults inside it) is decoded by DecodePage.
func (c *Client) Fetch(ctx context.Context, q interfaces.UpstreamQuery) ([]byte, error) {
	body, err := xml.Marshal(requestEnvelope{
		SoapNS: soapNamespace,
		Body: requestBody{
			Search: drugSearchRequest{
				Term:          q.Term,
				Manufacturer:  q.Manufacturer,
				AtcCode:       q.AtcCode,
				Page:          q.Page,
				Size:          q.Size,
				SortField:     string(q.SortField),
				SortDirection: string(q.SortDirection),
			},
		},
	})
	if err != nil {
		return nil, failure.Unclassified("failed to build upstream request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, failure.Unclassified("failed to build upstream request", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", "DrugSearch")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn("Failed to close upstream response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, c.classifyErrorStatus(resp)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, classifyTransportError(err)
	}

	return payload, nil
}

// classifyErrorStatus turns a non-200 answer into an UpstreamFault. Legacy
// servers report protocol faults with an HTTP 500, so the body is tried for a
// fault first; the bare status code is the fallback.
func (c *Client) classifyErrorStatus(resp *http.Response) *failure.ServiceFailure {
	if body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize)); err == nil {
		if _, decodeErr := DecodePage(textrepair.Repair(body)); decodeErr != nil {
			var f *failure.ServiceFailure
			if errors.As(decodeErr, &f) && f.Kind == failure.KindUpstreamFault {
				return f
			}
		}
	}

	return failure.UpstreamFault(
		"HTTP-"+strconv.Itoa(resp.StatusCode),
		"registry answered with status "+resp.Status,
	)
}

// classifyTransportError folds the zoo of net/http errors into the closed
// failure taxonomy. A timeout of any flavor is a Timeout; everything else
// that stopped us reaching or reading the upstream is a ConnectionFailure.
func classifyTransportError(err error) *failure.ServiceFailure {
	if errors.Is(err, context.DeadlineExceeded) {
		return failure.Timeout("registry did not answer within the allowed time", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return failure.Timeout("registry did not answer within the allowed time", err)
	}

	if errors.Is(err, context.Canceled) {
		return failure.Connection("search was abandoned before the registry answered", err)
	}

	return failure.Connection("could not reach the registry", err)
}
