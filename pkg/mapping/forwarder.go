package mapping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/synaptica-ai/requestmapping/pkg/common/config"
	"github.com/synaptica-ai/requestmapping/pkg/common/httpclient"
	"github.com/synaptica-ai/requestmapping/pkg/datamapper"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// HTTPForwarder posts appointment requests to the hospital backend. When a
// token URL is configured the calls carry a client-credentials bearer token.
type HTTPForwarder struct {
	client     *http.Client
	url        string
	attempts   int
	retryDelay time.Duration
}

func NewHTTPForwarder(cfg *config.Config) *HTTPForwarder {
	client := httpclient.New(cfg.ForwardTimeout)
	if cfg.ForwardTokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ForwardClientID,
			ClientSecret: cfg.ForwardClientSecret,
			TokenURL:     cfg.ForwardTokenURL,
			Scopes:       cfg.ForwardScopes,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = cc.Client(ctx)
		client.Timeout = cfg.ForwardTimeout
	}

	attempts := cfg.ForwardRetries
	if attempts < 1 {
		attempts = 1
	}

	return &HTTPForwarder{
		client:     client,
		url:        cfg.ForwardURL,
		attempts:   attempts,
		retryDelay: 200 * time.Millisecond,
	}
}

func (f *HTTPForwarder) Forward(ctx context.Context, id string, out datamapper.OutputRecord) error {
	body, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encoding appointment request: %w", err)
	}

	err = httpclient.RetryIf(ctx, f.attempts, f.retryDelay, httpclient.IsRetriable, func() error {
		return f.post(ctx, id, body)
	})
	if err != nil {
		return fmt.Errorf("forwarding mapping %s: %w", id, err)
	}
	return nil
}

func (f *HTTPForwarder) post(ctx context.Context, id string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Mapping-ID", id)

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpclient.StatusError{Code: resp.StatusCode}
	}
	return nil
}
