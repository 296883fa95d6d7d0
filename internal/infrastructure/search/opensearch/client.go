// Package opensearch indexes completed analyses for full-text search over
// summaries and extracted key points.
package opensearch

import (
	"context"
	"crypto/tls"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"

	"github.com/turtacn/DocLens-Intelligence/internal/config"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/pkg/errors"
)

// Client manages the OpenSearch connection and index naming.
type Client struct {
	client      *opensearch.Client
	indexPrefix string
	logger      logging.Logger
	healthy     atomic.Bool
}

// NewClient connects to the configured cluster and verifies reachability.
func NewClient(cfg config.OpenSearchConfig, logger logging.Logger) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New(errors.CodeInvalidParam, "opensearch: no addresses configured")
	}

	transport := &http.Transport{MaxIdleConnsPerHost: 10}
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	osClient, err := opensearch.NewClient(opensearch.Config{
		Addresses:     cfg.Addresses,
		Username:      cfg.User,
		Password:      cfg.Password,
		MaxRetries:    3,
		RetryBackoff:  func(int) time.Duration { return 100 * time.Millisecond },
		RetryOnStatus: []int{429, 502, 503, 504},
		Transport:     transport,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSearchError, "create opensearch client")
	}

	c := &Client{client: osClient, indexPrefix: cfg.IndexPrefix, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CodeServiceUnavailable, "connect to opensearch")
	}

	logger.Info("opensearch connected", logging.Any("addresses", cfg.Addresses))
	return c, nil
}

// NewClientWithTransport builds a client against a custom transport.
// Used by tests.
func NewClientWithTransport(rt http.RoundTripper, indexPrefix string, logger logging.Logger) (*Client, error) {
	osClient, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{"http://opensearch.test:9200"},
		Transport: rt,
	})
	if err != nil {
		return nil, err
	}
	return &Client{client: osClient, indexPrefix: indexPrefix, logger: logger}, nil
}

// Ping checks cluster reachability and records the health state.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.client.Ping(c.client.Ping.WithContext(ctx))
	if err != nil {
		c.healthy.Store(false)
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		c.healthy.Store(false)
		return errors.New(errors.CodeSearchError, "opensearch ping returned error status")
	}
	c.healthy.Store(true)
	return nil
}

// IsHealthy reports the result of the most recent ping.
func (c *Client) IsHealthy() bool { return c.healthy.Load() }

// AnalysisIndex returns the prefixed index name for analysis documents.
func (c *Client) AnalysisIndex() string {
	if c.indexPrefix == "" {
		return "analyses"
	}
	return c.indexPrefix + "-analyses"
}

func (c *Client) api() *opensearch.Client { return c.client }
