package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_cart/cart-store/internal/domain"
	"github.com/fjod/go_cart/cart-store/pkg/circuitbreaker"
	"github.com/fjod/go_cart/cart-store/pkg/logger"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

const maxResponseBytes = 1 << 20

// Client talks to the catalog REST API. Product lookups for the same id that
// overlap in time share one request; stock is always fetched fresh.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	sfg        singleflight.Group
	log        *logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, breaker circuitbreaker.Config, log *logger.Logger) *Client {
	if breaker.Name == "" {
		breaker.Name = "catalog"
	}
	notFound := func(err error) bool { return errors.Is(err, ErrNotFound) }

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: circuitbreaker.New[[]byte](breaker, notFound, log),
		log:     log,
	}
}

func (c *Client) GetStock(ctx context.Context, productID int64) (domain.StockInfo, error) {
	body, err := c.get(ctx, "/stock/"+strconv.FormatInt(productID, 10))
	if err != nil {
		return domain.StockInfo{}, err
	}

	var stock domain.StockInfo
	if err := json.Unmarshal(body, &stock); err != nil {
		return domain.StockInfo{}, fmt.Errorf("unmarshal stock failed: %w", err)
	}
	if stock.Amount < 0 {
		return domain.StockInfo{}, fmt.Errorf("catalog returned negative stock %d for product %d", stock.Amount, productID)
	}
	stock.ProductID = productID
	return stock, nil
}

func (c *Client) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	path := "/products/" + strconv.FormatInt(productID, 10)

	// the shared request outlives any single caller; httpClient.Timeout still bounds it
	ch := c.sfg.DoChan(path, func() (interface{}, error) {
		body, err := c.get(context.WithoutCancel(ctx), path)
		if err != nil {
			return nil, err
		}
		var product domain.Product
		if err := json.Unmarshal(body, &product); err != nil {
			return nil, fmt.Errorf("unmarshal product failed: %w", err)
		}
		return product, nil
	})

	select {
	case <-ctx.Done():
		return domain.Product{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Product{}, res.Err
		}
		return res.Val.(domain.Product), nil
	}
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, path)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, err
}

func (c *Client) do(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request failed: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read catalog response failed: %w", err)
	}

	c.log.WithContext(ctx).Debug().
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Msg("catalog response")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("catalog returned status %d for %s", resp.StatusCode, path)
	}
	return body, nil
}
