package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/rl1809/order-fulfillment/internal/core/domain"
	"github.com/rl1809/order-fulfillment/internal/port"
)

var errNoSKUCodes = errors.New("no sku codes to check")

type inventoryResponse struct {
	SKUCode string `json:"skuCode"`
	InStock bool   `json:"inStock"`
}

// InventoryHTTPClient queries GET {baseURL}/api/inventory?skuCode=... once per call.
type InventoryHTTPClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewInventoryHTTPClient(baseURL string, timeout time.Duration) *InventoryHTTPClient {
	return &InventoryHTTPClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *InventoryHTTPClient) CheckStock(ctx context.Context, skuCodes []string) (map[string]bool, error) {
	codes := domain.DistinctSKUCodes(skuCodes)
	if len(codes) == 0 {
		return nil, errNoSKUCodes
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/api/inventory?" + url.Values{"skuCode": codes}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build inventory request: %w", port.ErrDependencyUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", port.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: inventory responded %s", port.ErrDependencyUnavailable, resp.Status)
	}

	var items []inventoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: decode inventory response: %w", port.ErrDependencyUnavailable, err)
	}

	return collect(codes, items, func(it inventoryResponse) (string, bool) { return it.SKUCode, it.InStock }), nil
}

// collect maps the answer onto the requested codes. Codes the server did
// not mention stay false; codes that were not requested are ignored.
func collect[T any](codes []string, items []T, entry func(T) (string, bool)) map[string]bool {
	result := make(map[string]bool, len(codes))
	for _, code := range codes {
		result[code] = false
	}
	for _, it := range items {
		code, inStock := entry(it)
		if _, requested := result[code]; requested {
			result[code] = inStock
		}
	}
	return result
}
