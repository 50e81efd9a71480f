package cartsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const lookupBatchSize = 200

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient returns a client whose transport is traced with otelhttp.
func NewHTTPClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}

func newAPIClient(baseURL string, httpClient *http.Client) apiClient {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}

	return apiClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c apiClient) do(ctx context.Context, method, path, token string, body, dest any) error {

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthenticated
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%s %s: failed to decode response (status %d): %w", method, path, resp.StatusCode, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !envelope.Success {
		if envelope.Error != nil {
			return fmt.Errorf("%s %s: %s: %s", method, path, envelope.Error.Code, envelope.Error.Message)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if dest == nil {
		return nil
	}

	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		return fmt.Errorf("%s %s: failed to decode data: %w", method, path, err)
	}

	return nil
}

// HTTPCartStore is the RemoteStore backed by the server cart API.
type HTTPCartStore struct {
	api apiClient
}

func NewHTTPCartStore(baseURL string, httpClient *http.Client) *HTTPCartStore {
	return &HTTPCartStore{api: newAPIClient(baseURL, httpClient)}
}

func (h *HTTPCartStore) Fetch(ctx context.Context, session Session) ([]models.CartLine, error) {
	var cart models.Cart
	if err := h.api.do(ctx, http.MethodGet, "/api/v1/carts", session.Token, nil, &cart); err != nil {
		return nil, err
	}

	return cart.Items, nil
}

func (h *HTTPCartStore) Replace(ctx context.Context, session Session, lines []models.CartLine) error {
	if lines == nil {
		lines = []models.CartLine{}
	}

	return h.api.do(ctx, http.MethodPut, "/api/v1/carts", session.Token, models.UpdateCartRequest{Cart: lines}, nil)
}

// HTTPProductLookup resolves product snapshots through the public lookup API.
type HTTPProductLookup struct {
	api apiClient
}

func NewHTTPProductLookup(baseURL string, httpClient *http.Client) *HTTPProductLookup {
	return &HTTPProductLookup{api: newAPIClient(baseURL, httpClient)}
}

func (h *HTTPProductLookup) Lookup(ctx context.Context, ids []string) ([]models.ProductSnapshot, error) {

	var products []models.ProductSnapshot

	for start := 0; start < len(ids); start += lookupBatchSize {
		end := min(start+lookupBatchSize, len(ids))

		var resp models.ProductLookupResponse
		err := h.api.do(ctx, http.MethodPost, "/api/v1/products/lookup", "", models.ProductLookupRequest{IDs: ids[start:end]}, &resp)
		if err != nil {
			return nil, err
		}

		products = append(products, resp.Products...)
	}

	return products, nil
}
