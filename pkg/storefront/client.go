package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vellalasercare/storefront-gateway/pkg/logger"
)

const (
	shippingPath      = "/api/configs/shipping/get_filtered_shipping"
	citiesPath        = "/api/configs/city/get_filtered_cities"
	profilePath       = "/api/auth/get_user_by_token"
	guestOrderPath    = "/api/order/add_guest_order"
	customerOrderPath = "/api/order/add_customer_order"
)

// Client represents a storefront API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new storefront client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// GetShipping returns the delivery quote for a city
func (c *Client) GetShipping(ctx context.Context, city string) (*Shipping, error) {
	query := url.Values{"city": {city}}
	body, err := c.doRequest(ctx, http.MethodGet, shippingPath+"?"+query.Encode(), "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shipping: %w", err)
	}

	var shipping Shipping
	if err := json.Unmarshal(body, &shipping); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping response: %w", err)
	}
	return &shipping, nil
}

// GetCities returns the delivery city list
func (c *Client) GetCities(ctx context.Context) ([]City, error) {
	body, err := c.doRequest(ctx, http.MethodGet, citiesPath, "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cities: %w", err)
	}

	var cities []City
	if err := json.Unmarshal(body, &cities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cities response: %w", err)
	}
	return cities, nil
}

// GetProfile returns the user record the token belongs to.
// The storefront answers with a one-element array.
func (c *Client) GetProfile(ctx context.Context, token string) (*Profile, error) {
	body, err := c.doRequest(ctx, http.MethodGet, profilePath, token, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	var profiles []Profile
	if err := json.Unmarshal(body, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile response: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("failed to fetch profile: %w", ErrNotFound)
	}
	return &profiles[0], nil
}

// AddGuestOrder submits an order without identity
func (c *Client) AddGuestOrder(ctx context.Context, payload OrderPayload) (*OrderResponse, error) {
	body, err := c.doRequest(ctx, http.MethodPost, guestOrderPath, "", payload)
	if err != nil {
		return nil, fmt.Errorf("failed to add guest order: %w", err)
	}
	return &OrderResponse{Raw: json.RawMessage(body)}, nil
}

// AddCustomerOrder submits an order on behalf of the token's owner
func (c *Client) AddCustomerOrder(ctx context.Context, token string, payload OrderPayload) (*OrderResponse, error) {
	body, err := c.doRequest(ctx, http.MethodPost, customerOrderPath, token, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to add customer order: %w", err)
	}
	return &OrderResponse{Raw: json.RawMessage(body)}, nil
}

// doRequest performs an HTTP request to the storefront API
func (c *Client) doRequest(ctx context.Context, method, path, token string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	endpoint := c.config.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// The storefront expects an empty Authorization header for guests.
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Set("Authorization", "")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("Storefront request", logger.Fields{
		"method":        method,
		"path":          path,
		"authenticated": token != "",
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		var errResp errorBody
		if json.Unmarshal(body, &errResp) == nil {
			apiErr.Message = errResp.Message
			if apiErr.Message == "" {
				apiErr.Message = errResp.Error
			}
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			apiErr.kind = ErrUnauthorized
		case resp.StatusCode == http.StatusNotFound:
			apiErr.kind = ErrNotFound
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			apiErr.kind = ErrInvalidRequest
		default:
			apiErr.kind = ErrUpstream
		}

		logger.Warn("Storefront request failed", logger.Fields{
			"method":      method,
			"path":        path,
			"status_code": resp.StatusCode,
			"message":     apiErr.Message,
		})
		return nil, apiErr
	}

	return body, nil
}
