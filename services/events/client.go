// File: services/events/client.go
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"museumgate/config"
	"museumgate/models"
	"museumgate/utils"
)

// ErrUnavailable covers timeouts and transport failures talking to the events
// service. Callers surface it as a retryable collaborator_unavailable result.
var ErrUnavailable = errors.New("events service unavailable")

// Client is a bounded-timeout HTTP client for the event-registration
// collaborator. The collaborator owns participant records; this client never
// caches or persists them.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a client against the configured events service.
func NewClient() *Client {
	return &Client{
		BaseURL: config.AppConfig.EventsServiceURL,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// GetRegistration fetches a participant registration by id.
func (c *Client) GetRegistration(ctx context.Context, registrationID string) (*models.EventRegistration, error) {
	url := fmt.Sprintf("%s/api/registrations/%s", c.BaseURL, registrationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		utils.GetLogger().Sugar().Warnf("events: get registration %s failed: %v", registrationID, err)
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var reg models.EventRegistration
	if err := json.NewDecoder(resp.Body).Decode(&reg); err != nil {
		return nil, fmt.Errorf("failed to decode registration: %w", err)
	}
	return &reg, nil
}

// CheckInParticipant asks the collaborator to apply the check-in transition.
// The collaborator enforces its own idempotency; the response code mirrors
// the local check-in taxonomy.
func (c *Client) CheckInParticipant(ctx context.Context, registrationID string, manual bool) (*models.EventCheckInResponse, error) {
	url := fmt.Sprintf("%s/api/registrations/%s/checkin", c.BaseURL, registrationID)
	body, err := json.Marshal(map[string]bool{"manual": manual})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		utils.GetLogger().Sugar().Warnf("events: check-in %s failed: %v", registrationID, err)
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out models.EventCheckInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode check-in response: %w", err)
	}
	return &out, nil
}

// FetchLegacyCheckIn follows an old-format QR code that embeds a full
// check-in URL, and interprets the JSON response directly.
func (c *Client) FetchLegacyCheckIn(ctx context.Context, rawURL string) (*models.CheckInResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		utils.GetLogger().Sugar().Warnf("events: legacy check-in fetch failed: %v", err)
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out models.CheckInResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode legacy check-in response: %w", err)
	}
	return &out, nil
}
