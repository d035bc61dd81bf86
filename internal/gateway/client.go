// Package gateway talks to the external WhatsApp gateway HTTP API. Only
// status and pairing reads are consumed here; the messaging protocol itself
// is not this service's concern.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/whatsapp-crm/internal/config"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// ChannelStatus describes the gateway-side state of one WhatsApp instance.
type ChannelStatus struct {
	InstanceID string `json:"instance_id"`
	Connected  bool   `json:"connected"`
	Phone      string `json:"phone,omitempty"`
	BatteryPct int    `json:"battery_pct,omitempty"`
	LastSeenAt string `json:"last_seen_at,omitempty"`
}

// PairingCode is a short-lived QR payload used to link a phone to an
// instance.
type PairingCode struct {
	InstanceID string `json:"instance_id"`
	QRCode     string `json:"qr_code"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

// Client queries the gateway, caching channel status in Redis.
type Client struct {
	baseURL  string
	apiToken string
	http     *http.Client
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewClient constructs a gateway client.
func NewClient(cfg config.GatewayConfig, cache *redis.Client, logger *zap.Logger) *Client {
	ttl := time.Duration(cfg.StatusCacheTTL) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		apiToken: cfg.APIToken,
		http:     &http.Client{Timeout: cfg.GatewayTimeout()},
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger,
	}
}

// InstanceStatus fetches channel status for a gateway instance, serving from
// cache when fresh.
func (c *Client) InstanceStatus(ctx context.Context, instanceID string) (*ChannelStatus, error) {
	cacheKey := "gateway:status:" + instanceID

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var status ChannelStatus
			if err := json.Unmarshal(cached, &status); err == nil {
				return &status, nil
			}
		}
	}

	status, err := c.fetchStatus(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if raw, err := json.Marshal(status); err == nil {
			if err := c.cache.Set(ctx, cacheKey, raw, c.cacheTTL).Err(); err != nil {
				c.logger.Warn("gateway status cache write failed", zap.Error(err))
			}
		}
	}
	return status, nil
}

// PairingQR fetches the current pairing QR code for a disconnected instance.
// QR codes rotate every few seconds, so responses are never cached.
func (c *Client) PairingQR(ctx context.Context, instanceID string) (*PairingCode, error) {
	url := fmt.Sprintf("%s/instances/%s/qr", c.baseURL, instanceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamError("gateway", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewNotFound("gateway instance", "GATEWAY_INSTANCE_NOT_FOUND")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamError("gateway", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var code PairingCode
	if err := json.NewDecoder(resp.Body).Decode(&code); err != nil {
		return nil, apperrors.NewUpstreamError("gateway", err)
	}
	return &code, nil
}

func (c *Client) fetchStatus(ctx context.Context, instanceID string) (*ChannelStatus, error) {
	url := fmt.Sprintf("%s/instances/%s/status", c.baseURL, instanceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamError("gateway", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewNotFound("gateway instance", "GATEWAY_INSTANCE_NOT_FOUND")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamError("gateway", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var status ChannelStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, apperrors.NewUpstreamError("gateway", err)
	}
	status.InstanceID = instanceID
	return &status, nil
}
