package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/amirgolp/flashcard/internal/domain"
)

const storagePath = "/storage"

func (c *Client) GetStorageConfig(ctx context.Context) (domain.StorageConfig, error) {
	var cfg domain.StorageConfig
	if err := c.doJSON(ctx, http.MethodGet, storagePath+"/config", nil, nil, &cfg); err != nil {
		return domain.StorageConfig{}, fmt.Errorf("get storage config: %w", err)
	}
	return cfg, nil
}

func (c *Client) GetStorageQuota(ctx context.Context) (domain.StorageQuota, error) {
	var quota domain.StorageQuota
	if err := c.doJSON(ctx, http.MethodGet, storagePath+"/quota", nil, nil, &quota); err != nil {
		return domain.StorageQuota{}, fmt.Errorf("get storage quota: %w", err)
	}
	return quota, nil
}

// ConfigureTelegram connects the user's own bot as the storage relay.
func (c *Client) ConfigureTelegram(ctx context.Context, in domain.TelegramStorageConfig) (domain.TelegramConfigured, error) {
	var out domain.TelegramConfigured
	if err := c.doJSON(ctx, http.MethodPost, storagePath+"/configure/telegram", nil, in, &out); err != nil {
		return domain.TelegramConfigured{}, fmt.Errorf("configure telegram storage: %w", err)
	}
	return out, nil
}

// GoogleDriveAuthURL starts the drive OAuth flow and returns the URL to visit.
func (c *Client) GoogleDriveAuthURL(ctx context.Context) (domain.GoogleDriveAuth, error) {
	var out domain.GoogleDriveAuth
	if err := c.doJSON(ctx, http.MethodGet, storagePath+"/configure/google-drive/auth", nil, nil, &out); err != nil {
		return domain.GoogleDriveAuth{}, fmt.Errorf("start google drive auth: %w", err)
	}
	return out, nil
}

func (c *Client) DisconnectStorage(ctx context.Context) (domain.Message, error) {
	var msg domain.Message
	if err := c.doJSON(ctx, http.MethodPost, storagePath+"/disconnect", nil, nil, &msg); err != nil {
		return domain.Message{}, fmt.Errorf("disconnect storage: %w", err)
	}
	return msg, nil
}
