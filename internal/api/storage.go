package api

import (
	"context"
	"fmt"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/logging"
	"github.com/amirgolp/flashcard/internal/query"
)

// StorageConfigKey is the cache key of the storage configuration.
func StorageConfigKey() query.Key { return query.NewKey(query.FamilyStorage, "config") }

// StorageQuotaKey is the cache key of the storage quota.
func StorageQuotaKey() query.Key { return query.NewKey(query.FamilyStorage, "quota") }

// StorageConfig reports which storage backend is connected.
func (s *Service) StorageConfig(ctx context.Context) (domain.StorageConfig, error) {
	cfg, err := query.Fetch(ctx, s.cache, StorageConfigKey(), s.backend.GetStorageConfig)
	if err != nil {
		return domain.StorageConfig{}, err
	}
	return cfg, nil
}

// StorageQuota reports usage against the account limits.
func (s *Service) StorageQuota(ctx context.Context) (domain.StorageQuota, error) {
	quota, err := query.Fetch(ctx, s.cache, StorageQuotaKey(), s.backend.GetStorageQuota)
	if err != nil {
		return domain.StorageQuota{}, err
	}
	return quota, nil
}

// ConfigureTelegram connects the user's Telegram bot as storage.
func (s *Service) ConfigureTelegram(ctx context.Context, in domain.TelegramStorageConfig) (domain.TelegramConfigured, error) {
	if err := domain.Validate(in); err != nil {
		return domain.TelegramConfigured{}, err
	}
	res, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.TelegramConfigured, error) {
		return s.backend.ConfigureTelegram(ctx, in)
	}, query.FamilyStorage)
	if err != nil {
		return domain.TelegramConfigured{}, err
	}
	s.logger.Info("telegram storage configured", logging.String("user_id", res.UserID))
	return res, nil
}

// GoogleDriveAuthURL returns the consent URL for connecting Google Drive.
func (s *Service) GoogleDriveAuthURL(ctx context.Context) (domain.GoogleDriveAuth, error) {
	res, err := s.backend.GoogleDriveAuthURL(ctx)
	if err != nil {
		return domain.GoogleDriveAuth{}, err
	}
	return res, nil
}

// DisconnectStorage detaches the storage backend. It is refused while the
// storage still holds files.
func (s *Service) DisconnectStorage(ctx context.Context) (domain.Message, error) {
	quota, err := s.backend.GetStorageQuota(ctx)
	if err != nil {
		return domain.Message{}, err
	}
	if quota.FileCount > 0 {
		return domain.Message{}, fmt.Errorf("%w: delete %d file(s) first", ErrStorageInUse, quota.FileCount)
	}
	msg, err := query.Mutate(ctx, s.cache, s.backend.DisconnectStorage, query.FamilyStorage)
	if err != nil {
		return domain.Message{}, err
	}
	s.logger.Info("storage disconnected")
	return msg, nil
}
