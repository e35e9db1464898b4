package domain

// Storage backends a user can connect.
const (
	StorageTelegram    = "telegram"
	StorageGoogleDrive = "google_drive"
)

// StorageQuota reports account-level usage against the subscription limits.
type StorageQuota struct {
	UsedBytes        int64  `json:"used_bytes"`
	MaxBytes         int64  `json:"max_bytes"`
	FileCount        int    `json:"file_count"`
	MaxFiles         int    `json:"max_files"`
	SubscriptionTier string `json:"subscription_tier"`
}

// RemainingBytes is never negative.
func (q StorageQuota) RemainingBytes() int64 {
	if q.UsedBytes >= q.MaxBytes {
		return 0
	}
	return q.MaxBytes - q.UsedBytes
}

// UsedPercent returns usage in the range [0, 100].
func (q StorageQuota) UsedPercent() float64 {
	if q.MaxBytes <= 0 {
		return 0
	}
	pct := float64(q.UsedBytes) / float64(q.MaxBytes) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// FilesExhausted reports whether no more files may be uploaded.
func (q StorageQuota) FilesExhausted() bool {
	return q.FileCount >= q.MaxFiles
}

// StorageConfig describes the connected storage backend, if any.
type StorageConfig struct {
	StorageType  string       `json:"storage_type,omitempty"`
	IsConfigured bool         `json:"is_configured"`
	Quota        StorageQuota `json:"quota"`
}

// TelegramStorageConfig connects a user's own bot as the storage relay.
type TelegramStorageConfig struct {
	BotToken string `json:"bot_token" validate:"required"`
	UserID   string `json:"user_id" validate:"required"`
}

// TelegramConfigured is the backend's reply to a telegram configure call.
type TelegramConfigured struct {
	Message     string `json:"message"`
	StorageType string `json:"storage_type"`
	UserID      string `json:"user_id"`
}

// GoogleDriveAuth carries the URL the user visits to grant drive access.
type GoogleDriveAuth struct {
	AuthorizationURL string `json:"authorization_url"`
	Message          string `json:"message"`
}

// Message is the generic acknowledgement body. The backend uses either
// "detail" or "message" depending on the endpoint.
type Message struct {
	Detail  string `json:"detail,omitempty"`
	Message string `json:"message,omitempty"`
}

// Text returns whichever field is set.
func (m Message) Text() string {
	if m.Detail != "" {
		return m.Detail
	}
	return m.Message
}
