package fakeapi

import (
	"net/http"
	"net/url"

	"github.com/amirgolp/flashcard/internal/domain"
)

func (s *Server) storageConfig(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, domain.StorageConfig{
		StorageType:  acct.storageType,
		IsConfigured: acct.storageType != "",
		Quota:        acct.quota,
	})
}

func (s *Server) storageQuota(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, acct.quota)
}

func (s *Server) configureTelegram(w http.ResponseWriter, r *http.Request) {
	var in domain.TelegramStorageConfig
	if !decodeBody(w, r, &in) {
		return
	}
	var missing []string
	if in.BotToken == "" {
		missing = append(missing, "bot_token")
	}
	if in.UserID == "" {
		missing = append(missing, "user_id")
	}
	if len(missing) > 0 {
		writeMissing(w, missing...)
		return
	}
	acct := accountFrom(r)
	s.mu.Lock()
	acct.storageType = domain.StorageTelegram
	acct.telegramID = in.UserID
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, domain.TelegramConfigured{
		Message:     "Telegram storage configured successfully",
		StorageType: domain.StorageTelegram,
		UserID:      in.UserID,
	})
}

func (s *Server) googleDriveAuth(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("scope", "https://www.googleapis.com/auth/drive.file")
	q.Set("state", acct.user.ID)
	writeJSON(w, http.StatusOK, domain.GoogleDriveAuth{
		AuthorizationURL: "https://accounts.google.com/o/oauth2/auth?" + q.Encode(),
		Message:          "Visit the authorization URL to connect Google Drive",
	})
}

func (s *Server) disconnect(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if acct.storageType == "" {
		writeDetail(w, http.StatusBadRequest, "No storage configured")
		return
	}
	acct.storageType = ""
	acct.telegramID = ""
	writeJSON(w, http.StatusOK, domain.Message{Message: "Storage disconnected successfully"})
}
