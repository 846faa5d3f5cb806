package commerce

import (
	"encoding/json"
	"time"

	"krubolab/internal/localstore"

	"github.com/rs/zerolog"
)

// SessionKeys names the storage keys of the admin session flags.
type SessionKeys struct {
	Authenticated string
	ActiveTab     string
}

// DefaultSessionKeys returns the keys used by the storefront.
func DefaultSessionKeys() SessionKeys {
	return SessionKeys{
		Authenticated: "isAuthenticated",
		ActiveTab:     "krubolab-admin-active-tab",
	}
}

type activeTab struct {
	TabID string    `json:"tabId"`
	At    time.Time `json:"at"`
}

// AdminSession stores the client-side "admin is logged in" flag. Logging in
// does not set it; the caller does after a successful password check.
type AdminSession struct {
	storage localstore.Storage
	keys    SessionKeys
	logger  zerolog.Logger
	now     func() time.Time
}

// NewAdminSession creates a session bound to storage.
func NewAdminSession(storage localstore.Storage, keys SessionKeys, logger zerolog.Logger) *AdminSession {
	return &AdminSession{
		storage: storage,
		keys:    keys,
		logger:  logger,
		now:     time.Now,
	}
}

// SetAuthenticated sets or clears the flag.
func (s *AdminSession) SetAuthenticated(ok bool) {
	var err error
	if ok {
		err = s.storage.Set(s.keys.Authenticated, "true")
	} else {
		err = s.storage.Remove(s.keys.Authenticated)
	}
	if err != nil {
		s.logger.Warn().Err(err).Bool("authenticated", ok).Msg("failed to store admin session flag")
	}
}

// IsAuthenticated reports whether the flag is set.
func (s *AdminSession) IsAuthenticated() bool {
	v, ok, err := s.storage.Get(s.keys.Authenticated)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read admin session flag")
		return false
	}
	return ok && v == "true"
}

// MarkActiveTab records tabID as the last active admin client.
func (s *AdminSession) MarkActiveTab(tabID string) {
	data, err := json.Marshal(activeTab{TabID: tabID, At: s.now().UTC()})
	if err == nil {
		err = s.storage.Set(s.keys.ActiveTab, string(data))
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("tab_id", tabID).Msg("failed to store active admin tab")
	}
}

// ActiveTab returns the last active admin client, if any.
func (s *AdminSession) ActiveTab() (string, bool) {
	v, ok, err := s.storage.Get(s.keys.ActiveTab)
	if err != nil || !ok {
		return "", false
	}

	var tab activeTab
	if err := json.Unmarshal([]byte(v), &tab); err != nil || tab.TabID == "" {
		return "", false
	}
	return tab.TabID, true
}

// Clear removes both the flag and the active tab marker.
func (s *AdminSession) Clear() {
	s.SetAuthenticated(false)
	if err := s.storage.Remove(s.keys.ActiveTab); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear active admin tab")
	}
}
