package telegram

import (
	"encoding/json"
	"net/url"
	"strings"

	"quizgram/internal/domain"

	"go.uber.org/zap"
)

// LaunchData is the Mini-App launch context as supplied by the client.
// The host may expose a pre-parsed user object, a raw init-data query
// string, or both.
type LaunchData struct {
	User     *RawUser `json:"user,omitempty"`
	InitData string   `json:"init_data,omitempty"`
}

// RawUser mirrors the WebAppUser shape of the Telegram Mini-App API.
type RawUser struct {
	ID        json.Number `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Username  string      `json:"username"`
}

// Resolver extracts a best-effort user identity from launch data.
// Identity is context, not a hard dependency: resolution never fails,
// it degrades to an empty TelegramUserInfo.
type Resolver struct {
	logger *zap.Logger
}

func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger}
}

type extractStrategy func(LaunchData) (domain.TelegramUserInfo, bool)

// Resolve tries each extraction strategy in order; the first success
// wins. Both paths share the same name resolution rules.
func (r *Resolver) Resolve(data LaunchData) domain.TelegramUserInfo {
	strategies := []extractStrategy{
		r.fromStructuredUser,
		r.fromInitData,
	}
	for _, extract := range strategies {
		if info, ok := extract(data); ok {
			return info
		}
	}
	return domain.TelegramUserInfo{}
}

func (r *Resolver) fromStructuredUser(data LaunchData) (domain.TelegramUserInfo, bool) {
	if data.User == nil {
		return domain.TelegramUserInfo{}, false
	}
	return userInfo(*data.User)
}

// fromInitData parses the raw launch-data blob as a query string and
// decodes its "user" parameter. Any parse failure is logged and
// reported as a miss, never an error.
func (r *Resolver) fromInitData(data LaunchData) (domain.TelegramUserInfo, bool) {
	if data.InitData == "" {
		return domain.TelegramUserInfo{}, false
	}

	values, err := url.ParseQuery(data.InitData)
	if err != nil {
		r.logger.Warn("Failed to parse init data as query string", zap.Error(err))
		return domain.TelegramUserInfo{}, false
	}

	userParam := values.Get("user")
	if userParam == "" {
		return domain.TelegramUserInfo{}, false
	}

	var user RawUser
	if err := json.Unmarshal([]byte(userParam), &user); err != nil {
		r.logger.Warn("Failed to decode user parameter from init data", zap.Error(err))
		return domain.TelegramUserInfo{}, false
	}
	return userInfo(user)
}

// userInfo applies the name resolution rules: name is the first name if
// present, else the username; fullName joins first and last name when
// both exist.
func userInfo(user RawUser) (domain.TelegramUserInfo, bool) {
	info := domain.TelegramUserInfo{ID: user.ID.String()}

	switch {
	case user.FirstName != "":
		info.Name = user.FirstName
	case user.Username != "":
		info.Name = user.Username
	}

	fullName := strings.TrimSpace(user.FirstName + " " + user.LastName)
	switch {
	case fullName != "":
		info.FullName = fullName
	case user.Username != "":
		info.FullName = user.Username
	}

	if info == (domain.TelegramUserInfo{}) {
		return info, false
	}
	return info, true
}
