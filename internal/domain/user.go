package domain

// TelegramUserInfo is the identity extracted from Telegram Mini-App
// launch data. Derived per request, never persisted. All fields are
// best effort; an empty struct means identity could not be resolved.
type TelegramUserInfo struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// HasID reports whether a stable user id was resolved. Telegram
// delivery is gated on this.
func (u TelegramUserInfo) HasID() bool {
	return u.ID != ""
}
