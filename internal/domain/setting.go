package domain

import (
	"sort"
	"strings"
	"time"
)

// Allowed settings keys.
const (
	SettingSiteTitle       = "site_title"
	SettingSiteDescription = "site_description"
	SettingSiteKeywords    = "site_keywords"
)

var allowedSettings = map[string]struct{}{
	SettingSiteTitle:       {},
	SettingSiteDescription: {},
	SettingSiteKeywords:    {},
}

// Setting is a site-wide key/value pair. Settings are overwritten, never deleted.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SettingKeys returns the allow-list in stable order.
func SettingKeys() []string {
	return []string{SettingSiteTitle, SettingSiteDescription, SettingSiteKeywords}
}

// IsAllowedSetting reports whether key is on the allow-list.
func IsAllowedSetting(key string) bool {
	_, ok := allowedSettings[key]
	return ok
}

// ValidateSettingKeys rejects any key outside the allow-list.
func ValidateSettingKeys(keys []string) error {
	var invalid []string
	for _, k := range keys {
		if !IsAllowedSetting(k) {
			invalid = append(invalid, k)
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	sort.Strings(invalid)
	verr := NewValidationError("settings keys not allowed: %s", strings.Join(invalid, ", "))
	for _, k := range invalid {
		verr.Fields = append(verr.Fields, FieldError{Field: k, Message: k + " is not an allowed settings key"})
	}
	return verr
}
