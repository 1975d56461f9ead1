package store

import "strings"

// Global keys. Their spelling is part of the on-device format and must not
// change.
const (
	HiddenModesKey    = "hidden_modes"
	CustomModesKey    = "custom_modes"
	ThemeKey          = "@anchor_theme"
	LanguageKey       = "@anchor_language"
	NavigationHintKey = "@anchor_navigation_hint_seen"

	userPhrasesPrefix   = "user_phrases"
	hiddenPhrasesPrefix = "hidden_phrases"
	keySeparator        = ":"
)

// Scope addresses one overlay bucket. Phase is empty for flat content.
type Scope struct {
	Mode     string
	Language string
	Phase    string
}

// UserPhrasesKey is user_phrases:{mode}:{language}[:{phase}].
func (s Scope) UserPhrasesKey() string {
	return s.key(userPhrasesPrefix)
}

// HiddenPhrasesKey is hidden_phrases:{mode}:{language}[:{phase}].
func (s Scope) HiddenPhrasesKey() string {
	return s.key(hiddenPhrasesPrefix)
}

func (s Scope) key(prefix string) string {
	parts := []string{prefix, s.Mode, s.Language}
	if s.Phase != "" {
		parts = append(parts, s.Phase)
	}
	return strings.Join(parts, keySeparator)
}

// IsOverlayKey reports whether key holds a user-phrase list or a hidden-phrase
// set for some scope.
func IsOverlayKey(key string) bool {
	return strings.HasPrefix(key, userPhrasesPrefix+keySeparator) ||
		strings.HasPrefix(key, hiddenPhrasesPrefix+keySeparator)
}

// ParseScope splits an overlay key back into its scope.
func ParseScope(key string) (Scope, bool) {
	if !IsOverlayKey(key) {
		return Scope{}, false
	}
	parts := strings.Split(key, keySeparator)
	switch len(parts) {
	case 3:
		return Scope{Mode: parts[1], Language: parts[2]}, true
	case 4:
		return Scope{Mode: parts[1], Language: parts[2], Phase: parts[3]}, true
	default:
		return Scope{}, false
	}
}

// namespace is the key segment before the first separator, without a
// leading '@'. The diskv adapter uses it as the directory for the key.
func namespace(key string) string {
	ns, _, _ := strings.Cut(key, keySeparator)
	ns = strings.TrimPrefix(ns, "@")
	if ns == "" {
		return "_"
	}
	return ns
}
