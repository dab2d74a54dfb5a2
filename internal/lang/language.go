// Package lang validates and normalizes language codes, and carries the list
// of regional variants the translator can target.
package lang

import (
	"fmt"
	"strings"
)

// validLanguages contains ISO 639-1 language codes accepted by the
// transcription API. Not exhaustive, but covers the common languages.
var validLanguages = map[string]bool{
	"af": true, "ar": true, "bg": true, "bn": true, "ca": true,
	"cs": true, "da": true, "de": true, "el": true, "en": true,
	"es": true, "et": true, "fa": true, "fi": true, "fr": true,
	"gu": true, "he": true, "hi": true, "hr": true, "hu": true,
	"id": true, "it": true, "ja": true, "kn": true, "ko": true,
	"lt": true, "lv": true, "mk": true, "ml": true, "mr": true,
	"ms": true, "nl": true, "no": true, "pa": true, "pl": true,
	"pt": true, "ro": true, "ru": true, "sk": true, "sl": true,
	"sr": true, "sv": true, "sw": true, "ta": true, "te": true,
	"th": true, "tl": true, "tr": true, "uk": true, "ur": true,
	"vi": true, "zh": true,
}

// Normalize normalizes a language code to lowercase with hyphen separator.
// Accepts: "pt-BR", "pt_BR", "PT-BR", "pt-br" -> "pt-br"
func Normalize(lang string) string {
	return strings.ToLower(strings.ReplaceAll(lang, "_", "-"))
}

// Validate checks if the language code is valid.
// Accepts ISO 639-1 codes (e.g., "en", "fr") and locales (e.g., "pt-BR").
// Returns ErrInvalid if the base language is not recognized.
func Validate(lang string) error {
	if lang == "" {
		return nil // Empty means auto-detect, which is valid
	}

	if !validLanguages[BaseCode(lang)] {
		return fmt.Errorf("invalid language code %q (use ISO 639-1 codes like 'en', 'fr', 'pt-BR'): %w",
			lang, ErrInvalid)
	}

	return nil
}

// BaseCode extracts the ISO 639-1 base language code from a locale.
// The transcription API only accepts base codes, not regional variants.
// Examples: "pt-BR" -> "pt", "zh-CN" -> "zh", "en" -> "en"
func BaseCode(lang string) string {
	if lang == "" {
		return ""
	}
	normalized := Normalize(lang)
	if idx := strings.Index(normalized, "-"); idx != -1 {
		return normalized[:idx]
	}
	return normalized
}

// Variant is a regional language variant the translator can target.
type Variant struct {
	Code   string // Locale code, e.g. "pt-BR"
	Name   string // Language name in its own language
	Region string // Region in English
}

// DisplayName returns the variant formatted for prompts and menus,
// e.g. "Português (Brasil)".
func (v Variant) DisplayName() string {
	return fmt.Sprintf("%s (%s)", v.Name, v.Region)
}

// Variants lists the regional variants supported by the translator, in menu
// order. The slice is freshly allocated on each call so callers may reorder it.
func Variants() []Variant {
	return []Variant{
		{"pt-BR", "Português", "Brasil"},
		{"pt-PT", "Português", "Portugal"},
		{"es-ES", "Español", "España"},
		{"es-MX", "Español", "México"},
		{"es-AR", "Español", "Argentina"},
		{"es-CO", "Español", "Colombia"},
		{"fr-FR", "Français", "France"},
		{"fr-CA", "Français", "Canada"},
		{"de-DE", "Deutsch", "Deutschland"},
		{"de-AT", "Deutsch", "Österreich"},
		{"ja-JP", "日本語", "Japan"},
		{"ru-RU", "Русский", "Russia"},
		{"ar-SA", "العربية", "Saudi Arabia"},
		{"ar-EG", "العربية", "Egypt"},
		{"ar-MA", "العربية", "Morocco"},
		{"ko-KR", "한국어", "Korea"},
		{"en-US", "English", "United States"},
		{"en-GB", "English", "United Kingdom"},
		{"en-CA", "English", "Canada"},
		{"en-AU", "English", "Australia"},
	}
}

// FindVariant returns the variant for a locale code, matching
// case-insensitively. The second return is false when the code is unknown.
func FindVariant(code string) (Variant, bool) {
	normalized := Normalize(code)
	for _, v := range Variants() {
		if Normalize(v.Code) == normalized {
			return v, true
		}
	}
	return Variant{}, false
}
