package docspace

import "strings"

// Locales the workspace ships translations for. Anything else falls back to
// defaultLocale before being handed to the frame.
var supportedLocales = map[string]string{
	"de":    "de-DE",
	"en":    "en-US",
	"en-gb": "en-GB",
	"es":    "es-ES",
	"fr":    "fr-FR",
	"it":    "it-IT",
	"nl":    "nl-NL",
	"pl":    "pl-PL",
	"pt":    "pt-PT",
	"pt-br": "pt-BR",
	"ru":    "ru-RU",
	"uk":    "uk-UA",
	"zh":    "zh-CN",
}

const defaultLocale = "en-US"

// LocaleFor maps a CRM locale tag onto the workspace locale set. Exact tags
// win over bare-language matches.
func LocaleFor(tag string) string {
	tag = strings.ToLower(strings.ReplaceAll(tag, "_", "-"))
	if tag == "" {
		return defaultLocale
	}
	if locale, ok := supportedLocales[tag]; ok {
		return locale
	}
	if lang, _, found := strings.Cut(tag, "-"); found {
		if locale, ok := supportedLocales[lang]; ok {
			return locale
		}
	}
	return defaultLocale
}
