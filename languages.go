package bilingo

import "strings"

// LanguageNames maps language codes to the names used in backend prompts.
var LanguageNames = map[string]string{
	"zh":    "Simplified Chinese",
	"zh-CN": "Simplified Chinese",
	"zh-TW": "Traditional Chinese",
	"en":    "English",
	"ja":    "Japanese",
	"ko":    "Korean",
	"de":    "German",
	"fr":    "French",
	"es":    "Spanish",
	"pt":    "Portuguese",
	"ru":    "Russian",
	"ar":    "Arabic",
	"he":    "Hebrew",
}

// rtlLanguages contains base codes of right-to-left languages.
var rtlLanguages = map[string]bool{
	"ar": true,
	"he": true,
	"fa": true,
	"ur": true,
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(code string) string {
	code = ToHTMLLang(code)
	if name, ok := LanguageNames[code]; ok {
		return name
	}
	if name, ok := LanguageNames[baseLang(code)]; ok {
		return name
	}
	return code
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(code string) string {
	if rtlLanguages[baseLang(code)] {
		return "rtl"
	}
	return "ltr"
}

// ToHTMLLang converts a locale code to HTML lang attribute format (e.g., "zh_CN" → "zh-CN").
func ToHTMLLang(code string) string {
	return strings.ReplaceAll(code, "_", "-")
}

// baseLang extracts the base language code (e.g., "zh" from "zh-CN").
func baseLang(code string) string {
	code = ToHTMLLang(code)
	if i := strings.Index(code, "-"); i >= 0 {
		code = code[:i]
	}
	return strings.ToLower(code)
}
