package ocr

import (
	"strings"

	"golang.org/x/text/language"
)

// NormalizeLanguage maps a language code to its ISO 639-1 base ("eng" and
// "en-US" both become "en"). Codes that cannot be parsed are reported as
// UnknownLanguage.
func NormalizeLanguage(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || code == UnknownLanguage {
		return UnknownLanguage
	}

	// tesseract joins multiple models with '+' and names scripts with '_'
	code, _, _ = strings.Cut(code, "+")
	code, _, _ = strings.Cut(code, "_")

	tag, err := language.Parse(code)
	if err != nil {
		return UnknownLanguage
	}

	base, conf := tag.Base()
	if conf == language.No {
		return UnknownLanguage
	}

	return base.String()
}
