package i18n

import (
	"golang.org/x/text/language"
)

// Language is a supported UI language code.
type Language string

const (
	Finnish Language = "fi"
	English Language = "en"
)

// DefaultLanguage is used when nothing valid is stored or configured.
const DefaultLanguage = Finnish

var (
	supported = []Language{Finnish, English}
	matcher   = language.NewMatcher([]language.Tag{language.Finnish, language.English})
)

// Supported returns the selectable languages in display order.
func Supported() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Tag returns the BCP 47 tag for l.
func (l Language) Tag() language.Tag {
	switch l {
	case English:
		return language.English
	default:
		return language.Finnish
	}
}

// ParseLanguage matches s against the supported languages. Regional and
// script variants resolve to their base language ("en-GB" is English).
// The bool is false when s is not a tag or matches nothing supported.
func ParseLanguage(s string) (Language, bool) {
	tag, err := languageTag(s)
	if err != nil {
		return DefaultLanguage, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return DefaultLanguage, false
	}
	return supported[idx], true
}

// Resolve is ParseLanguage without the ok flag.
func Resolve(s string) Language {
	lang, _ := ParseLanguage(s)
	return lang
}

// Next cycles to the following supported language.
func (l Language) Next() Language {
	for i, lang := range supported {
		if lang == l {
			return supported[(i+1)%len(supported)]
		}
	}
	return DefaultLanguage
}

// Prev cycles to the preceding supported language.
func (l Language) Prev() Language {
	for i, lang := range supported {
		if lang == l {
			return supported[(i+len(supported)-1)%len(supported)]
		}
	}
	return DefaultLanguage
}
