// Package i18n holds reacto's Finnish and English UI text.
//
// Messages live in embedded YAML files under locales/ and are registered in
// an x/text catalog, so lookups go through message.Printer and support
// printf-style arguments. Finnish is the default language.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
	"gopkg.in/yaml.v3"

	"github.com/mrreacto/reacto/internal/log"
)

//go:embed locales/*.yaml locales/*.md
var localesFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog is the loaded set of translations for every supported language.
type Catalog struct {
	builder  *catalog.Builder
	messages map[Language]map[string]string
	help     map[Language]string
}

var defaultCatalog = mustLoad()

// Default returns the embedded catalog.
func Default() *Catalog {
	return defaultCatalog
}

func mustLoad() *Catalog {
	c, err := Load(localesFS)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads locales/<lang>.yaml and locales/help_<lang>.md for every
// supported language from fsys. Each locale must define exactly the keys of
// the default language.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{
		builder:  catalog.NewBuilder(catalog.Fallback(DefaultLanguage.Tag())),
		messages: make(map[Language]map[string]string),
		help:     make(map[Language]string),
	}

	for _, lang := range Supported() {
		file, err := readCatalogFile(fsys, lang)
		if err != nil {
			return nil, err
		}
		for key, value := range file.Messages {
			if err := c.builder.SetString(lang.Tag(), key, value); err != nil {
				return nil, fmt.Errorf("register %s/%s: %w", lang, key, err)
			}
		}
		c.messages[lang] = file.Messages

		help, err := fs.ReadFile(fsys, path.Join("locales", "help_"+string(lang)+".md"))
		if err != nil {
			return nil, fmt.Errorf("read help for %s: %w", lang, err)
		}
		c.help[lang] = string(help)
	}

	if err := c.checkKeys(); err != nil {
		return nil, err
	}
	return c, nil
}

func readCatalogFile(fsys fs.FS, lang Language) (catalogFile, error) {
	name := path.Join("locales", string(lang)+".yaml")
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return catalogFile{}, fmt.Errorf("read catalog %s: %w", name, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return catalogFile{}, fmt.Errorf("parse catalog %s: %w", name, err)
	}
	if strings.TrimSpace(file.Locale) != string(lang) {
		return catalogFile{}, fmt.Errorf("catalog %s: locale %q does not match file name", name, file.Locale)
	}
	if len(file.Messages) == 0 {
		return catalogFile{}, fmt.Errorf("catalog %s: no messages", name)
	}
	return file, nil
}

// checkKeys reports keys that exist in one locale but not another.
func (c *Catalog) checkKeys() error {
	base := c.messages[DefaultLanguage]
	for _, lang := range Supported() {
		if lang == DefaultLanguage {
			continue
		}
		var missing, extra []string
		for key := range base {
			if _, ok := c.messages[lang][key]; !ok {
				missing = append(missing, key)
			}
		}
		for key := range c.messages[lang] {
			if _, ok := base[key]; !ok {
				extra = append(extra, key)
			}
		}
		if len(missing) > 0 || len(extra) > 0 {
			sort.Strings(missing)
			sort.Strings(extra)
			return fmt.Errorf("catalog %s out of sync with %s: missing %v, extra %v", lang, DefaultLanguage, missing, extra)
		}
	}
	return nil
}

// Keys returns every message key in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.messages[DefaultLanguage]))
	for key := range c.messages[DefaultLanguage] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Translator returns a Translator for lang.
func (c *Catalog) Translator(lang Language) *Translator {
	if _, ok := c.messages[lang]; !ok {
		log.Warn(log.CatI18n, "Unsupported language, using default", "language", lang)
		lang = DefaultLanguage
	}
	return &Translator{
		lang:    lang,
		printer: message.NewPrinter(lang.Tag(), message.Catalog(c.builder)),
		catalog: c,
	}
}

// Translator renders messages in one language.
type Translator struct {
	lang    Language
	printer *message.Printer
	catalog *Catalog
}

// Language returns the translator's language.
func (t *Translator) Language() Language {
	return t.lang
}

// T formats the message registered under key. Unknown keys render as the
// key itself.
func (t *Translator) T(key string, args ...any) string {
	if _, ok := t.catalog.messages[t.lang][key]; !ok {
		log.Debug(log.CatI18n, "Missing translation", "language", t.lang, "key", key)
		return key
	}
	return t.printer.Sprintf(key, ungrouped(args)...)
}

// ungrouped wraps integers so the printer does not insert locale digit
// grouping ("3600" rather than "3,600" or "3 600").
func ungrouped(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		switch arg.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			out[i] = number.Decimal(arg, number.NoSeparator())
		default:
			out[i] = arg
		}
	}
	return out
}

// WindowTitle is "<app name> - <tagline>".
func (t *Translator) WindowTitle() string {
	return t.T(KeyWindowTitle, t.T(KeyAppName), t.T(KeyAppTagline))
}

// Help returns the markdown help page.
func (t *Translator) Help() string {
	return t.catalog.help[t.lang]
}

// Must-match with locales/*.yaml.
const (
	KeyAppName      = "app.name"
	KeyAppTagline   = "app.tagline"
	KeyWindowTitle  = "app.window_title"
	KeyConfigTitle  = "config.title"
	KeyDuration     = "config.duration"
	KeyMinInterval  = "config.min_interval"
	KeyMaxInterval  = "config.max_interval"
	KeyStart        = "config.start"
	KeyDurationMin  = "config.duration_min"
	KeyDurationMax  = "config.duration_max"
	KeyDurationHelp = "config.duration_help"
	KeyMinPositive  = "config.min_interval_positive"
	KeyMaxGreater   = "config.max_interval_greater"
	KeyNotANumber   = "config.not_a_number"

	KeyTrainingTitle = "training.title"
	KeyRemaining     = "training.remaining"
	KeyStop          = "training.stop"

	KeyLanguage = "language.label"

	KeyToastComplete       = "toast.session_complete"
	KeyToastStopped        = "toast.session_stopped"
	KeyToastPlaybackFailed = "toast.playback_failed"
	KeyToastPrefsFailed    = "toast.prefs_failed"
	KeyToastConfigReloaded = "toast.config_reloaded"

	KeyHelpHint = "help.hint"

	KeyKeysNextField = "keys.next_field"
	KeyKeysPrevField = "keys.prev_field"
	KeyKeysLanguage  = "keys.language"
	KeyKeysStart     = "keys.start"
	KeyKeysStop      = "keys.stop"
	KeyKeysHelp      = "keys.help"
	KeyKeysQuit      = "keys.quit"
)

// LanguageNameKey is the message key for a language's display name.
func LanguageNameKey(lang Language) string {
	return "language." + string(lang)
}

// languageTag parses with x/text so tags like "en-GB" are accepted.
func languageTag(s string) (language.Tag, error) {
	return language.Parse(strings.TrimSpace(s))
}
