package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

var localeFiles = []string{
	"locales/active.en.toml",
	"locales/active.zh.toml",
}

var supportedMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Chinese,
})

// Catalog holds the loaded messages for one language.
type Catalog struct {
	localizer *goi18n.Localizer
	lang      language.Tag
}

// NewCatalog loads the embedded locales and picks a language from
// langOverride, then SIGNCFG_LANG, LC_ALL, LC_MESSAGES and LANG, then the
// platform locale, falling back to English.
func NewCatalog(langOverride string) (*Catalog, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	lang := DetectLanguage(langOverride, os.Getenv)
	return &Catalog{
		localizer: goi18n.NewLocalizer(bundle, lang.String(), language.English.String()),
		lang:      lang,
	}, nil
}

// Language returns the chosen language.
func (c *Catalog) Language() language.Tag {
	return c.lang
}

// T translates id. Unknown ids are returned unchanged.
func (c *Catalog) T(id string, data ...map[string]interface{}) string {
	var templateData map[string]interface{}
	if len(data) > 0 {
		templateData = data[0]
	}

	msg, err := c.localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:      id,
		TemplateData:   templateData,
		PluralCount:    pluralCount(templateData),
		DefaultMessage: &goi18n.Message{ID: id, Other: id},
	})
	if err != nil || msg == "" {
		return id
	}
	return msg
}

var (
	mu      sync.Mutex
	current *Catalog
)

// Init sets the process-wide catalog.
func Init(langOverride string) error {
	c, err := NewCatalog(langOverride)
	if err != nil {
		return err
	}
	mu.Lock()
	current = c
	mu.Unlock()
	return nil
}

// T translates id with the process-wide catalog, initializing it on first use.
func T(id string, data ...map[string]interface{}) string {
	mu.Lock()
	c := current
	mu.Unlock()

	if c == nil {
		if err := Init(""); err != nil {
			fmt.Fprintf(os.Stderr, "i18n init failed: %v\n", err)
			return id
		}
		mu.Lock()
		c = current
		mu.Unlock()
	}
	return c.T(id, data...)
}

// DetectLanguage picks the best supported language from an explicit override
// and the locale environment variables.
func DetectLanguage(override string, getenv func(string) string) language.Tag {
	var candidates []string
	if override != "" {
		candidates = append(candidates, override)
	}
	for _, key := range []string{"SIGNCFG_LANG", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if val := strings.TrimSpace(getenv(key)); val != "" {
			candidates = append(candidates, val)
		}
	}
	if len(candidates) == 0 {
		candidates = getPlatformLocales()
	}

	var tags []language.Tag
	for _, cand := range candidates {
		// zh_CN.UTF-8 -> zh-CN
		clean := strings.TrimSpace(cand)
		if idx := strings.Index(clean, "."); idx >= 0 {
			clean = clean[:idx]
		}
		clean = strings.ReplaceAll(clean, "_", "-")

		if strings.EqualFold(clean, "C") || strings.EqualFold(clean, "POSIX") {
			continue
		}
		if tag, err := language.Parse(clean); err == nil {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return language.English
	}

	tag, _, confidence := supportedMatcher.Match(tags...)
	if confidence == language.No {
		return language.English
	}
	base, _ := tag.Base()
	if base.String() == "zh" {
		return language.Chinese
	}
	return language.English
}

func pluralCount(data map[string]interface{}) interface{} {
	for _, key := range []string{"count", "Count"} {
		if val, ok := data[key]; ok {
			return val
		}
	}
	return nil
}
