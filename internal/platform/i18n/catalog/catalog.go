// Package catalog loads the embedded message catalogs and registers them with
// golang.org/x/text/message.
//
// Catalog files live at locales/<locale>/<namespace>.yaml and use a flat,
// quoted subset of YAML:
//
//	locale: "en-US"
//	messages:
//	  "web.login.title": "Sign in"
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the source locale every other catalog is checked against.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embedded embed.FS

var defaultBundle = mustLoadAndRegister()

// Default returns the process-wide embedded bundle. Its messages are
// registered with the x/text default catalog at package init.
func Default() *Bundle {
	return defaultBundle
}

// Bundle holds messages keyed by locale then message key.
type Bundle struct {
	locales map[string]map[string]string
}

// LoadFromFS parses every locales/*/*.yaml file in fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	slices.Sort(paths)

	b := &Bundle{locales: map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		locale, messages, err := parseFile(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if dir := path.Base(path.Dir(p)); locale != dir {
			return nil, fmt.Errorf("catalog %s: locale %q must match directory %q", p, locale, dir)
		}
		if err := b.add(p, locale, messages); err != nil {
			return nil, err
		}
	}

	base, ok := b.locales[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}
	for locale, messages := range b.locales {
		for key := range messages {
			if _, ok := base[key]; !ok {
				return nil, fmt.Errorf("locale %s: key %q is missing from %s", locale, key, BaseLocale)
			}
		}
	}
	return b, nil
}

func (b *Bundle) add(file, locale string, messages map[string]string) error {
	target, ok := b.locales[locale]
	if !ok {
		target = map[string]string{}
		b.locales[locale] = target
	}
	for key, value := range messages {
		if _, exists := target[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %s", file, key, locale)
		}
		target[key] = value
	}
	return nil
}

// Register installs every message with message.SetString. A regional locale
// is also registered under its base language, so "pt" resolves like "pt-BR".
func (b *Bundle) Register() error {
	if b == nil {
		return nil
	}
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, conf := tag.Base(); conf != language.No {
			if baseTag, err := language.Parse(base.String()); err == nil && baseTag != tag {
				tags = append(tags, baseTag)
			}
		}
		for key, value := range b.locales[locale] {
			for _, t := range tags {
				if err := message.SetString(t, key, value); err != nil {
					return fmt.Errorf("register %s %q: %w", t, key, err)
				}
			}
		}
	}
	return nil
}

// Locales returns the loaded locale identifiers in sorted order.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	slices.Sort(out)
	return out
}

// Message returns the message for key in locale, falling back to BaseLocale.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	if value, ok := b.locales[strings.TrimSpace(locale)][key]; ok {
		return value, true
	}
	value, ok := b.locales[BaseLocale][key]
	return value, ok
}

// Keys returns the sorted message keys of locale.
func (b *Bundle) Keys(locale string) []string {
	if b == nil {
		return nil
	}
	messages := b.locales[locale]
	out := make([]string, 0, len(messages))
	for key := range messages {
		out = append(out, key)
	}
	slices.Sort(out)
	return out
}

func mustLoadAndRegister() *Bundle {
	b, err := LoadFromFS(embedded)
	if err != nil {
		panic(err)
	}
	if err := b.Register(); err != nil {
		panic(err)
	}
	return b
}

func parseFile(data string) (string, map[string]string, error) {
	locale := ""
	messages := map[string]string{}
	inMessages := false

	for n, raw := range strings.Split(data, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "locale:"):
			value, err := strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "locale:")))
			if err != nil {
				return "", nil, fmt.Errorf("line %d: locale: %w", n+1, err)
			}
			locale = strings.TrimSpace(value)
		case line == "messages:":
			inMessages = true
		case inMessages:
			key, value, err := parseEntry(line)
			if err != nil {
				return "", nil, fmt.Errorf("line %d: %w", n+1, err)
			}
			if _, exists := messages[key]; exists {
				return "", nil, fmt.Errorf("line %d: duplicate key %q", n+1, key)
			}
			messages[key] = value
		default:
			return "", nil, fmt.Errorf("line %d: unexpected %q", n+1, line)
		}
	}
	if locale == "" {
		return "", nil, fmt.Errorf("missing locale")
	}
	if len(messages) == 0 {
		return "", nil, fmt.Errorf("missing messages")
	}
	return locale, messages, nil
}

// parseEntry splits a `"key": "value"` line.
func parseEntry(line string) (string, string, error) {
	if !strings.HasPrefix(line, `"`) {
		return "", "", fmt.Errorf("expected quoted key in %q", line)
	}
	end := closingQuote(line)
	if end < 0 {
		return "", "", fmt.Errorf("unterminated key in %q", line)
	}
	key, err := strconv.Unquote(line[:end+1])
	if err != nil {
		return "", "", fmt.Errorf("unquote key: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("blank key")
	}
	rest, ok := strings.CutPrefix(strings.TrimSpace(line[end+1:]), ":")
	if !ok {
		return "", "", fmt.Errorf("missing ':' after key %q", key)
	}
	value, err := strconv.Unquote(strings.TrimSpace(rest))
	if err != nil {
		return "", "", fmt.Errorf("unquote value of %q: %w", key, err)
	}
	return key, value, nil
}

func closingQuote(s string) int {
	escaped := false
	for i := 1; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == '"':
			return i
		}
	}
	return -1
}
