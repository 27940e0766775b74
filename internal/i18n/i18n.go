// Package i18n holds the label tables of the live views.
package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.English,
	language.Spanish,
	language.French,
	language.Portuguese,
}

var matcher = language.NewMatcher(supported)

// Languages lists the supported base language codes in cycling order.
func Languages() []string {
	out := make([]string, len(supported))
	for i, t := range supported {
		out[i] = base(t)
	}
	return out
}

func base(t language.Tag) string {
	b, _ := t.Base()
	return b.String()
}

// Match picks the best supported language for the given tags, falling
// back to English. POSIX locales such as "pt_BR.UTF-8" are accepted.
func Match(tags ...string) string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t, _, _ = strings.Cut(t, ".")
		t = strings.ReplaceAll(t, "_", "-")
		if t != "" && t != "C" && t != "POSIX" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return "en"
	}
	_, idx := language.MatchStrings(matcher, cleaned...)
	return base(supported[idx])
}

// Detect matches the language from the usual locale variables.
func Detect() string {
	return Match(os.Getenv("LC_ALL"), os.Getenv("LC_MESSAGES"), os.Getenv("LANG"))
}

// Translator looks up labels for one language.
type Translator struct {
	lang  string
	table map[string]string
}

// New returns a translator for lang, matching it against the supported set.
func New(lang string) *Translator {
	lang = Match(lang)
	return &Translator{lang: lang, table: tables[lang]}
}

func (t *Translator) Lang() string { return t.lang }

// Next returns a translator for the language after this one.
func (t *Translator) Next() *Translator {
	langs := Languages()
	for i, l := range langs {
		if l == t.lang {
			return New(langs[(i+1)%len(langs)])
		}
	}
	return New("en")
}

// T returns the label for key with {name} placeholders replaced from kv
// pairs. Missing keys fall back to English, then to the key.
func (t *Translator) T(key string, kv ...string) string {
	s, ok := t.table[key]
	if !ok {
		if s, ok = tables["en"][key]; !ok {
			s = key
		}
	}
	for i := 0; i+1 < len(kv); i += 2 {
		s = strings.ReplaceAll(s, "{"+kv[i]+"}", kv[i+1])
	}
	return s
}
