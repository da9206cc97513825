// Package inflect derives plural forms of English identifiers. It is used to
// build default table names from record type names.
package inflect

import (
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type rule struct {
	re      *regexp.Regexp
	replace string
}

// Pluralizer converts singular identifiers to their plural form.
// A Pluralizer is immutable once built and safe for concurrent use.
type Pluralizer struct {
	uncountable map[string]struct{}
	irregular   map[string]string
	plurals     map[string]struct{}
	rules       []rule
}

// Option customizes a Pluralizer at construction time.
type Option func(*Pluralizer)

// WithIrregular registers an exception mapping, e.g. ("octopus", "octopodes").
func WithIrregular(singular, plural string) Option {
	return func(p *Pluralizer) {
		s, pl := lower(singular), lower(plural)
		delete(p.uncountable, s)
		p.irregular[s] = pl
		p.plurals[pl] = struct{}{}
	}
}

// WithUncountable registers words whose plural equals the singular.
func WithUncountable(words ...string) Option {
	return func(p *Pluralizer) {
		for _, w := range words {
			p.uncountable[lower(w)] = struct{}{}
		}
	}
}

// NewPluralizer builds the English rule table. Building the table compiles
// every suffix pattern, so callers should build once and reuse.
func NewPluralizer(opts ...Option) *Pluralizer {
	p := &Pluralizer{
		uncountable: make(map[string]struct{}, len(defaultUncountable)),
		irregular:   make(map[string]string, len(defaultIrregular)),
		plurals:     make(map[string]struct{}, len(defaultIrregular)),
		rules:       make([]rule, 0, len(defaultSuffixRules)),
	}
	for _, w := range defaultUncountable {
		p.uncountable[w] = struct{}{}
	}
	for _, pair := range defaultIrregular {
		p.irregular[pair[0]] = pair[1]
		p.plurals[pair[1]] = struct{}{}
	}
	for _, r := range defaultSuffixRules {
		p.rules = append(p.rules, rule{re: regexp.MustCompile(r[0]), replace: r[1]})
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Pluralize returns the plural form of word. Only the last segment of a
// snake_case, kebab-case or CamelCase identifier is inflected, and the
// casing of that segment is kept.
func (p *Pluralizer) Pluralize(word string) string {
	if word == "" {
		return word
	}
	head, last := splitLast(word)
	if last == "" {
		return word
	}
	return head + restoreCase(last, p.pluralizeLower(lower(last)))
}

func (p *Pluralizer) pluralizeLower(w string) string {
	if _, ok := p.uncountable[w]; ok {
		return w
	}
	if pl, ok := p.irregular[w]; ok {
		return pl
	}
	if _, ok := p.plurals[w]; ok {
		return w
	}
	for _, r := range p.rules {
		if r.re.MatchString(w) {
			return r.re.ReplaceAllString(w, r.replace)
		}
	}
	return w + "s"
}

// splitLast splits an identifier into everything before its last word and
// the last word itself.
func splitLast(s string) (string, string) {
	if i := strings.LastIndexAny(s, "_- "); i >= 0 {
		return s[:i+1], s[i+1:]
	}
	runes := []rune(s)
	for i := len(runes) - 1; i > 0; i-- {
		if unicode.IsUpper(runes[i]) && unicode.IsLower(runes[i-1]) {
			return string(runes[:i]), string(runes[i:])
		}
	}
	return "", s
}

// Casers carry state and must not be shared between goroutines, so a fresh
// one is built per call.
func lower(s string) string {
	return cases.Lower(language.English).String(s)
}

func upper(s string) string {
	return cases.Upper(language.English).String(s)
}

// restoreCase re-applies the casing of the original word to its inflected
// lower-case form.
func restoreCase(orig, plural string) string {
	lo := lower(orig)
	if orig == lo {
		return plural
	}
	if utf8.RuneCountInString(orig) > 1 && orig == upper(orig) {
		return upper(plural)
	}
	if len(lo) != len(orig) {
		return cases.Title(language.English).String(plural)
	}
	n := 0
	for n < len(lo) && n < len(plural) && lo[n] == plural[n] {
		n++
	}
	for n > 0 && n < len(lo) && !utf8.RuneStart(lo[n]) {
		n--
	}
	if n == 0 {
		return cases.Title(language.English).String(plural)
	}
	return orig[:n] + plural[n:]
}

// memoLimit caps the words Pluralize caches; later words are computed each call.
const memoLimit = 4096

var (
	defaultOnce = sync.OnceValue(func() *Pluralizer { return NewPluralizer() })
	memo        sync.Map
	memoSize    atomic.Int64
)

// Default returns the process-wide English pluralizer.
func Default() *Pluralizer {
	return defaultOnce()
}

// Pluralize pluralizes word with the default pluralizer. Up to memoLimit
// distinct words are memoized.
func Pluralize(word string) string {
	if v, ok := memo.Load(word); ok {
		return v.(string)
	}
	p := Default().Pluralize(word)
	if memoSize.Load() < memoLimit {
		if _, loaded := memo.LoadOrStore(word, p); !loaded {
			memoSize.Add(1)
		}
	}
	return p
}
