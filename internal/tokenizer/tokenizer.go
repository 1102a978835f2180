package tokenizer

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// DefaultMaxLength caps the rune length of a kept token.
const DefaultMaxLength = 60

var (
	// DefaultSkipTags are subtrees that never carry visible odds text.
	DefaultSkipTags = []string{"script", "style", "noscript", "template", "svg", "head"}
	// DefaultBoilerplate drops cookie banners, links and legal footers.
	DefaultBoilerplate = []string{"cookie", "javascript", "http://", "https://", "©", "privacy", "copyright"}
)

// Options tunes token normalisation.
type Options struct {
	MaxLength   int      `mapstructure:"max_length"`
	SkipTags    []string `mapstructure:"skip_tags"`
	Boilerplate []string `mapstructure:"boilerplate"`
}

// DefaultOptions returns the stock normalisation settings.
func DefaultOptions() Options {
	return Options{
		MaxLength:   DefaultMaxLength,
		SkipTags:    append([]string(nil), DefaultSkipTags...),
		Boilerplate: append([]string(nil), DefaultBoilerplate...),
	}
}

func (o Options) withDefaults() Options {
	if o.MaxLength <= 0 {
		o.MaxLength = DefaultMaxLength
	}
	if o.SkipTags == nil {
		o.SkipTags = DefaultSkipTags
	}
	if o.Boilerplate == nil {
		o.Boilerplate = DefaultBoilerplate
	}
	return o
}

// Tokenize converts an HTML document into trimmed visible text tokens in
// document order. Unparseable or empty input yields no tokens.
func Tokenize(html string, opts Options) []string {
	if strings.TrimSpace(html) == "" {
		return nil
	}
	opts = opts.withDefaults()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	if len(opts.SkipTags) > 0 {
		doc.Find(strings.Join(opts.SkipTags, ",")).Remove()
	}

	var tokens []string
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			switch goquery.NodeName(c) {
			case "#text":
				tokens = appendLines(tokens, c.Text(), opts)
			case "#comment":
			default:
				walk(c)
			}
		})
	}
	walk(doc.Selection)
	return tokens
}

// Lines normalises a pre-rendered text dump, one token per line.
func Lines(text string, opts Options) []string {
	return appendLines(nil, text, opts.withDefaults())
}

func appendLines(tokens []string, text string, opts Options) []string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || utf8.RuneCountInString(line) > opts.MaxLength {
			continue
		}
		if isBoilerplate(line, opts.Boilerplate) {
			continue
		}
		tokens = append(tokens, line)
	}
	return tokens
}

func isBoilerplate(line string, keywords []string) bool {
	lower := strings.ToLower(line)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
