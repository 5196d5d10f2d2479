package textfilter

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v2"
)

//go:embed words.yaml
var defaultWords []byte

type wordList struct {
	Words   []string `yaml:"words"`
	Phrases []string `yaml:"phrases"`
}

// Filter flags comments that contain blocked words.
type Filter struct {
	words   map[string]struct{}
	phrases []string
}

// New loads the embedded list, or the YAML file at path when set.
func New(path string) (*Filter, error) {
	raw := defaultWords
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read word list: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Filter, error) {
	var list wordList
	if err := yaml.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parse word list: %w", err)
	}
	f := &Filter{words: make(map[string]struct{}, len(list.Words))}
	for _, w := range list.Words {
		if n := normalize(w); n != "" {
			f.words[n] = struct{}{}
		}
	}
	for _, p := range list.Phrases {
		if n := strings.Join(tokens(p), " "); n != "" {
			f.phrases = append(f.phrases, n)
		}
	}
	return f, nil
}

var leet = strings.NewReplacer("4", "a", "@", "a", "3", "e", "1", "i", "0", "o", "$", "s", "5", "s")

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(fold(s)))
}

func tokens(s string) []string {
	s = leet.Replace(normalize(s))
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// IsProfane reports whether text holds a blocked word or phrase.
func (f *Filter) IsProfane(text string) bool {
	toks := tokens(text)
	for _, t := range toks {
		if _, ok := f.words[t]; ok {
			return true
		}
	}
	if len(f.phrases) == 0 {
		return false
	}
	joined := " " + strings.Join(toks, " ") + " "
	for _, p := range f.phrases {
		if strings.Contains(joined, " "+p+" ") {
			return true
		}
	}
	return false
}

var emojiPattern = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{1F1E6}-\x{1F1FF}\x{FE0F}\x{200D}\x{E0020}-\x{E007F}]`)

// ContainsEmoji reports whether text has any emoji or emoji modifier.
func ContainsEmoji(text string) bool {
	return emojiPattern.MatchString(text)
}
