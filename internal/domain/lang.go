package domain

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Lang is a supported passage language.
type Lang string

const (
	English  Lang = "en"
	Japanese Lang = "ja"
	Chinese  Lang = "zh"
)

// ErrUnsupportedLanguage is returned for any language outside en/ja/zh.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Tier selects cloze density.
type Tier string

const (
	TierShort Tier = "short"
	TierLong  Tier = "long"
)

// Supported reports whether l is one of the engine languages.
func (l Lang) Supported() bool {
	switch l {
	case English, Japanese, Chinese:
		return true
	}
	return false
}

// ParseLang normalizes a BCP 47 tag ("ja-JP", "zh-Hans", "EN") to a supported Lang.
func ParseLang(s string) (Lang, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("parse language: %w: empty", ErrUnsupportedLanguage)
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parse language %q: %w", s, ErrUnsupportedLanguage)
	}
	base, _ := tag.Base()
	l := Lang(base.String())
	if !l.Supported() {
		return "", fmt.Errorf("parse language %q: %w", s, ErrUnsupportedLanguage)
	}
	return l, nil
}
