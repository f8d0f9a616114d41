package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSpanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Span
	}{
		{"array", `[3, 7]`, Span{3, 7}},
		{"object", `{"start": 1, "end": 4}`, Span{1, 4}},
		{"short array", `[5]`, Span{-1, -1}},
		{"long array", `[1, 2, 3]`, Span{-1, -1}},
		{"string", `"oops"`, Span{-1, -1}},
		{"null", `null`, Span{-1, -1}},
		{"object missing end", `{"start": 1}`, Span{-1, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Span
			if err := json.Unmarshal([]byte(tt.in), &s); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if s != tt.want {
				t.Fatalf("got %+v want %+v", s, tt.want)
			}
		})
	}

	out, err := json.Marshal(Span{2, 9})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "[2,9]" {
		t.Fatalf("unexpected encoding %s", out)
	}
}

func TestMalformedSpanDoesNotRejectBundle(t *testing.T) {
	raw := `{"keys":{"pass1":[{"span":"bad","surface":"x","tag":"time"},{"span":[0,1],"surface":"I","tag":"time"}],"pass2":[],"pass3":[]},"cloze_short":[],"cloze_long":[]}`
	var c Candidates
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(c.Keys.Pass1) != 2 {
		t.Fatalf("expected both entries decoded, got %d", len(c.Keys.Pass1))
	}
	if c.Keys.Pass1[0].Span != invalidSpan {
		t.Fatalf("expected invalid span, got %+v", c.Keys.Pass1[0].Span)
	}
}

func TestParseLang(t *testing.T) {
	tests := []struct {
		in      string
		want    Lang
		wantErr bool
	}{
		{"en", English, false},
		{"EN", English, false},
		{"en-US", English, false},
		{"ja-JP", Japanese, false},
		{"zh-Hans", Chinese, false},
		{"zh", Chinese, false},
		{"fr", "", true},
		{"", "", true},
		{"not a tag!", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLang(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedLanguage) {
					t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLang(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseLang(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
