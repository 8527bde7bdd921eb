package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(nil)

	t.Run("short text untouched", func(t *testing.T) {
		if got := tp.TruncateText("bonjour", 100); got != "bonjour" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("zero max disables truncation", func(t *testing.T) {
		long := strings.Repeat("a", 10000)
		if got := tp.TruncateText(long, 0); got != long {
			t.Error("text was truncated with maxSize 0")
		}
	})

	t.Run("long text truncated with marker", func(t *testing.T) {
		got := tp.TruncateText(strings.Repeat("a", 100), 10)
		if !strings.HasSuffix(got, "[... contenu tronqué ...]") {
			t.Errorf("missing truncation marker: %q", got)
		}
		if !strings.HasPrefix(got, strings.Repeat("a", 10)) {
			t.Errorf("unexpected prefix: %q", got)
		}
	})

	t.Run("does not split multibyte runes", func(t *testing.T) {
		// "é" is two bytes; cutting at 2 lands mid-rune
		got := tp.TruncateText("aéé", 2)
		if !utf8.ValidString(got) {
			t.Errorf("result is not valid UTF-8: %q", got)
		}
	})
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(nil)

	if got := tp.SanitizeUTF8("réunion à l'école"); got != "réunion à l'école" {
		t.Errorf("valid text altered: %q", got)
	}

	invalid := "abc\xff\xfedef"
	got := tp.SanitizeUTF8(invalid)
	if !utf8.ValidString(got) {
		t.Errorf("result still invalid: %q", got)
	}
	if !strings.Contains(got, "abc") || !strings.Contains(got, "def") {
		t.Errorf("valid content dropped: %q", got)
	}
}

func TestProcessText(t *testing.T) {
	tp := NewTextProcessor(nil)

	got := tp.ProcessText(strings.Repeat("b", 50)+"\xff", 20)
	if !utf8.ValidString(got) {
		t.Errorf("result not valid UTF-8: %q", got)
	}
	if !strings.Contains(got, "contenu tronqué") {
		t.Errorf("missing truncation marker: %q", got)
	}
}
