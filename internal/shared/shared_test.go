package shared

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSlugify(t *testing.T) {
	tc := []struct {
		name  string
		title string
		want  string
	}{
		{name: "basic title", title: "Kind Of Blue", want: "Kind-Of-Blue"},
		{name: "punctuation and ampersand", title: "A, B & C", want: "A-B--C"},
		{name: "repeated whitespace", title: "  Blue   Train  ", want: "Blue-Train"},
		{name: "tabs and newlines", title: "Love\tSupreme\nLive", want: "Love-Supreme-Live"},
		{name: "vertical tab", title: "Side\vA", want: "Side-A"},
		{name: "non-breaking space", title: "Kind\u00a0Of Blue", want: "Kind-Of-Blue"},
		{name: "thin and ideographic spaces", title: "Kind\u2009Of\u3000Blue", want: "Kind-Of-Blue"},
		{name: "empty title", title: "", want: ""},
		{name: "only punctuation", title: "?!", want: ""},
		{name: "non ascii letters stripped", title: "Björk Début", want: "Bjrk-Dbut"},
		{name: "existing hyphens kept", title: "Re-Up", want: "Re-Up"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.title)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}

	t.Run("only alphanumerics and separators", func(t *testing.T) {
		allowed := regexp.MustCompile(`^[A-Za-z0-9-]*$`)
		for _, title := range []string{"A, B & C", "Sgt. Pepper's Lonely Hearts Club Band", "(What's the Story) Morning Glory?"} {
			if got := Slugify(title); !allowed.MatchString(got) {
				t.Errorf("Slugify(%q) = %q contains disallowed characters", title, got)
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		first := Slugify("Kind Of Blue")
		for range 10 {
			if got := Slugify("Kind Of Blue"); got != first {
				t.Fatalf("expected %q, got %q", first, got)
			}
		}
	})
}

func TestPager(t *testing.T) {
	items := make([]int, 12)
	for i := range items {
		items[i] = i
	}

	t.Run("batches of five", func(t *testing.T) {
		p := NewPager(items, HistoryBatchSize)

		if len(p.Visible()) != 5 {
			t.Fatalf("expected 5 visible, got %d", len(p.Visible()))
		}
		if !p.HasMore() {
			t.Fatal("expected more entries after first batch")
		}

		next := p.More()
		if len(next) != 5 || next[0] != 5 {
			t.Errorf("expected second batch to start at 5 with 5 entries, got %v", next)
		}
		if len(p.Visible()) != 10 {
			t.Errorf("expected 10 visible, got %d", len(p.Visible()))
		}

		last := p.More()
		if len(last) != 2 {
			t.Errorf("expected final batch of 2, got %d", len(last))
		}
		if p.HasMore() {
			t.Error("expected no further batch")
		}
		if extra := p.More(); extra != nil {
			t.Errorf("expected nil after exhaustion, got %v", extra)
		}
		if p.Shown() != 12 || p.Remaining() != 0 {
			t.Errorf("expected all 12 shown, got shown=%d remaining=%d", p.Shown(), p.Remaining())
		}
	})

	t.Run("fewer than one batch", func(t *testing.T) {
		p := NewPager(items[:3], 0)
		if len(p.Visible()) != 3 || p.HasMore() {
			t.Errorf("expected 3 visible and no more, got %d visible", len(p.Visible()))
		}
	})

	t.Run("empty snapshot", func(t *testing.T) {
		p := NewPager([]int{}, 5)
		if len(p.Visible()) != 0 || p.HasMore() {
			t.Error("expected empty pager with no more batches")
		}
	})

	t.Run("Reveal", func(t *testing.T) {
		p := NewPager(items, 5)
		p.Reveal(2)
		if p.Shown() != 10 {
			t.Errorf("expected 10 shown after two batches, got %d", p.Shown())
		}
		p.Reveal(10)
		if p.Shown() != 12 {
			t.Errorf("expected 12 shown, got %d", p.Shown())
		}
	})
}

func TestLogging(t *testing.T) {
	t.Run("ParseLogLevel", func(t *testing.T) {
		if got := ParseLogLevel("DEBUG"); got != log.DebugLevel {
			t.Errorf("expected debug level, got %v", got)
		}
		if got := ParseLogLevel("nonsense"); got != log.InfoLevel {
			t.Errorf("expected fallback to info, got %v", got)
		}
	})

	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "run_id", "abc")
		logger.Info("hello")
		if !strings.Contains(buf.String(), "run_id=abc") {
			t.Errorf("expected child logger fields in output, got %q", buf.String())
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		if GenerateID() == GenerateID() {
			t.Error("expected unique ids")
		}
	})
}
