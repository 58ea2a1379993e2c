package videoproc

import (
	"strings"
	"testing"
)

func TestEscapeDrawtext(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"it's", `it\'s`},
		{"a:b", `a\:b`},
		{"100%", `100\%`},
		{`back\slash`, `back\\slash`},
	}

	for _, tc := range cases {
		if got := escapeDrawtext(tc.in); got != tc.want {
			t.Errorf("escapeDrawtext(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWatermarkFilterEscapesText(t *testing.T) {
	filter := watermarkFilter("site:example")

	if !strings.Contains(filter, `text='site\:example'`) {
		t.Errorf("text not escaped in filter: %s", filter)
	}

	if !strings.Contains(filter, "x=w-tw-10:y=h-th-10") {
		t.Errorf("expected bottom-right placement: %s", filter)
	}
}
