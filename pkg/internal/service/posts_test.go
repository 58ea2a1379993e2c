package service

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Summer Trip", "summer-trip"},
		{"punctuation", "Hello, World!", "hello-world"},
		{"collapses separators", "a  -  b", "a-b"},
		{"leading and trailing", "  Wrapped  ", "wrapped"},
		{"digits kept", "Top 10 Shots 2026", "top-10-shots-2026"},
		{"non ascii dropped", "कब जेब photo", "photo"},
		{"empty", "!!!", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := slugify(tc.in); got != tc.want {
				t.Errorf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
