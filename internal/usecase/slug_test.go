package usecase

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Organic Chemistry", "organic-chemistry"},
		{"diacritics", "Électrochimie Avancée", "electrochimie-avancee"},
		{"punctuation runs", "Intro... to  C.S.!", "intro-to-c-s"},
		{"leading trailing", "--Biology 101--", "biology-101"},
		{"course code", "BIO-101.2", "bio-101-2"},
		{"only symbols", "!!!", ""},
		{"hebrew only", "כימיה אורגנית", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.in); got != tc.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
