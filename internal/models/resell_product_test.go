package models

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Galaxy S24 Ultra", "galaxy-s24-ultra"},
		{"Refurb'd  (Grade A)", "refurb-d---grade-a-"},
		{"simple", "simple"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.title); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}
