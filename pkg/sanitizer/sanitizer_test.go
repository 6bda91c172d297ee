package sanitizer

import (
	"reflect"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims edges", "  Sunrise Podcast Studio  ", "Sunrise Podcast Studio"},
		{"collapses whitespace", "Sunrise \t  Podcast\nStudio", "Sunrise Podcast Studio"},
		{"strips control chars", "Sunrise\x00 Studio\x1b", "Sunrise Studio"},
		{"empty stays empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanSlice(t *testing.T) {
	in := []string{" Rode NT1 ", "Rode NT1", "", "  ", "Sony A7"}
	got := CleanSlice(in, CleanText)
	want := []string{"Rode NT1", "Sony A7"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("CleanSlice = %v, want %v", got, want)
	}
}
