package arg

import (
	"slices"
	"testing"
)

func TestParseTags(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "empty", input: "", expect: []string{}},
		{name: "commas", input: "work,home", expect: []string{"work", "home"}},
		{name: "mixed separators", input: "#work, home  errands", expect: []string{"work", "home", "errands"}},
		{name: "bare hash", input: "# work", expect: []string{"work"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseTags(tc.input)
			if !slices.Equal(got, tc.expect) {
				t.Fatalf("ParseTags(%q) = %v, want %v", tc.input, got, tc.expect)
			}
		})
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"a", "b", "a", "c", "b"})
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("expected [a b c], got %v", got)
	}
}

func TestHandleContent(t *testing.T) {
	cases := []struct {
		name   string
		args   []string
		expect string
	}{
		{name: "nothing after skip", args: []string{"title"}, expect: ""},
		{name: "joined body", args: []string{"title", "buy", "milk"}, expect: "buy milk"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := HandleContent(tc.args, 1)
			if got != tc.expect {
				t.Fatalf("HandleContent(%v) = %q, want %q", tc.args, got, tc.expect)
			}
		})
	}
}
