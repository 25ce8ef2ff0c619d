package httpx

import "testing"

func TestAnswersMatch(t *testing.T) {
	cases := []struct {
		got, want string
		match     bool
	}{
		{"Au", "au", true},
		{"  mitochondria ", "mitochondria", true},
		{"120", "120", true},
		{"120.005", "120", true}, // numeric tolerance
		{"120.5", "120", false},
		{"0.75", "3/4", false}, // fractions are not parsed
		{"newton", "joule", false},
		{"", "x", false},
	}
	for _, c := range cases {
		if got := answersMatch(c.got, c.want); got != c.match {
			t.Errorf("answersMatch(%q, %q) = %v, want %v", c.got, c.want, got, c.match)
		}
	}
}
