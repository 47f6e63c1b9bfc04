package season

import "testing"

func TestNextID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"S1", "S2"},
		{"S9", "S10"},
		{"season-09", "season-10"},
		{"", "S1"},
		{"legacy", "legacy2"},
	}

	for _, tc := range cases {
		if got := NextID(tc.in); got != tc.want {
			t.Fatalf("NextID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
