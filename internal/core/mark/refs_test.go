package mark

import "testing"

func TestRelPath(t *testing.T) {
	cases := []struct {
		name string
		root string
		ref  string
		want string
	}{
		{"inside workspace", "/ws", "file:///ws/src/main.go", "src/main.go"},
		{"no scheme", "/ws", "/ws/src/main.go", "src/main.go"},
		{"outside workspace", "/ws", "file:///tmp/scratch.go", "/tmp/scratch.go"},
		{"no root", "", "file:///ws/src/main.go", "/ws/src/main.go"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RelPath(tc.root, tc.ref); got != tc.want {
				t.Errorf("RelPath(%q, %q) = %q, want %q", tc.root, tc.ref, got, tc.want)
			}
		})
	}
}

func TestAbsRefRoundTrip(t *testing.T) {
	root := "/ws"
	ref := AbsRef(root, "src/main.go")
	if ref != "file:///ws/src/main.go" {
		t.Fatalf("AbsRef = %q", ref)
	}
	if got := RelPath(root, ref); got != "src/main.go" {
		t.Errorf("round trip = %q, want src/main.go", got)
	}
}

func TestAbsRefAbsoluteInput(t *testing.T) {
	if got := AbsRef("/ws", "/tmp/x.go"); got != "file:///tmp/x.go" {
		t.Errorf("AbsRef absolute = %q", got)
	}
}
