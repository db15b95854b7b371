package shader

import "testing"

func TestTerminate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "\x00"},
		{"void main() {}", "void main() {}\x00"},
		{"void main() {}\x00", "void main() {}\x00"},
		{"x\x00\x00", "x\x00"},
	}
	for _, tt := range tests {
		if got := Terminate(tt.in); got != tt.want {
			t.Errorf("Terminate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInfoLog(t *testing.T) {
	got := infoLog(8, func(buf []byte) {
		copy(buf, "bad\n\x00\x00\x00\x00")
	})
	if got != "bad" {
		t.Errorf("infoLog = %q, want %q", got, "bad")
	}
	if got := infoLog(0, nil); got != "(no log)" {
		t.Errorf("empty infoLog = %q", got)
	}
}
