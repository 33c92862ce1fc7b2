package identity

import (
	"strings"
	"testing"
)

func TestUserHash(t *testing.T) {
	h := UserHash("user-42")
	if len(h) != 16 {
		t.Errorf("hash length = %d, want 16", len(h))
	}
	if h != UserHash("user-42") {
		t.Error("hash not deterministic")
	}
	if h == UserHash("user-43") {
		t.Error("distinct users collide")
	}
	if strings.Contains(h, "user") {
		t.Error("raw id visible in hash")
	}
}

func TestSanitizeUserID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "plain", input: "user-42", want: "user-42", ok: true},
		{name: "trims whitespace", input: "  tg:12345  ", want: "tg:12345", ok: true},
		{name: "dots and underscores", input: "a.b_c", want: "a.b_c", ok: true},
		{name: "empty", input: "", ok: false},
		{name: "spaces inside", input: "user 42", ok: false},
		{name: "cyrillic", input: "пользователь", ok: false},
		{name: "too long", input: strings.Repeat("a", 129), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SanitizeUserID(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewSessionID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	if len(a) != 12 {
		t.Errorf("session id length = %d, want 12", len(a))
	}
	if a == b {
		t.Error("session ids not unique")
	}
	if strings.Contains(a, "-") {
		t.Errorf("session id %q contains a dash", a)
	}
}
