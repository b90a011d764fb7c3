package middleware

import "testing"

func TestIsAdmin(t *testing.T) {
	cases := []struct {
		name   string
		claims map[string]any
		want   bool
	}{
		{"nil claims", nil, false},
		{"admin flag", map[string]any{"admin": true}, true},
		{"admin flag false", map[string]any{"admin": false}, false},
		{"role string", map[string]any{"role": "admin"}, true},
		{"roles array", map[string]any{"roles": []interface{}{"educator", "admin"}}, true},
		{"unrelated", map[string]any{"role": "member"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsAdmin(c.claims); got != c.want {
				t.Errorf("IsAdmin(%v) = %v, want %v", c.claims, got, c.want)
			}
		})
	}
}

func TestIsEducator(t *testing.T) {
	cases := []struct {
		name   string
		claims map[string]any
		want   bool
	}{
		{"nil claims", nil, false},
		{"educator flag", map[string]any{"educator": true}, true},
		{"role string", map[string]any{"role": "educator"}, true},
		{"accountType", map[string]any{"accountType": "educator"}, true},
		{"roles array", map[string]any{"roles": []interface{}{"educator"}}, true},
		{"member only", map[string]any{"role": "member"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsEducator(c.claims); got != c.want {
				t.Errorf("IsEducator(%v) = %v, want %v", c.claims, got, c.want)
			}
		})
	}
}
