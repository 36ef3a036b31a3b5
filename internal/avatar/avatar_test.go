package avatar

import (
	"strings"
	"testing"
)

func TestURL(t *testing.T) {
	got := URL("alice")
	want := "https://api.dicebear.com/7.x/avataaars/svg?seed=alice"
	if got != want {
		t.Errorf("URL(alice) = %q, want %q", got, want)
	}
}

func TestURL_EscapesSeed(t *testing.T) {
	got := URL("mr. big & co")
	if !strings.Contains(got, "seed=mr.+big+%26+co") {
		t.Errorf("seed not escaped: %q", got)
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		name  string
		hosts []string
		raw   string
		want  bool
	}{
		{"empty list allows any host", nil, "https://example.com/a.png", true},
		{"listed host", []string{"api.dicebear.com"}, URL("alice"), true},
		{"unlisted host", []string{"api.dicebear.com"}, "https://evil.example/a.png", false},
		{"host match is case insensitive", []string{"CDN.Example.COM"}, "https://cdn.example.com/a.png", true},
		{"plain http allowed", []string{"example.com"}, "http://example.com/a.png", true},
		{"non-http scheme", nil, "ftp://example.com/a.png", false},
		{"javascript scheme", nil, "javascript:alert(1)", false},
		{"relative url has no host", nil, "/avatars/a.png", false},
		{"empty string", nil, "", false},
		{"whitespace in list entries ignored", []string{"  example.com  ", ""}, "https://example.com/a.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewAllowlist(tt.hosts).Allowed(tt.raw); got != tt.want {
				t.Errorf("Allowed(%q) with hosts %v = %v, want %v", tt.raw, tt.hosts, got, tt.want)
			}
		})
	}
}
