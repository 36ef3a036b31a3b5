package avatar

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultHost serves the generated fallback avatars.
const DefaultHost = "api.dicebear.com"

// URL derives a deterministic avatar image URL for a contact seed. The
// image itself is never fetched or parsed here; the string is handed to
// whatever surface displays it.
func URL(seed string) string {
	return fmt.Sprintf("https://%s/7.x/avataaars/svg?seed=%s", DefaultHost, url.QueryEscape(seed))
}

// Allowlist restricts which hosts avatar URLs may point at. An empty
// allowlist permits any host.
type Allowlist struct {
	hosts map[string]bool
}

func NewAllowlist(hosts []string) Allowlist {
	a := Allowlist{hosts: make(map[string]bool, len(hosts))}
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			a.hosts[h] = true
		}
	}
	return a
}

// Allowed reports whether the avatar URL is displayable: parseable, an
// http(s) URL, and on an allowlisted host when the allowlist is non-empty.
func (a Allowlist) Allowed(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if parsed.Hostname() == "" {
		return false
	}
	if len(a.hosts) == 0 {
		return true
	}
	return a.hosts[strings.ToLower(parsed.Hostname())]
}
