package content

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Sanitize strips all HTML from the input string. The terminal renderer
// only understands markdown, so any markup that survives pasting or the
// canned dataset is removed rather than displayed raw. Entities escaped by
// the policy are unescaped back to plain text.
func Sanitize(input string) string {
	return html.UnescapeString(policy.Sanitize(input))
}
