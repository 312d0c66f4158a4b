package pipeline

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer removes unsafe constructs from rendered HTML.
type Sanitizer interface {
	Sanitize(html string) string
}

// classPattern accepts space-separated class tokens made of letters,
// digits, dashes and underscores.
var classPattern = regexp.MustCompile(`^[A-Za-z0-9_\- ]+$`)

// PolicySanitizer is a bluemonday policy tuned for preview output: the
// UGC baseline plus the classes used by math markers, diagram containers
// and chroma, and the checkboxes of GFM task lists.
type PolicySanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds the preview policy. The policy is immutable after
// construction and safe for concurrent use.
func NewSanitizer() *PolicySanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(classPattern).OnElements("span", "div", "pre", "code")
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	p.AllowElements("mark")
	return &PolicySanitizer{policy: p}
}

// Sanitize implements Sanitizer.
func (s *PolicySanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}

var _ Sanitizer = (*PolicySanitizer)(nil)
