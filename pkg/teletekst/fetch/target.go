package fetch

import (
	"fmt"
	"strconv"
	"strings"
)

// Target identifies one teletext page image.
type Target struct {
	Page    int
	Subpage int
}

func (t Target) String() string {
	return fmt.Sprintf("%d-%d", t.Page, t.Subpage)
}

// Next is the first subpage of the following page.
func (t Target) Next() Target {
	return Target{Page: t.Page + 1, Subpage: 1}
}

// URLTemplate is a page image URL with {page} and {subpage} placeholders.
// The subpage is zero-padded to two digits.
type URLTemplate string

// Resolve substitutes t into the template.
func (u URLTemplate) Resolve(t Target) string {
	return strings.NewReplacer(
		"{page}", strconv.Itoa(t.Page),
		"{subpage}", fmt.Sprintf("%02d", t.Subpage),
	).Replace(string(u))
}

// Valid reports whether the template names both placeholders.
func (u URLTemplate) Valid() bool {
	s := string(u)
	return strings.Contains(s, "{page}") && strings.Contains(s, "{subpage}")
}
