package domain

import (
	"fmt"
	"strings"
)

// AuthorProfile is a captured record of an author from an external
// paper database.
type AuthorProfile struct {
	// Name is the author's name as reported by the source.
	Name string

	// Affiliation is the author's institution, or "Unknown".
	Affiliation string

	// TopCited are titles of the author's most-cited papers.
	TopCited []string

	// RecentPapers are titles of the author's most recent papers.
	RecentPapers []string
}

// Text renders the profile as a plain-text document suitable for
// storage and summarization.
func (p *AuthorProfile) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Author: %s\n", p.Name)
	fmt.Fprintf(&b, "Affiliation: %s\n", p.Affiliation)
	if len(p.TopCited) > 0 {
		b.WriteString("Top cited papers:\n")
		for _, t := range p.TopCited {
			fmt.Fprintf(&b, "  - %s\n", t)
		}
	}
	if len(p.RecentPapers) > 0 {
		b.WriteString("Recent papers:\n")
		for _, t := range p.RecentPapers {
			fmt.Fprintf(&b, "  - %s\n", t)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
