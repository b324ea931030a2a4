// Package textparse turns pasted free-form customer info into structured
// form fields. It is heuristic by design: labeled lines win, unlabeled
// lines are guessed at, and anything it cannot place is ignored.
package textparse

import (
	"regexp"
	"strings"
)

// Parsed is the partial result of a parse. Empty fields mean "nothing
// found", never "clear the form field".
type Parsed struct {
	Name      string
	Address   string
	Contact01 string
	Contact02 string
}

// Empty reports whether the parse produced nothing at all, in which case
// callers must not mutate form state or announce success.
func (p Parsed) Empty() bool {
	return p.Name == "" && p.Address == "" && p.Contact01 == "" && p.Contact02 == ""
}

type fieldKind int

const (
	fieldName fieldKind = iota
	fieldAddress
	fieldContact01
	fieldContact02
)

// Labeled patterns in priority order. The first pattern matching a line
// claims it; the captured remainder becomes the field value.
var labeledRules = []struct {
	re   *regexp.Regexp
	kind fieldKind
}{
	{regexp.MustCompile(`(?i)^(?:name|customer)\s*:\s*(.*)$`), fieldName},
	{regexp.MustCompile(`(?i)^(?:address|location)\s*:\s*(.*)$`), fieldAddress},
	{regexp.MustCompile(`(?i)^(?:whatsapp|phone|contact|mobile)\s*:\s*(.*)$`), fieldContact01},
	{regexp.MustCompile(`(?i)^(?:contact\s*2|phone\s*2|alternative)\s*:\s*(.*)$`), fieldContact02},
}

var nonDigits = regexp.MustCompile(`\D`)

// Parse processes the text line by line, top to bottom, each line decided
// independently with the first matching rule winning.
func Parse(text string) Parsed {
	var p Parsed
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if parseLabeled(line, &p) {
			continue
		}
		parseFallback(line, &p)
	}
	return p
}

func parseLabeled(line string, p *Parsed) bool {
	for _, rule := range labeledRules {
		m := rule.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		// A labeled line is claimed even when its value turns out blank,
		// so "Name:" on its own never falls through to the guesswork.
		if value := strings.TrimSpace(m[1]); value != "" {
			p.set(rule.kind, value)
		}
		return true
	}
	return false
}

// parseFallback guesses at unlabeled lines, but only for fields not yet
// set: a digit-free line is a name, a line with a comma is an address, and
// a line whose digits start with "0" and run at least 10 long is a contact.
func parseFallback(line string, p *Parsed) {
	digits := nonDigits.ReplaceAllString(line, "")
	switch {
	case digits == "" && p.Name == "":
		p.Name = line
	case strings.Contains(line, ",") && p.Address == "":
		p.Address = line
	case strings.HasPrefix(digits, "0") && len(digits) >= 10:
		p.setContact(digits[:10])
	}
}

func (p *Parsed) set(kind fieldKind, value string) {
	switch kind {
	case fieldName:
		p.Name = value
	case fieldAddress:
		p.Address = value
	case fieldContact01:
		p.Contact01 = value
	case fieldContact02:
		p.Contact02 = value
	}
}

// setContact fills contact01 first, then contact02, then drops extras.
func (p *Parsed) setContact(value string) {
	if p.Contact01 == "" {
		p.Contact01 = value
	} else if p.Contact02 == "" {
		p.Contact02 = value
	}
}
