package domain

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// legacyCompat is the system identifier HTML5 allows for XML-producing generators.
const legacyCompat = "about:legacy-compat"

// Doctype is a document type declaration.
type Doctype struct {
	Name     string
	PublicID string
	SystemID string
}

// IsHTML5 reports whether the declaration is the HTML5 doctype.
func (d Doctype) IsHTML5() bool {
	return d.Name == "html" && d.PublicID == "" && (d.SystemID == "" || d.SystemID == legacyCompat)
}

// LeadingDoctype returns the doctype declaration the fragment begins with.
// A byte order mark, leading whitespace, comments and an XML declaration are skipped.
func (f Fragment) LeadingDoctype() (Doctype, bool) {
	z := html.NewTokenizer(strings.NewReader(strings.TrimPrefix(string(f), "\ufeff")))
	for {
		switch z.Next() {
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) != "" {
				return Doctype{}, false
			}
		case html.CommentToken:
			// The tokenizer reports "<?xml ...?>" as a bogus comment.
			continue
		case html.DoctypeToken:
			return parseDoctype(string(z.Text())), true
		default:
			return Doctype{}, false
		}
	}
}

// IsHTML5 reports whether the fragment begins with an HTML5 doctype declaration.
func (f Fragment) IsHTML5() bool {
	d, ok := f.LeadingDoctype()
	return ok && d.IsHTML5()
}

func parseDoctype(raw string) Doctype {
	name, rest := nextField(strings.TrimSpace(raw))
	d := Doctype{Name: strings.ToLower(name)}

	keyword, rest := nextField(rest)
	ids := quotedStrings(rest)

	switch strings.ToUpper(keyword) {
	case "PUBLIC":
		if len(ids) > 0 {
			d.PublicID = ids[0]
		}
		if len(ids) > 1 {
			d.SystemID = ids[1]
		}
	case "SYSTEM":
		if len(ids) > 0 {
			d.SystemID = ids[0]
		}
	}
	return d
}

func nextField(s string) (field, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}

func quotedStrings(s string) []string {
	var out []string
	for {
		start := strings.IndexAny(s, `"'`)
		if start < 0 {
			return out
		}
		quote := s[start]
		end := strings.IndexByte(s[start+1:], quote)
		if end < 0 {
			return out
		}
		out = append(out, s[start+1:start+1+end])
		s = s[start+end+2:]
	}
}
