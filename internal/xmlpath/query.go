// Package xmlpath resolves small structural queries against XML and HTML
// documents. Elements and attributes are matched by local name only, so
// `opf:package` and `package` select the same element.
package xmlpath

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuery is returned by ParseQuery for queries it cannot parse.
var ErrInvalidQuery = errors.New("invalid query")

// Wildcard matches an element with any local name.
const Wildcard = "*"

// Query is a path of element local names, optionally filtered by attribute
// equality predicates and terminated by an attribute projection.
//
// The first step matches any element in the document; every following step
// matches direct children of the previous step's matches.
// Query values are immutable: Where and Attr return modified copies.
type Query struct {
	steps []step
	attr  string
}

type step struct {
	name  string
	preds []predicate
}

type predicate struct {
	attr  string
	value string
}

// Path creates a query from element local names.
func Path(names ...string) Query {
	q := Query{steps: make([]step, 0, len(names))}
	for _, name := range names {
		q.steps = append(q.steps, step{name: localName(name)})
	}
	return q
}

// Where adds an attribute equality predicate to the last step.
func (q Query) Where(attr, value string) Query {
	c := q.clone()
	if len(c.steps) == 0 {
		c.steps = append(c.steps, step{name: Wildcard})
	}
	last := &c.steps[len(c.steps)-1]
	last.preds = append(last.preds, predicate{attr: localName(attr), value: value})
	return c
}

// Attr terminates the query with an attribute projection.
func (q Query) Attr(name string) Query {
	c := q.clone()
	c.attr = localName(name)
	return c
}

// Projection returns the projected attribute name, or "" for element queries.
func (q Query) Projection() string {
	return q.attr
}

// String renders the query in the syntax accepted by ParseQuery.
func (q Query) String() string {
	var b strings.Builder
	for i, st := range q.steps {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(st.name)
		for _, p := range st.preds {
			quote := "'"
			if strings.Contains(p.value, "'") {
				quote = `"`
			}
			fmt.Fprintf(&b, "[@%s=%s%s%s]", p.attr, quote, p.value, quote)
		}
	}
	if q.attr != "" {
		b.WriteString("/@")
		b.WriteString(q.attr)
	}
	return b.String()
}

func (q Query) clone() Query {
	c := Query{attr: q.attr, steps: make([]step, len(q.steps))}
	for i, st := range q.steps {
		c.steps[i] = step{name: st.name, preds: append([]predicate(nil), st.preds...)}
	}
	return c
}

// ParseQuery parses a textual query such as
//
//	package/manifest/item[@id='c1']/@href
//
// Leading slashes are ignored. Predicate values may be quoted with ' or ".
func ParseQuery(s string) (Query, error) {
	rest := strings.TrimLeft(strings.TrimSpace(s), "/")
	if rest == "" {
		return Query{}, fmt.Errorf("%w: empty query", ErrInvalidQuery)
	}

	parts, err := splitSteps(rest)
	if err != nil {
		return Query{}, err
	}

	var q Query
	for i, part := range parts {
		if part == "" {
			return Query{}, fmt.Errorf("%w: empty step in %q", ErrInvalidQuery, s)
		}
		if strings.HasPrefix(part, "@") {
			if i != len(parts)-1 {
				return Query{}, fmt.Errorf("%w: attribute projection must be the last step in %q", ErrInvalidQuery, s)
			}
			q.attr = localName(part[1:])
			continue
		}
		st, err := parseStep(part)
		if err != nil {
			return Query{}, fmt.Errorf("%w in %q", err, s)
		}
		q.steps = append(q.steps, st)
	}

	if len(q.steps) == 0 {
		return Query{}, fmt.Errorf("%w: no element steps in %q", ErrInvalidQuery, s)
	}
	if q.attr == "" && strings.HasSuffix(rest, "@") {
		return Query{}, fmt.Errorf("%w: empty attribute projection in %q", ErrInvalidQuery, s)
	}
	return q, nil
}

// splitSteps splits on '/' outside of quoted predicate values.
func splitSteps(s string) ([]string, error) {
	var parts []string
	var quote rune
	start := 0
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '/':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("%w: unterminated quote in %q", ErrInvalidQuery, s)
	}
	return append(parts, s[start:]), nil
}

func parseStep(s string) (step, error) {
	name := s
	rest := ""
	if i := strings.IndexByte(s, '['); i >= 0 {
		name, rest = s[:i], s[i:]
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "]=@'\"") {
		return step{}, fmt.Errorf("%w: bad element name %q", ErrInvalidQuery, name)
	}
	st := step{name: localName(name)}

	for rest != "" {
		if !strings.HasPrefix(rest, "[@") {
			return step{}, fmt.Errorf("%w: expected [@attr='value'] at %q", ErrInvalidQuery, rest)
		}
		rest = rest[2:]
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 || eq+1 >= len(rest) {
			return step{}, fmt.Errorf("%w: missing '=' in predicate", ErrInvalidQuery)
		}
		attr := strings.TrimSpace(rest[:eq])
		rest = rest[eq+1:]
		quote := rest[0]
		if quote != '\'' && quote != '"' {
			return step{}, fmt.Errorf("%w: predicate value must be quoted", ErrInvalidQuery)
		}
		end := strings.IndexByte(rest[1:], quote)
		if end < 0 {
			return step{}, fmt.Errorf("%w: unterminated predicate value", ErrInvalidQuery)
		}
		value := rest[1 : end+1]
		rest = rest[end+2:]
		if !strings.HasPrefix(rest, "]") {
			return step{}, fmt.Errorf("%w: missing ']' after predicate", ErrInvalidQuery)
		}
		rest = rest[1:]
		st.preds = append(st.preds, predicate{attr: localName(attr), value: value})
	}
	return st, nil
}

// matches reports whether an element with the given local name and attribute
// lookup satisfies the step.
func (st step) matches(local string, attr func(string) (string, bool)) bool {
	if st.name != Wildcard && st.name != local {
		return false
	}
	for _, p := range st.preds {
		v, ok := attr(p.attr)
		if !ok || v != p.value {
			return false
		}
	}
	return true
}

// localName strips a namespace prefix ("opf:item" -> "item").
func localName(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}
