// Copyright (C) 2017 ScyllaDB

package cqlschema

import (
	"strings"
)

// ParseCreateTable parses the restricted CREATE TABLE form
//
//	CREATE TABLE [IF NOT EXISTS] [keyspace.]name (col type, ..., PRIMARY KEY (...)) [WITH ...]
//
// into a validated Table. Generic types may nest (set<text>,
// frozen<set<tuple<inet, smallint>>>). A composite partition key is written
// as a parenthesized first component of the primary key. Table properties
// after WITH are ignored, they are descriptor metadata, not structure.
func ParseCreateTable(cql string) (Table, error) {
	s := strings.TrimSpace(cql)
	if s == "" {
		return Table{}, invalidSchemaf("empty schema text")
	}

	s, ok := cutPrefixFold(s, "CREATE TABLE")
	if !ok {
		return Table{}, invalidSchemaf("not a CREATE TABLE statement")
	}
	if r, ok := cutPrefixFold(s, "IF NOT EXISTS"); ok {
		s = r
	}

	open := strings.IndexByte(s, '(')
	if open < 0 {
		return Table{}, invalidSchemaf("missing column list")
	}
	name := strings.TrimSpace(s[:open])
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return Table{}, invalidSchemaf("invalid table name %q", name)
	}

	closing := matchParen(s, open)
	if closing < 0 {
		return Table{}, invalidSchemaf("%s: unterminated column list", name)
	}
	if trailing := strings.TrimSpace(s[closing+1:]); trailing != "" && !hasPrefixFold(trailing, "WITH") {
		return Table{}, invalidSchemaf("%s: unexpected trailing input %q", name, trailing)
	}

	t := Table{Name: name}
	for _, item := range splitTopLevel(s[open+1:closing], ',') {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if pk, ok := cutPrefixFold(item, "PRIMARY KEY"); ok {
			if len(t.PartKey) > 0 {
				return Table{}, invalidSchemaf("%s: primary key declared twice", name)
			}
			var err error
			t.PartKey, t.SortKey, err = parsePrimaryKey(name, pk)
			if err != nil {
				return Table{}, err
			}
			continue
		}
		col, typ, ok := cutColumn(item)
		if !ok {
			return Table{}, invalidSchemaf("%s: column %q has no type", name, item)
		}
		t.Columns = append(t.Columns, Column{Name: col, Type: typ})
	}

	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

func parsePrimaryKey(table, s string) (part, sort []string, err error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return nil, nil, invalidSchemaf("%s: malformed primary key %q", table, s)
	}
	comps := splitTopLevel(s[1:len(s)-1], ',')
	if len(comps) == 0 {
		return nil, nil, invalidSchemaf("%s: empty primary key", table)
	}

	first := strings.TrimSpace(comps[0])
	if strings.HasPrefix(first, "(") {
		// Composite partition key.
		if !strings.HasSuffix(first, ")") {
			return nil, nil, invalidSchemaf("%s: malformed partition key %q", table, first)
		}
		for _, c := range strings.Split(first[1:len(first)-1], ",") {
			part = append(part, strings.TrimSpace(c))
		}
	} else {
		part = []string{first}
	}
	for _, c := range comps[1:] {
		sort = append(sort, strings.TrimSpace(c))
	}

	return part, sort, nil
}

// cutColumn splits a column definition into name and type at the first
// whitespace run, the type keeps its internal spaces (tuple<inet, smallint>).
func cutColumn(s string) (name, typ string, ok bool) {
	i := strings.IndexAny(s, " \t\n")
	if i < 0 {
		return "", "", false
	}
	return s[:i], strings.TrimSpace(s[i+1:]), true
}

// splitTopLevel splits s on sep outside of () and <> nesting.
func splitTopLevel(s string, sep byte) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '<':
			depth++
		case ')', '>':
			depth--
		case sep:
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

// matchParen returns the index of the parenthesis closing the one at open,
// or -1 if it is never closed.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// cutPrefixFold strips a case-insensitive keyword prefix and the whitespace
// after it. It does not match when the keyword is a prefix of a longer word.
func cutPrefixFold(s, prefix string) (string, bool) {
	if !hasPrefixFold(s, prefix) {
		return s, false
	}
	rest := s[len(prefix):]
	if rest != "" && !strings.ContainsAny(rest[:1], " \t\n(") {
		return s, false
	}
	return strings.TrimLeft(rest, " \t\n"), true
}
