package store

import (
	"fmt"
	"strings"

	"github.com/seanchatmangpt/kgcl/rdf"
)

// Bindings maps SPARQL variable names (without the leading '?') to
// pre-resolved RDF terms. These are substituted directly as terms, never
// as interpolated strings, per §4.1.
type Bindings map[string]rdf.Term

var defaultPrefixes = map[string]string{
	"kgc": rdf.NSKGC,
	"rdf": "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"xsd": "http://www.w3.org/2001/XMLSchema#",
	"ex":  "https://kgcl.dev/ex#",
	"urn": "urn:",
}

// element is one slot (subject, predicate, or object) of a parsed triple
// pattern: either a variable name or a ground term.
type element struct {
	variable string // non-empty if this slot is a variable
	term     rdf.Term
}

func (e element) resolve(b Bindings) (rdf.Term, bool) {
	if e.variable == "" {
		return e.term, true
	}
	t, ok := b[e.variable]
	return t, ok
}

type triplePattern struct {
	S, P, O element
}

// ResultSet is the row-oriented output of Query for SELECT-shaped queries.
type ResultSet struct {
	Vars []string
	Rows []Bindings
}

func parseElement(tok string, prefixes map[string]string) (element, error) {
	variable, term, err := ParseTerm(tok, prefixes)
	if err != nil {
		return element{}, err
	}
	return element{variable: variable, term: term}, nil
}

// ParseTerm parses a single SPARQL-like term token: "?name" (variable),
// "<iri>", "prefix:local", or a quoted literal (optionally @lang or
// ^^<datatype>). Returns a non-empty variable name xor a ground term.
// Exported so other ontology-driven components (the reasoner's rule
// templates, in particular) share one term grammar instead of each
// growing its own.
func ParseTerm(tok string, prefixes map[string]string) (variable string, term rdf.Term, err error) {
	tok = strings.TrimSpace(tok)
	switch {
	case strings.HasPrefix(tok, "?"):
		return tok[1:], rdf.Term{}, nil
	case strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">"):
		return "", rdf.IRI(tok[1 : len(tok)-1]), nil
	case strings.HasPrefix(tok, "\""):
		return "", parseLiteral(tok), nil
	case strings.Contains(tok, ":"):
		parts := strings.SplitN(tok, ":", 2)
		ns, ok := prefixes[parts[0]]
		if !ok {
			return "", rdf.Term{}, fmt.Errorf("%w: unknown prefix %q", rdf.ErrUnknownPrefix, parts[0])
		}
		return "", rdf.IRI(ns + parts[1]), nil
	default:
		return "", rdf.Term{}, fmt.Errorf("%w: cannot parse term %q", rdf.ErrUnknownPrefix, tok)
	}
}

// DefaultPrefixes returns the shared prefix map (kgc, rdf, xsd, ex, and urn,
// which maps urn:x to the IRI urn:x) used
// when parsing ontology-resident term templates.
func DefaultPrefixes() map[string]string {
	out := make(map[string]string, len(defaultPrefixes))
	for k, v := range defaultPrefixes {
		out[k] = v
	}
	return out
}

func parseLiteral(tok string) rdf.Term {
	end := strings.LastIndex(tok, "\"")
	if end <= 0 {
		return rdf.Literal(strings.Trim(tok, "\""), "")
	}
	value := tok[1:end]
	suffix := tok[end+1:]
	switch {
	case strings.HasPrefix(suffix, "@"):
		return rdf.LangLiteral(value, suffix[1:])
	case strings.HasPrefix(suffix, "^^"):
		dt := strings.Trim(suffix[2:], "<>")
		return rdf.Literal(value, dt)
	default:
		return rdf.Literal(value, "")
	}
}

// parseBlock splits a `{ ... }`-delimited block into whitespace-tokenized
// triple patterns, one per period-terminated statement. This is a minimal
// triple-pattern grammar, not general SPARQL syntax: sufficient for the
// ontology-resident templates this engine is built to execute.
func parseBlock(block string, prefixes map[string]string) ([]triplePattern, error) {
	block = strings.TrimSpace(block)
	if block == "" {
		return nil, nil
	}
	statements := strings.Split(block, ".")
	var out []triplePattern
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		toks := strings.Fields(stmt)
		if len(toks) != 3 {
			return nil, fmt.Errorf("%w: expected 3 terms, got %q", rdf.ErrUnknownPrefix, stmt)
		}
		s, err := parseElement(toks[0], prefixes)
		if err != nil {
			return nil, err
		}
		p, err := parseElement(toks[1], prefixes)
		if err != nil {
			return nil, err
		}
		o, err := parseElement(toks[2], prefixes)
		if err != nil {
			return nil, err
		}
		out = append(out, triplePattern{S: s, P: p, O: o})
	}
	return out, nil
}

func extractBlock(sparql, keyword string) (string, bool) {
	idx := strings.Index(sparql, keyword)
	if idx < 0 {
		return "", false
	}
	rest := sparql[idx+len(keyword):]
	open := strings.Index(rest, "{")
	if open < 0 {
		return "", false
	}
	depth := 0
	for i, r := range rest[open:] {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return rest[open+1 : open+i], true
			}
		}
	}
	return "", false
}

// evaluateWhere joins a conjunction of triple patterns against view,
// starting from seed bindings, via naive nested-loop pattern matching.
func evaluateWhere(view View, patterns []triplePattern, seed Bindings) []Bindings {
	rows := []Bindings{cloneBindings(seed)}
	for _, tp := range patterns {
		var next []Bindings
		for _, row := range rows {
			pattern, hasAllGround := toStorePattern(tp, row)
			_ = hasAllGround
			for _, q := range view.Match(pattern) {
				if extended, ok := extendBindings(row, tp, q); ok {
					next = append(next, extended)
				}
			}
		}
		rows = next
		if len(rows) == 0 {
			return nil
		}
	}
	return rows
}

func toStorePattern(tp triplePattern, b Bindings) (Pattern, bool) {
	var p Pattern
	allGround := true
	if t, ok := tp.S.resolve(b); ok {
		p.Subject = &t
	} else {
		allGround = false
	}
	if t, ok := tp.P.resolve(b); ok {
		p.Predicate = &t
	} else {
		allGround = false
	}
	if t, ok := tp.O.resolve(b); ok {
		p.Object = &t
	} else {
		allGround = false
	}
	return p, allGround
}

func extendBindings(row Bindings, tp triplePattern, q rdf.Quad) (Bindings, bool) {
	out := cloneBindings(row)
	if !bindSlot(out, tp.S, q.Subject) {
		return nil, false
	}
	if !bindSlot(out, tp.P, q.Predicate) {
		return nil, false
	}
	if !bindSlot(out, tp.O, q.Object) {
		return nil, false
	}
	return out, true
}

func bindSlot(b Bindings, e element, value rdf.Term) bool {
	if e.variable == "" {
		return e.term == value
	}
	if existing, ok := b[e.variable]; ok {
		return existing == value
	}
	b[e.variable] = value
	return true
}

func cloneBindings(b Bindings) Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

func groundTriples(patterns []triplePattern, row Bindings, graph rdf.Term) ([]rdf.Quad, error) {
	out := make([]rdf.Quad, 0, len(patterns))
	for _, tp := range patterns {
		s, ok := tp.S.resolve(row)
		if !ok {
			return nil, fmt.Errorf("%w: unbound subject in template", rdf.ErrUnknownPrefix)
		}
		p, ok := tp.P.resolve(row)
		if !ok {
			return nil, fmt.Errorf("%w: unbound predicate in template", rdf.ErrUnknownPrefix)
		}
		o, ok := tp.O.resolve(row)
		if !ok {
			return nil, fmt.Errorf("%w: unbound object in template", rdf.ErrUnknownPrefix)
		}
		out = append(out, rdf.NewQuadIn(s, p, o, graph))
	}
	return out, nil
}

// Update executes a `DELETE { ... } INSERT { ... } WHERE { ... }`-shaped
// SPARQL UPDATE string against the target store, honoring pre-bound
// variable values from bindings. Either DELETE or INSERT may be absent; a
// missing WHERE block means the DELETE/INSERT patterns are taken as fully
// ground (a DATA form) against bindings alone. Returns the deduplicated
// ground quads of the INSERT and DELETE templates, including any that were
// already present in (or absent from) target.
func Update(target Store, sparql string, bindings Bindings) (added, removed []rdf.Quad, err error) {
	deleteBlock, _ := extractBlock(sparql, "DELETE")
	insertBlock, _ := extractBlock(sparql, "INSERT")
	whereBlock, hasWhere := extractBlock(sparql, "WHERE")

	deletePatterns, err := parseBlock(deleteBlock, defaultPrefixes)
	if err != nil {
		return nil, nil, err
	}
	insertPatterns, err := parseBlock(insertBlock, defaultPrefixes)
	if err != nil {
		return nil, nil, err
	}

	var rows []Bindings
	if hasWhere {
		wherePatterns, werr := parseBlock(whereBlock, defaultPrefixes)
		if werr != nil {
			return nil, nil, werr
		}
		rows = evaluateWhere(target, wherePatterns, bindings)
	} else {
		rows = []Bindings{bindings}
	}

	seenAdd := map[rdf.Quad]struct{}{}
	seenRem := map[rdf.Quad]struct{}{}
	for _, row := range rows {
		dels, derr := groundTriples(deletePatterns, row, rdf.Term{})
		if derr != nil {
			continue
		}
		adds, aerr := groundTriples(insertPatterns, row, rdf.Term{})
		if aerr != nil {
			continue
		}
		for _, q := range dels {
			if _, ok := seenRem[q]; !ok {
				seenRem[q] = struct{}{}
				removed = append(removed, q)
			}
		}
		for _, q := range adds {
			if _, ok := seenAdd[q]; !ok {
				seenAdd[q] = struct{}{}
				added = append(added, q)
			}
		}
	}

	target.Remove(removed)
	target.Add(added)
	return added, removed, nil
}

// Query executes a `SELECT ?v... WHERE { ... }` query against view,
// returning one row of bindings per solution.
func Query(view View, sparql string, bindings Bindings) (ResultSet, error) {
	whereBlock, _ := extractBlock(sparql, "WHERE")
	patterns, err := parseBlock(whereBlock, defaultPrefixes)
	if err != nil {
		return ResultSet{}, err
	}
	rows := evaluateWhere(view, patterns, bindings)

	varSet := map[string]struct{}{}
	for _, tp := range patterns {
		for _, e := range []element{tp.S, tp.P, tp.O} {
			if e.variable != "" {
				varSet[e.variable] = struct{}{}
			}
		}
	}
	vars := make([]string, 0, len(varSet))
	for v := range varSet {
		vars = append(vars, v)
	}
	return ResultSet{Vars: vars, Rows: rows}, nil
}
