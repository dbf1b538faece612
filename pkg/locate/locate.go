// Package locate resolves diagnostics to line positions in the original
// manifest text. It is a structural line scanner, not a full parser: it
// tracks brace depth across lines (string-aware) so same-named fields at
// different nesting levels resolve to the right occurrence, and falls
// back to a bounded plain-text search when the document's formatting
// defeats the depth heuristic. Line numbers are a convenience for the
// display layer; a stable best-effort match is the contract, not
// byte-exact positions.
package locate

import (
	"strconv"
	"strings"

	"github.com/ormasoftchile/ngslint/pkg/catalog"
	"github.com/ormasoftchile/ngslint/pkg/diagnostic"
)

// lookaheadLines bounds the fallback search window when the depth
// heuristic finds nothing (minified or oddly indented documents).
const lookaheadLines = 20

// Locator holds the split source text and the precomputed brace depth at
// the start of every line. Build one per file and reuse it for all of
// that file's diagnostics.
type Locator struct {
	lines  []string
	depths []int // depths[i] = brace+bracket depth at start of line i
}

// New builds a Locator over raw manifest text.
func New(raw string) *Locator {
	lines := strings.Split(raw, "\n")
	depths := make([]int, len(lines)+1)
	d := 0
	inStr := false
	for i, line := range lines {
		depths[i] = d
		esc := false
		for j := 0; j < len(line); j++ {
			c := line[j]
			switch {
			case esc:
				esc = false
			case inStr:
				if c == '\\' {
					esc = true
				} else if c == '"' {
					inStr = false
				}
			case c == '"':
				inStr = true
			case c == '{' || c == '[':
				d++
			case c == '}' || c == ']':
				d--
			}
		}
	}
	depths[len(lines)] = d
	return &Locator{lines: lines, depths: depths}
}

// Locate resolves a single diagnostic to a source location. Missing
// fields have no line of their own, so they resolve to an insertion
// point instead. Returns nil when the path cannot be matched; callers
// treat a nil location as "no jump target", never as an error.
func (l *Locator) Locate(d *diagnostic.Diagnostic) *diagnostic.Location {
	if d.FieldPath == "" {
		return nil
	}
	if d.Kind == diagnostic.KindMissingField {
		return l.insertionPoint(d.FieldPath)
	}

	segs, ok := parsePath(d.FieldPath)
	if !ok {
		return nil
	}

	open, inner, end := l.rootObject()
	if open < 0 {
		return nil
	}
	for i, seg := range segs {
		last := i == len(segs)-1
		want := ""
		if last {
			want = d.CurrentValue
		}
		ln := l.findField(open, end, seg.Name, inner, want)
		if ln < 0 && want != "" {
			// Duplicate-value disambiguation failed; take the first
			// same-named field at the right depth instead.
			ln = l.findField(open, end, seg.Name, inner, "")
		}
		if ln < 0 {
			ln = l.findFieldLoose(open, end, seg.Name, want)
		}
		if ln < 0 {
			return nil
		}
		if last {
			return &diagnostic.Location{LineNumber: ln + 1, LineText: l.lines[ln]}
		}
		if seg.Index >= 0 {
			objLn, objInner := l.nthObject(ln, seg.Name, seg.Index)
			if objLn < 0 {
				return nil
			}
			open, inner = objLn, objInner
		} else {
			open, inner = ln, inner+1
		}
		end = l.objectEnd(open, inner)
	}
	return nil
}

// Annotate fills in Location for every diagnostic that can be resolved
// against raw. Diagnostics that cannot be matched keep a nil Location.
func Annotate(raw string, diags []*diagnostic.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	l := New(raw)
	for _, d := range diags {
		if d.Location == nil {
			d.Location = l.Locate(d)
		}
	}
}

// insertionPoint computes where a missing field would go: the line after
// the last present field that canonically precedes it in the catalog's
// preferred ordering, or right after the enclosing object's opening
// brace when no such field exists.
func (l *Locator) insertionPoint(fieldPath string) *diagnostic.Location {
	segs, ok := parsePath(fieldPath)
	if !ok {
		return nil
	}
	field := segs[len(segs)-1].Name
	parent := segs[:len(segs)-1]

	open, inner, end := l.resolveObject(parent)
	if open < 0 {
		return nil
	}

	after := -1
	for _, f := range precedingFields(parent, field) {
		if ln := l.findField(open, end, f, inner, ""); ln > after {
			after = ln
		}
	}
	if after < 0 {
		after = open
	}
	loc := &diagnostic.Location{LineNumber: after + 2, LineText: l.lines[after]}
	return loc
}

// resolveObject walks a parsed parent path down to the enclosing
// object. An empty path resolves to the document's root object.
func (l *Locator) resolveObject(segs []segment) (open, inner, end int) {
	open, inner, end = l.rootObject()
	if open < 0 {
		return -1, 0, 0
	}
	for _, seg := range segs {
		ln := l.findField(open, end, seg.Name, inner, "")
		if ln < 0 {
			ln = l.findFieldLoose(open, end, seg.Name, "")
		}
		if ln < 0 {
			return -1, 0, 0
		}
		if seg.Index >= 0 {
			objLn, objInner := l.nthObject(ln, seg.Name, seg.Index)
			if objLn < 0 {
				return -1, 0, 0
			}
			open, inner = objLn, objInner
		} else {
			open, inner = ln, inner+1
		}
		end = l.objectEnd(open, inner)
	}
	return open, inner, end
}

// rootObject finds the document's opening brace.
func (l *Locator) rootObject() (open, inner, end int) {
	for i, line := range l.lines {
		if strings.Contains(line, "{") {
			inner = l.depths[i] + 1
			return i, inner, l.objectEnd(i, inner)
		}
	}
	return -1, 0, 0
}

// findField scans [from, end) for a `"name":` token at the expected
// depth. Fields on the opening line itself (single-line objects) are
// accepted regardless of the line's start-of-line depth. When
// mustContain is non-empty the candidate line must also contain it,
// which disambiguates same-named fields by their current value.
func (l *Locator) findField(from, end int, name string, depth int, mustContain string) int {
	for ln := from; ln < end && ln < len(l.lines); ln++ {
		if ln != from && l.depths[ln] != depth {
			continue
		}
		if fieldTokenPos(l.lines[ln], name) < 0 {
			continue
		}
		if mustContain != "" && !strings.Contains(l.lines[ln], mustContain) {
			continue
		}
		return ln
	}
	return -1
}

// findFieldLoose is the bounded fallback: any depth, a window capped at
// lookaheadLines past the object's opening line.
func (l *Locator) findFieldLoose(from, end int, name, mustContain string) int {
	if limit := from + lookaheadLines; limit < end {
		end = limit
	}
	for ln := from; ln < end && ln < len(l.lines); ln++ {
		if fieldTokenPos(l.lines[ln], name) < 0 {
			continue
		}
		if mustContain != "" && !strings.Contains(l.lines[ln], mustContain) {
			continue
		}
		return ln
	}
	return -1
}

// objectEnd returns the first line past open whose start-of-line depth
// drops below inner, i.e. the object has closed before that line.
func (l *Locator) objectEnd(open, inner int) int {
	for ln := open + 1; ln <= len(l.lines); ln++ {
		if l.depths[ln] < inner {
			return ln
		}
	}
	return len(l.lines)
}

// nthObject char-scans forward from an array-valued field and returns
// the line holding the opening brace of the array's nth element object,
// plus the depth inside that object. Returns -1 when the array closes
// first.
func (l *Locator) nthObject(fieldLn int, name string, n int) (int, int) {
	col := fieldTokenPos(l.lines[fieldLn], name)
	if col < 0 {
		return -1, 0
	}
	d := l.depths[fieldLn]
	inArray := false
	arrayDepth := 0
	count := 0
	inStr := false
	for ln := fieldLn; ln < len(l.lines); ln++ {
		line := l.lines[ln]
		esc := false
		for c := 0; c < len(line); c++ {
			ch := line[c]
			switch {
			case esc:
				esc = false
			case inStr:
				if ch == '\\' {
					esc = true
				} else if ch == '"' {
					inStr = false
				}
			case ch == '"':
				inStr = true
			case ch == '{':
				d++
				if inArray && d == arrayDepth+1 {
					if count == n {
						return ln, d
					}
					count++
				}
			case ch == '[':
				d++
				if !inArray && (ln > fieldLn || c > col) {
					inArray = true
					arrayDepth = d
				}
			case ch == '}' || ch == ']':
				d--
				if inArray && d < arrayDepth {
					return -1, 0
				}
			}
		}
	}
	return -1, 0
}

// precedingFields lists the fields that canonically come before field in
// the enclosing object, per the catalog's preferred ordering for that
// object's context. Unknown contexts or fields yield nil, which makes
// the caller fall back to the opening brace.
func precedingFields(parent []segment, field string) []string {
	for _, ctx := range contextsFor(parent) {
		order := catalog.PreferredFieldOrder(ctx)
		for i, f := range order {
			if f == field {
				return order[:i]
			}
		}
	}
	return nil
}

// contextsFor maps a parent path to candidate ordering contexts. The
// root is ambiguous (NGSchema vs transform manifest), so both root
// orderings are tried.
func contextsFor(parent []segment) []string {
	if len(parent) == 0 {
		return []string{"root", "transformRoot"}
	}
	switch parent[len(parent)-1].Name {
	case "tables":
		return []string{"table"}
	case "columns":
		return []string{"column"}
	case "input":
		return []string{"inputField"}
	case "functions":
		return []string{"function"}
	case "queries":
		return []string{"query"}
	}
	return nil
}

type segment struct {
	Name  string
	Index int // -1 when the segment is not array-indexed
}

func parsePath(path string) ([]segment, bool) {
	if path == "" {
		return nil, false
	}
	parts := strings.Split(path, ".")
	segs := make([]segment, 0, len(parts))
	for _, part := range parts {
		name, idx := part, -1
		if i := strings.IndexByte(part, '['); i >= 0 {
			if !strings.HasSuffix(part, "]") {
				return nil, false
			}
			n, err := strconv.Atoi(part[i+1 : len(part)-1])
			if err != nil || n < 0 {
				return nil, false
			}
			name, idx = part[:i], n
		}
		if name == "" {
			return nil, false
		}
		segs = append(segs, segment{Name: name, Index: idx})
	}
	return segs, true
}

// fieldTokenPos finds a quoted field name followed by a colon, skipping
// occurrences of the same text appearing as a value.
func fieldTokenPos(line, name string) int {
	token := `"` + name + `"`
	from := 0
	for {
		i := strings.Index(line[from:], token)
		if i < 0 {
			return -1
		}
		i += from
		rest := strings.TrimLeft(line[i+len(token):], " \t")
		if strings.HasPrefix(rest, ":") {
			return i
		}
		from = i + len(token)
	}
}
