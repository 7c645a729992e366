package server

import (
	"sort"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/chazu/golfvm/compiler"
	"github.com/chazu/golfvm/vm"
)

// Positions are converted between LSP line/character pairs and byte
// offsets by counting bytes. Documents outside ASCII get approximate
// columns.

// offsetAt returns the byte offset of pos in text, clamped to the text.
func offsetAt(text string, pos protocol.Position) int {
	off := 0
	for line := protocol.UInteger(0); line < pos.Line; line++ {
		i := strings.IndexByte(text[off:], '\n')
		if i < 0 {
			return len(text)
		}
		off += i + 1
	}
	end := strings.IndexByte(text[off:], '\n')
	if end < 0 {
		end = len(text) - off
	}
	col := int(pos.Character)
	if col > end {
		col = end
	}
	return off + col
}

// positionAt is the inverse of offsetAt.
func positionAt(text string, off int) protocol.Position {
	if off > len(text) {
		off = len(text)
	}
	var p protocol.Position
	for _, c := range []byte(text[:off]) {
		if c == '\n' {
			p.Line++
			p.Character = 0
		} else {
			p.Character++
		}
	}
	return p
}

func tokenRange(text string, t compiler.Token) protocol.Range {
	return protocol.Range{
		Start: positionAt(text, t.Offset),
		End:   positionAt(text, t.Offset+len(t.Literal)),
	}
}

// tokenAt returns the token under the cursor. A cursor just after a
// token counts as on it, unless that token is whitespace.
func tokenAt(toks []compiler.Token, off int) (compiler.Token, bool) {
	i := sort.Search(len(toks), func(i int) bool {
		return toks[i].Offset+len(toks[i].Literal) > off
	})
	if i < len(toks) && toks[i].Offset <= off && !blank(toks[i]) {
		return toks[i], true
	}
	if i > 0 && toks[i-1].Offset+len(toks[i-1].Literal) == off && !blank(toks[i-1]) {
		return toks[i-1], true
	}
	return compiler.Token{}, false
}

func blank(t compiler.Token) bool {
	return strings.TrimSpace(t.Literal) == ""
}

// wordAt returns the token text under the cursor.
func wordAt(text string, pos protocol.Position) string {
	toks := compiler.Lex([]byte(text)).All()
	t, ok := tokenAt(toks, offsetAt(text, pos))
	if !ok || t.Type == compiler.TokenComment {
		return ""
	}
	return t.Literal
}

// prefixAt returns the identifier fragment before the cursor, or the
// single symbol byte there.
func prefixAt(text string, pos protocol.Position) string {
	off := offsetAt(text, pos)
	start := off
	for start > 0 && isWordByte(text[start-1]) {
		start--
	}
	if start == off && off > 0 && text[off-1] > ' ' && text[off-1] != '}' {
		start--
	}
	return text[start:off]
}

func isWordByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// diagnose compiles text on a scratch machine and converts its warnings.
func diagnose(text string) []protocol.Diagnostic {
	m := newScratchMachine()
	severity := protocol.DiagnosticSeverityWarning
	source := lspName
	diagnostics := []protocol.Diagnostic{}
	for _, d := range compiler.Diagnostics(m, []byte(text)) {
		if d.Line == 0 {
			continue
		}
		start := protocol.Position{
			Line:      protocol.UInteger(d.Line - 1),
			Character: protocol.UInteger(d.Column - 1),
		}
		end := start
		end.Character += protocol.UInteger(len(d.Token))
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    protocol.Range{Start: start, End: end},
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return diagnostics
}

// assignments returns the tokens assigned by ':' in text.
func assignments(toks []compiler.Token) []compiler.Token {
	var out []compiler.Token
	for i := 0; i+1 < len(toks); i++ {
		if toks[i].Literal == ":" {
			out = append(out, toks[i+1])
			i++
		}
	}
	return out
}

// definitions returns the ranges where word is assigned in text.
func definitions(uri protocol.DocumentUri, text, word string) []protocol.Location {
	var locs []protocol.Location
	for _, t := range assignments(compiler.Lex([]byte(text)).All()) {
		if t.Literal == word {
			locs = append(locs, protocol.Location{URI: uri, Range: tokenRange(text, t)})
		}
	}
	return locs
}

// references returns every occurrence of word in text, assignments
// included.
func references(uri protocol.DocumentUri, text, word string) []protocol.Location {
	var locs []protocol.Location
	for _, t := range compiler.Lex([]byte(text)).All() {
		if t.Literal == word {
			locs = append(locs, protocol.Location{URI: uri, Range: tokenRange(text, t)})
		}
	}
	return locs
}

// synthetic reports whether a slot name was generated for a block literal.
func synthetic(name string) bool {
	return strings.HasPrefix(name, "{")
}

// complete lists primitives, bound words of m and words assigned in the
// document that start with prefix.
func complete(m *vm.Machine, text, prefix string) []protocol.CompletionItem {
	items := []protocol.CompletionItem{}
	seen := map[string]bool{}
	add := func(name, detail string, kind protocol.CompletionItemKind) {
		if seen[name] || !strings.HasPrefix(name, prefix) {
			return
		}
		seen[name] = true
		label, d, k := name, detail, kind
		items = append(items, protocol.CompletionItem{
			Label:      label,
			Kind:       &k,
			Detail:     &d,
			InsertText: &label,
		})
	}

	for _, p := range vm.Primitives() {
		add(p.Name, p.Doc, protocol.CompletionItemKindFunction)
	}
	for _, name := range m.Slots.Names() {
		if synthetic(name) {
			continue
		}
		s, _ := m.Slots.Get(name)
		if s.Native() != nil {
			continue
		}
		add(name, vm.Describe(s.Value()), protocol.CompletionItemKindVariable)
	}
	for _, t := range assignments(compiler.Lex([]byte(text)).All()) {
		add(t.Literal, "assigned in document", protocol.CompletionItemKindVariable)
	}

	const maxItems = 100
	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items
}
