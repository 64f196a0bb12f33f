package checkfile

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DirectiveToken is what the lexer hands the parser for one scanned
// directive: which prefix matched, what kind of directive it introduces,
// the repeat count for a CHECK-COUNT-N, and the unprocessed payload text
// (everything between the directive's ':' and the end of its line).
type DirectiveToken struct {
	Prefix string
	Kind   DirectiveKind
	Count  int
	Body   string
	Loc    SourceLoc
}

// Lexer scans a canonicalized check-file Buffer for directive openings. It
// has no notion of pattern syntax, that's the parser's job, only of where
// a directive starts and which of the ten DirectiveKinds it introduces.
type Lexer struct {
	buf      *Buffer
	prefixRe *regexp.Regexp
	pos      int
}

// NewLexer builds a lexer over buf recognizing any of prefixes (e.g.
// {"CHECK"}). Prefixes are sorted longest-first so that a prefix which is a
// prefix of another (unusual, but not forbidden) doesn't shadow it.
func NewLexer(buf *Buffer, prefixes []string) *Lexer {
	sorted := append([]string(nil), prefixes...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	parts := make([]string, len(sorted))
	for i, p := range sorted {
		parts[i] = regexp.QuoteMeta(p)
	}
	re := regexp.MustCompile(strings.Join(parts, "|"))
	return &Lexer{buf: buf, prefixRe: re, pos: 0}
}

// Next returns the next valid directive token, or ok=false at end of
// buffer. Malformed tokens (KindMalformedNot/KindMalformedCount) are
// returned like any other token; Compile is responsible for surfacing them
// as parse errors.
func (l *Lexer) Next() (*DirectiveToken, bool) {
	data := l.buf.Bytes()
	for l.pos < len(data) {
		loc := l.prefixRe.FindIndex(data[l.pos:])
		if loc == nil {
			l.pos = len(data)
			return nil, false
		}
		start := l.pos + loc[0]
		end := l.pos + loc[1]
		prefix := string(data[start:end])

		// Rule 1: a prefix immediately preceded by a word character is part
		// of a larger identifier, not a directive.
		if start > 0 && isPartOfWord(data[start-1]) {
			l.pos = start + 1
			continue
		}

		kind, count, bodyStart, ok := classifyDirective(data, end)
		if !ok {
			l.pos = start + 1
			continue
		}

		bodyEnd := bodyStart
		for bodyEnd < len(data) && data[bodyEnd] != '\n' {
			bodyEnd++
		}

		tok := &DirectiveToken{
			Prefix: prefix,
			Kind:   kind,
			Count:  count,
			Body:   string(data[bodyStart:bodyEnd]),
			Loc:    l.buf.LocAt(start),
		}
		l.pos = bodyEnd
		return tok, true
	}
	return nil, false
}

// classifyDirective implements find_check_type's priority order: exactly
// one of the recognized suffix forms must appear immediately after the
// prefix, or the match is rejected (and scanning resumes past it).
func classifyDirective(data []byte, afterPrefix int) (kind DirectiveKind, count int, bodyStart int, ok bool) {
	if afterPrefix >= len(data) {
		return 0, 0, 0, false
	}
	next := data[afterPrefix]
	if next == ':' {
		return KindPlain, 1, afterPrefix + 1, true
	}
	if next != '-' {
		return 0, 0, 0, false
	}
	rest := data[afterPrefix+1:]

	if consumed, n, ok2 := consumeCount(rest); ok2 {
		return KindPlain, n, afterPrefix + 1 + consumed, true
	} else if ok2 == false && looksLikeCount(rest) {
		return KindMalformedCount, 0, afterPrefix + 1, true
	}

	suffixes := []struct {
		s string
		k DirectiveKind
	}{
		{"NEXT:", KindNext},
		{"SAME:", KindSame},
		{"NOT:", KindNot},
		{"DAG:", KindDag},
		{"LABEL:", KindLabel},
		{"EMPTY:", KindEmpty},
	}
	for _, suf := range suffixes {
		if hasPrefixBytes(rest, suf.s) {
			return suf.k, 1, afterPrefix + 1 + len(suf.s), true
		}
	}

	// The enumerated list of rejected "-NOT" combinations (mirrors
	// original_source's find_check_type): you can't combine -NOT
	// with another suffix.
	malformed := []string{
		"DAG-NOT:", "NOT-DAG:",
		"NEXT-NOT:", "NOT-NEXT:",
		"SAME-NOT:", "NOT-SAME:",
		"EMPTY-NOT:", "NOT-EMPTY:",
	}
	for _, m := range malformed {
		if hasPrefixBytes(rest, m) {
			return KindMalformedNot, 0, afterPrefix + 1, true
		}
	}

	return 0, 0, 0, false
}

func hasPrefixBytes(data []byte, s string) bool {
	if len(data) < len(s) {
		return false
	}
	return string(data[:len(s)]) == s
}

// consumeCount parses "COUNT-<digits>:" from the start of rest. ok is true
// only when the whole form (including the trailing ':') is present and
// well-formed; when "COUNT-" is present but what follows isn't a valid
// count, the caller reports KindMalformedCount instead via looksLikeCount.
func consumeCount(rest []byte) (consumed int, count int, ok bool) {
	const lead = "COUNT-"
	if !hasPrefixBytes(rest, lead) {
		return 0, 0, false
	}
	i := len(lead)
	start := i
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i == start {
		return 0, 0, false
	}
	if i >= len(rest) || rest[i] != ':' {
		return 0, 0, false
	}
	n, err := strconv.ParseInt(string(rest[start:i]), 10, 64)
	if err != nil || n <= 0 || n > (1<<31-1) {
		return 0, 0, false
	}
	return i + 1, int(n), true
}

// looksLikeCount reports whether rest begins with "COUNT-" at all, used to
// tell "this was meant to be a CHECK-COUNT but the literal/operator was bad"
// (MalformedCount) apart from "this isn't a CHECK-COUNT at all" (not a
// directive, scan continues).
func looksLikeCount(rest []byte) bool {
	return hasPrefixBytes(rest, "COUNT-")
}
