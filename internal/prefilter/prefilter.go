// Package prefilter extracts literal byte runs from a compiled regex's
// syntax tree so a caller can cheaply reject an input window before paying
// for a full regex search, the same idea quasilyte-regex's suffixLitMatcher
// uses a trailing literal to skip past non-matching spans. Unlike that
// matcher, this package never changes match semantics: MayMatch is only
// ever used to skip work, not to decide the outcome, so a conservative
// over-approximation (reporting a possible match when in doubt) is always
// safe.
package prefilter

import (
	"bytes"
	"regexp/syntax"
)

// Literals walks pattern's parsed syntax tree and returns every literal
// run it can prove must appear verbatim in any string the pattern matches
// (every operand of a top-level concatenation, or of a capture group within
// it, that is itself a plain literal). ok is false when the pattern has no required literal content
// at all (e.g. ".*" or a bare alternation), in which case no useful filter
// exists and the caller should always attempt the real match.
func Literals(pattern string) ([]string, bool) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, false
	}
	re = re.Simplify()

	var lits []string
	collect(re, &lits)
	if len(lits) == 0 {
		return nil, false
	}
	return lits, true
}

// collect gathers literal runs from re's top-level structure. It only
// descends into OpConcat (a sequence every match must satisfy in full) and
// single-operand OpCapture groups; it does not descend into OpAlternate or
// OpStar/OpPlus/OpQuest, since a
// literal found there isn't guaranteed to appear in every match.
func collect(re *syntax.Regexp, out *[]string) {
	switch re.Op {
	case syntax.OpLiteral:
		if len(re.Rune) > 0 {
			*out = append(*out, string(re.Rune))
		}
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			collect(sub, out)
		}
	case syntax.OpCapture:
		if len(re.Sub) == 1 {
			collect(re.Sub[0], out)
		}
	}
}

// MayMatch reports whether buf could possibly contain a match for the
// pattern the literals were extracted from: true if every required literal
// run is present somewhere in buf (in any order/position -- this is a
// coarse pre-filter, not a positional check), or if literals is empty
// (meaning no filter could be derived, so the real match must be tried).
func MayMatch(buf []byte, literals []string) bool {
	for _, lit := range literals {
		if !bytes.Contains(buf, []byte(lit)) {
			return false
		}
	}
	return true
}
