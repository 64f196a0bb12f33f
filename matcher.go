package checkfile

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/projectdiscovery/checkfile/internal/prefilter"
)

// MatchResult is the outcome of successfully matching one Pattern against a
// buffer: the half-open byte range [Start, End) it covers.
type MatchResult struct {
	Start, End int
}

// compiledRegex pairs a compiled pattern with the literal-run hint
// extracted from it, so repeated matches against a mostly-unrelated input
// window can skip the regex engine entirely.
type compiledRegex struct {
	re       *regexp.Regexp
	literals []string
	hasLits  bool
}

// regexCache memoizes compiled regexes keyed by the fully-spliced pattern
// string, since the same Pattern is frequently re-matched (CHECK-DAG retry,
// CHECK-COUNT-N repetition) with identical substitution values.
type regexCache struct {
	mu    sync.Mutex
	cache map[string]*compiledRegex
}

func newRegexCache() *regexCache {
	return &regexCache{cache: map[string]*compiledRegex{}}
}

func (c *regexCache) compile(pattern string) (*compiledRegex, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cr, ok := c.cache[pattern]; ok {
		return cr, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &MatchError{Kind: MatchErrParseFailure, Message: "regex compile failed: " + err.Error()}
	}
	re.Longest() // always longest-leftmost, never first-alternative
	lits, ok := prefilter.Literals(pattern)
	cr := &compiledRegex{re: re, literals: lits, hasLits: ok}
	c.cache[pattern] = cr
	return cr, nil
}

// matchPattern searches buf[from:] for p, splicing live substitution values
// into p's regex skeleton (or doing a literal byte search for a BodyFixed
// pattern), and on success writes any captures back into ctx. @LINE is set
// to p.LineNumber for the duration of this match attempt only; a nil
// LineNumber (an implicit NOT supplied from configuration) leaves @LINE
// cleared.
func matchPattern(p *Pattern, buf *Buffer, from int, ctx *Context, cache *regexCache) (*MatchResult, error) {
	if p.LineNumber != nil {
		ctx.SetLine(*p.LineNumber)
		defer ctx.ClearLine()
	} else {
		ctx.ClearLine()
	}

	if p.Kind == KindEndOfInput {
		return &MatchResult{Start: buf.Len(), End: buf.Len()}, nil
	}

	if p.Body.Kind == BodyFixed {
		idx := buf.Find(p.Body.Fixed, from)
		if idx < 0 {
			return nil, &MatchError{Kind: MatchErrNotFound, Message: "pattern not found"}
		}
		if p.Kind == KindEmpty {
			// The match is the required newline itself; report the
			// zero-length position immediately after it so the next
			// anchor resumes on the blank line's far side.
			return &MatchResult{Start: idx + 1, End: idx + 1}, nil
		}
		return &MatchResult{Start: idx, End: idx + len(p.Body.Fixed)}, nil
	}

	spliced, err := splicePattern(p.Body, ctx)
	if err != nil {
		return nil, err
	}

	cr, err := cache.compile(spliced)
	if err != nil {
		return nil, err
	}

	window := buf.Slice(from, buf.Len())
	if cr.hasLits && !prefilter.MayMatch(window, cr.literals) {
		return nil, &MatchError{Kind: MatchErrNotFound, Message: "pattern not found"}
	}

	loc, err := findWithBackrefs(cr.re, window, p.Body.Backrefs)
	if err != nil {
		return nil, err
	}

	start, end := from+loc[0], from+loc[1]

	if err := writeBackCaptures(p.Body, buf, from, loc, ctx); err != nil {
		return nil, err
	}
	line := buf.LocAt(start).Line + 1
	if err := writeBackExprDefines(p.Body, ctx, line); err != nil {
		return nil, err
	}

	return &MatchResult{Start: start, End: end}, nil
}

// findWithBackrefs locates p's match in window, enforcing any in-pattern
// backreferences the regexp engine itself can't: Go's regexp (RE2-based)
// has no "\k<name>" syntax, so a backref is compiled as a duplicate capture
// group (see BackrefPair) and verified here. With no backrefs to check,
// this is a single FindSubmatchIndex call exactly as before; otherwise it
// walks every non-overlapping candidate match in order and returns the
// first whose duplicate and original groups captured identical bytes.
func findWithBackrefs(re *regexp.Regexp, window []byte, backrefs []BackrefPair) ([]int, error) {
	if len(backrefs) == 0 {
		loc := re.FindSubmatchIndex(window)
		if loc == nil {
			return nil, &MatchError{Kind: MatchErrNotFound, Message: "pattern not found"}
		}
		return loc, nil
	}
	for _, loc := range re.FindAllSubmatchIndex(window, -1) {
		if backrefsMatch(window, loc, backrefs) {
			return loc, nil
		}
	}
	return nil, &MatchError{Kind: MatchErrNotFound, Message: "pattern not found"}
}

func backrefsMatch(window []byte, loc []int, backrefs []BackrefPair) bool {
	for _, br := range backrefs {
		aLo, aHi := loc[2*br.GroupIndex], loc[2*br.GroupIndex+1]
		bLo, bHi := loc[2*br.OrigGroupIndex], loc[2*br.OrigGroupIndex+1]
		if aLo < 0 || bLo < 0 {
			return false
		}
		if !bytes.Equal(window[aLo:aHi], window[bLo:bHi]) {
			return false
		}
	}
	return true
}

// writeBackExprDefines stores the evaluated value of every "[[#name:expr]]"
// substitution this pattern contains. It re-evaluates expr (its operands
// were already resolved once during splicePattern, but that result wasn't
// kept since non-defining substitutions don't need it) now that every
// capture group this match produced is visible.
func writeBackExprDefines(body PatternBody, ctx *Context, line int) error {
	for _, sub := range body.Substitutions {
		if sub.Kind != SubstNumeric || sub.DefineName == "" {
			continue
		}
		val, err := sub.NumericExpr.Eval(ctx)
		if err != nil {
			return err
		}
		ctx.SetNumeric(sub.DefineRef, val, line)
	}
	return nil
}

// splicePattern resolves every deferred Substitution against ctx's current
// values and inserts the resulting text into p.Skeleton at the
// substitution's InsertOffset. Offsets refer to the unspliced skeleton: the
// output is built by copying each skeleton piece between consecutive
// offsets followed by the substitution's text, so earlier insertions never
// shift where later ones land.
func splicePattern(body PatternBody, ctx *Context) (string, error) {
	if len(body.Substitutions) == 0 {
		return body.Skeleton, nil
	}
	var out strings.Builder
	prevOffset := 0
	for _, sub := range body.Substitutions {
		out.WriteString(body.Skeleton[prevOffset:sub.InsertOffset])
		text, err := renderSubstitution(sub, ctx)
		if err != nil {
			return "", err
		}
		out.WriteString(text)
		prevOffset = sub.InsertOffset
	}
	out.WriteString(body.Skeleton[prevOffset:])
	return out.String(), nil
}

func renderSubstitution(sub Substitution, ctx *Context) (string, error) {
	switch sub.Kind {
	case SubstString:
		v, ok := ctx.LookupString(sub.StringVar)
		if !ok {
			return "", errUndefined(sub.StringVar)
		}
		return regexp.QuoteMeta(v), nil
	case SubstNumeric:
		v, err := sub.NumericExpr.Eval(ctx)
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(v, 10), nil
	}
	return "", &MatchError{Kind: MatchErrParseFailure, Message: "unknown substitution kind"}
}

// writeBackCaptures stores every string/numeric capture group's matched text
// into ctx once a match succeeds. loc is the []int index pairs FindSubmatchIndex
// returned, relative to the slice starting at from.
func writeBackCaptures(body PatternBody, buf *Buffer, from int, loc []int, ctx *Context) error {
	for name, group := range body.StringCaptures {
		lo, hi := loc[2*group], loc[2*group+1]
		if lo < 0 {
			continue
		}
		ctx.SetString(name, string(buf.Slice(from+lo, from+hi)))
	}
	for name, nc := range body.NumericCaptures {
		lo, hi := loc[2*nc.GroupIndex], loc[2*nc.GroupIndex+1]
		if lo < 0 {
			continue
		}
		text := string(buf.Slice(from+lo, from+hi))
		val, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return &MatchError{Kind: MatchErrOverflow, Name: name, Message: "captured numeric value overflows u64"}
		}
		line := buf.LocAt(from + lo).Line + 1
		ctx.SetNumeric(nc.Ref, val, line)
	}
	return nil
}
