package checkfile

import "sort"

// Checker sequences compiled CheckStrings over an input buffer. One Checker
// is built per run and is not reused across runs: the Context it drives is
// itself single-use.
type Checker struct {
	cfg   *Config
	cache *regexCache
}

// NewChecker builds a Checker for one run under cfg.
func NewChecker(cfg *Config) *Checker {
	return &Checker{cfg: cfg, cache: newRegexCache()}
}

// RunResult is the outcome of one full check-string sequence against one
// input buffer.
type RunResult struct {
	Sink *DiagnosticSink
	Err  error
}

// Passed reports whether every directive in the run was satisfied.
func (r *RunResult) Passed() bool { return r.Err == nil }

// Run drives checks against buf using ctx as the shared variable context.
// The input is split into segments at CHECK-LABEL boundaries, and within
// each segment every CheckString is matched in declared order, honoring
// NEXT/SAME/EMPTY adjacency and CHECK-DAG/-NOT preceding groups.
func (ck *Checker) Run(checks []*CheckString, buf *Buffer, ctx *Context) *RunResult {
	sink := NewDiagnosticSink()

	if len(checks) == 0 {
		if ck.cfg.AllowEmptyInput {
			return &RunResult{Sink: sink}
		}
		return &RunResult{Sink: sink, Err: &ConfigError{Message: "check file contains no directives"}}
	}

	cursor := 0
	segIdx := 0
	isFirstAnchor := true
	var prevEnd int

	idx := 0
	for idx < len(checks) {
		segEnd := idx
		for segEnd < len(checks) && checks[segEnd].Pattern.Kind != KindLabel {
			segEnd++
		}
		hasLabel := segEnd < len(checks)

		limit := buf.Len()
		if hasLabel {
			labelPattern := checks[segEnd].Pattern
			res, err := matchPattern(&labelPattern, buf, cursor, ctx, ck.cache)
			if err != nil {
				sink.Emit(DiagnosticEvent{Kind: KindLabel, Prefix: checks[segEnd].Prefix, CheckLocation: checks[segEnd].Loc, MatchKind: NoneButExpected, Message: err.Error()})
				return &RunResult{Sink: sink, Err: err}
			}
			limit = res.End
		}

		if segIdx > 0 && ck.cfg.EnableVarScope {
			ctx.ClearLocalVars()
		}

		for i := idx; i <= segEnd && i < len(checks); i++ {
			if i == segEnd && !hasLabel {
				break
			}
			cs := checks[i]

			groupStart, trailingNots, err := ck.runPrecedingGroup(cs.Preceding, buf, cursor, limit, ctx, sink)
			if err != nil {
				sink.Emit(DiagnosticEvent{Kind: cs.Pattern.Kind, Prefix: cs.Prefix, CheckLocation: cs.Loc, MatchKind: NoneButExpected, Message: err.Error()})
				return &RunResult{Sink: sink, Err: err}
			}

			matchStart, matchEnd, err := ck.runAnchor(&cs.Pattern, buf, groupStart, limit, ctx)
			if err != nil {
				if ck.cfg.Verbose {
					if _, score, ok := fuzzyMatch(buf, groupStart, anchorDisplayText(&cs.Pattern)); ok {
						sink.Emit(DiagnosticEvent{Kind: cs.Pattern.Kind, Prefix: cs.Prefix, CheckLocation: cs.Loc, MatchKind: Fuzzy, FuzzyScore: score})
					}
				}
				sink.Emit(DiagnosticEvent{Kind: cs.Pattern.Kind, Prefix: cs.Prefix, CheckLocation: cs.Loc, MatchKind: NoneButExpected, Message: err.Error()})
				return &RunResult{Sink: sink, Err: err}
			}

			if err := checkNotsInRange(trailingNots, buf, groupStart, matchStart, ctx, ck.cache, sink); err != nil {
				return &RunResult{Sink: sink, Err: err}
			}

			if err := ck.checkAdjacency(&cs.Pattern, buf, prevEnd, matchStart, isFirstAnchor); err != nil {
				sink.Emit(DiagnosticEvent{Kind: cs.Pattern.Kind, Prefix: cs.Prefix, CheckLocation: cs.Loc, MatchKind: FoundButWrongLine, Message: err.Error()})
				return &RunResult{Sink: sink, Err: err}
			}

			sink.Emit(DiagnosticEvent{Kind: cs.Pattern.Kind, Prefix: cs.Prefix, CheckLocation: cs.Loc, MatchKind: FoundAndExpected, InputRange: MatchResult{Start: matchStart, End: matchEnd}, InputLoc: buf.LocAt(matchStart)})

			cursor = matchEnd
			prevEnd = matchEnd
			isFirstAnchor = false
		}

		if hasLabel {
			cursor = limit
			idx = segEnd + 1
		} else {
			idx = segEnd
		}
		segIdx++
	}

	return &RunResult{Sink: sink}
}

// runAnchor matches pat starting at from, repeating it Count times for a
// CHECK-COUNT-N directive: each iteration starts after the previous
// match's end; the reported span covers the first match's start through
// the last match's end.
func (ck *Checker) runAnchor(pat *Pattern, buf *Buffer, from, limit int, ctx *Context) (int, int, error) {
	count := pat.Count
	if count < 1 {
		count = 1
	}
	cursor := from
	var firstStart, lastEnd int
	for i := 0; i < count; i++ {
		res, err := matchPatternBounded(pat, buf, cursor, limit, ctx, ck.cache)
		if err != nil {
			return 0, 0, err
		}
		if i == 0 {
			firstStart = res.Start
		}
		lastEnd = res.End
		cursor = res.End
	}
	return firstStart, lastEnd, nil
}

// matchPatternBounded matches pat and rejects a result extending past
// limit, modeling the orchestrator's restriction of matching to the
// current label segment.
func matchPatternBounded(pat *Pattern, buf *Buffer, from, limit int, ctx *Context, cache *regexCache) (*MatchResult, error) {
	res, err := matchPattern(pat, buf, from, ctx, cache)
	if err != nil {
		return nil, err
	}
	if res.End > limit {
		return nil, &MatchError{Kind: MatchErrNotFound, Message: "pattern only found past the current segment boundary"}
	}
	return res, nil
}

// checkAdjacency enforces the NEXT/SAME/EMPTY region constraints between
// the previous anchor's end and this anchor's start.
func (ck *Checker) checkAdjacency(pat *Pattern, buf *Buffer, prevEnd, start int, isFirstAnchor bool) error {
	switch pat.Kind {
	case KindNext, KindSame, KindEmpty:
		if isFirstAnchor {
			return &ParseError{Kind: ParseErrBadExpression, Location: pat.Loc, Message: pat.Kind.String() + " cannot be the first directive"}
		}
		n := countNewlinesBetween(buf.Bytes(), prevEnd, start)
		switch pat.Kind {
		case KindSame:
			if n != 0 {
				return &MatchError{Kind: MatchErrNotFound, Message: "CHECK-SAME: expected match on the same line as the previous directive"}
			}
		case KindNext, KindEmpty:
			if n != 1 {
				return &MatchError{Kind: MatchErrNotFound, Message: pat.Kind.String() + ": expected match on the line immediately following the previous directive"}
			}
		}
	}
	return nil
}

// runPrecedingGroup executes cs's CHECK-DAG/CHECK-NOT preceding list. DAG
// matches accumulate into a sorted, non-overlapping range list with retry-
// on-overlap (or merge, under allow_deprecated_dag_overlap). A run of
// CHECK-NOT directives between two DAG sub-groups is deferred until the
// next CHECK-DAG has actually been matched and inserted; the deferred NOTs
// are then checked against the region bounded by *that new* DAG's own
// match start -- not any earlier-accepted range's start -- since that is
// the sub-group the NOTs actually sit in front of (original_source's
// checkDag runs this check once the DAG immediately following a NOT run
// has matched, against that match's own position). Any CHECK-NOT
// directives that never meet a following DAG (a pure-NOT preceding list,
// or a trailing run) are returned to the caller, to be checked once the
// owning anchor's own match position is known.
func (ck *Checker) runPrecedingGroup(group []Pattern, buf *Buffer, start, limit int, ctx *Context, sink *DiagnosticSink) (int, []Pattern, error) {
	groupStart := start
	var ranges []MatchResult
	var pendingNots []Pattern

	for i := range group {
		p := &group[i]
		if p.Kind == KindNot {
			pendingNots = append(pendingNots, *p)
			continue
		}

		res, err := ck.matchDag(p, buf, groupStart, limit, ctx, &ranges, sink)
		if err != nil {
			return 0, nil, err
		}

		if len(pendingNots) > 0 {
			if err := checkNotsInRange(pendingNots, buf, groupStart, res.Start, ctx, ck.cache, sink); err != nil {
				return 0, nil, err
			}
			groupStart = maxRangeEnd(ranges)
			ranges = nil
			pendingNots = nil
		}
	}

	if len(ranges) > 0 {
		groupStart = maxRangeEnd(ranges)
	}

	return groupStart, pendingNots, nil
}

// matchDag attempts to place one CHECK-DAG pattern's match into ranges
// without overlapping an already-accepted range, retrying forward past an
// overlap (or merging it, under allow_deprecated_dag_overlap), and returns
// the range it was ultimately placed at (or merged into).
func (ck *Checker) matchDag(p *Pattern, buf *Buffer, groupStart, limit int, ctx *Context, ranges *[]MatchResult, sink *DiagnosticSink) (MatchResult, error) {
	attemptFrom := groupStart
	for {
		res, err := matchPatternBounded(p, buf, attemptFrom, limit, ctx, ck.cache)
		if err != nil {
			return MatchResult{}, err
		}

		if idx, overlap := firstOverlap(*ranges, *res); overlap {
			if ck.cfg.AllowDeprecatedDagOverlap {
				(*ranges)[idx] = mergeRanges((*ranges)[idx], *res)
				return (*ranges)[idx], nil
			}
			if ck.cfg.Verbose {
				sink.Emit(DiagnosticEvent{Kind: p.Kind, CheckLocation: p.Loc, MatchKind: FoundButDiscarded, InputRange: *res})
			}
			if (*ranges)[idx].End <= attemptFrom {
				return MatchResult{}, &MatchError{Kind: MatchErrNotFound, Message: "CHECK-DAG: no non-overlapping placement found"}
			}
			attemptFrom = (*ranges)[idx].End
			continue
		}

		insertSorted(ranges, *res)
		return *res, nil
	}
}

// checkNotsInRange fails the run if any pattern in nots matches somewhere
// inside buf[lo:hi).
func checkNotsInRange(nots []Pattern, buf *Buffer, lo, hi int, ctx *Context, cache *regexCache, sink *DiagnosticSink) error {
	for i := range nots {
		p := &nots[i]
		res, err := matchPattern(p, buf, lo, ctx, cache)
		if err == nil && res.Start < hi {
			sink.Emit(DiagnosticEvent{Kind: KindNot, CheckLocation: p.Loc, MatchKind: FoundButExcluded, InputRange: *res})
			return &MatchError{Kind: MatchErrNotFound, Message: "CHECK-NOT: excluded pattern was found"}
		}
	}
	return nil
}

func firstOverlap(ranges []MatchResult, r MatchResult) (int, bool) {
	for i, existing := range ranges {
		if r.Start < existing.End && existing.Start < r.End {
			return i, true
		}
	}
	return 0, false
}

func mergeRanges(a, b MatchResult) MatchResult {
	start, end := a.Start, a.End
	if b.Start < start {
		start = b.Start
	}
	if b.End > end {
		end = b.End
	}
	return MatchResult{Start: start, End: end}
}

func insertSorted(ranges *[]MatchResult, r MatchResult) {
	*ranges = append(*ranges, r)
	sort.Slice(*ranges, func(i, j int) bool { return (*ranges)[i].Start < (*ranges)[j].Start })
}

func maxRangeEnd(ranges []MatchResult) int {
	max := 0
	for _, r := range ranges {
		if r.End > max {
			max = r.End
		}
	}
	return max
}

// anchorDisplayText returns the representative text the fuzzy-match
// heuristic compares candidate lines against: the fixed string, or the
// unspliced regex skeleton for a regex pattern.
func anchorDisplayText(p *Pattern) string {
	if p.Body.Kind == BodyFixed {
		return string(p.Body.Fixed)
	}
	return p.Body.Skeleton
}
