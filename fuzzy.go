package checkfile

// fuzzyWindowBytes bounds how far forward of a failed match's search
// position the fuzzy heuristic looks for a near-miss. Unbounded search
// would make a single failed CHECK on a huge input pathologically slow
// for no diagnostic benefit.
const fuzzyWindowBytes = 4096

// fuzzyScoreThreshold is the cutoff below which a candidate line is reported
// as a probable near-miss; above it, the line is considered unrelated noise.
const fuzzyScoreThreshold = 50.0

// fuzzyMatch scans buf[from:from+fuzzyWindowBytes] line by line (skipping
// empty lines) for the text most similar to want, and returns its location and score if the score
// clears the threshold. This never affects whether a check passes or fails
// -- it only improves the diagnostic shown for a failure that's already
// been decided, computing how close the input came to what was expected
// (computeMatchDistance in original_source).
func fuzzyMatch(buf *Buffer, from int, want string) (loc SourceLoc, score float64, ok bool) {
	if want == "" {
		return SourceLoc{}, 0, false
	}
	end := from + fuzzyWindowBytes
	if end > buf.Len() {
		end = buf.Len()
	}
	window := buf.Slice(from, end)

	bestScore := -1.0
	bestOffset := -1
	lineNo := 0

	lineStart := 0
	for i := 0; i <= len(window); i++ {
		if i == len(window) || window[i] == '\n' {
			// An empty line offers no starting position to compare.
			if i > lineStart {
				line := string(window[lineStart:i])
				dist := levenshtein(line, want)
				score := float64(dist) + float64(lineNo)/100.0
				if bestScore < 0 || score < bestScore {
					bestScore = score
					bestOffset = from + lineStart
				}
			}
			lineNo++
			lineStart = i + 1
		}
	}

	if bestOffset < 0 || bestScore >= fuzzyScoreThreshold {
		return SourceLoc{}, 0, false
	}
	return buf.LocAt(bestOffset), bestScore, true
}

// levenshtein computes the classic edit distance between a and b using a
// two-row dynamic-programming table (no need to retain the full matrix,
// since only row-to-row transitions matter to the final distance).
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
