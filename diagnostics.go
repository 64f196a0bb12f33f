package checkfile

// MatchKind classifies a single diagnostic event for the benefit of an
// external renderer: whether a directive found what it wanted, found
// something it shouldn't have, or the fuzzy heuristic found a near-miss
// worth pointing at.
type MatchKind int

const (
	FoundAndExpected MatchKind = iota
	FoundButExcluded
	FoundButWrongLine
	FoundButDiscarded
	NoneAndExcluded
	NoneButExpected
	Fuzzy
)

func (k MatchKind) String() string {
	switch k {
	case FoundAndExpected:
		return "found-and-expected"
	case FoundButExcluded:
		return "found-but-excluded"
	case FoundButWrongLine:
		return "found-but-wrong-line"
	case FoundButDiscarded:
		return "found-but-discarded"
	case NoneAndExcluded:
		return "none-and-excluded"
	case NoneButExpected:
		return "none-but-expected"
	case Fuzzy:
		return "fuzzy"
	}
	return "unknown"
}

// DiagnosticEvent is one structured record of what happened while matching
// a single directive. The checker never renders these to text itself --
// internal/render turns a slice of events into human-readable output -- so
// an event carries everything a renderer could plausibly need: what kind of
// directive this was, where it's written in the check file, what part of
// the input (if any) it matched or almost matched, and why.
type DiagnosticEvent struct {
	Kind          DirectiveKind
	Prefix        string
	CheckLocation SourceLoc
	MatchKind     MatchKind
	InputRange    MatchResult
	InputLoc      SourceLoc
	Message       string
	FuzzyScore    float64
}

// DiagnosticSink collects DiagnosticEvents across one checker run in
// emission order. It is not safe for concurrent use; a Checker.Run call
// owns exactly one sink for its duration.
type DiagnosticSink struct {
	events []DiagnosticEvent
}

func NewDiagnosticSink() *DiagnosticSink {
	return &DiagnosticSink{}
}

func (s *DiagnosticSink) Emit(ev DiagnosticEvent) {
	s.events = append(s.events, ev)
}

func (s *DiagnosticSink) Events() []DiagnosticEvent {
	return s.events
}

// HasFailures reports whether any collected event represents a check
// failure (as opposed to a purely informational record). The run's overall
// pass/fail result is RunResult.Err, not this method.
func (s *DiagnosticSink) HasFailures() bool {
	for _, ev := range s.events {
		switch ev.MatchKind {
		case FoundButExcluded, FoundButWrongLine, NoneButExpected:
			return true
		}
	}
	return false
}
