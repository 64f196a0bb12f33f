package checkfile

import (
	"regexp"
	"strings"
)

// parserOptions carries the subset of Config that changes how a pattern
// body compiles (as opposed to how it's later matched against input).
type parserOptions struct {
	StrictWhitespace bool
	MatchFullLines   bool
}

// parsePattern compiles one directive's raw body text into a Pattern. The
// returned Pattern's LineNumber is nil; Compile sets it to the directive's
// 1-based check-file line (used for @LINE resolution), and patterns
// synthesized from Config.ImplicitCheckNot keep it nil.
func parsePattern(tok *DirectiveToken, ctx *Context, opts parserOptions) (*Pattern, error) {
	body := tok.Body
	if !(opts.StrictWhitespace && opts.MatchFullLines) {
		body = strings.TrimRight(body, " \t")
		// A single leading space after the ':' is the conventional
		// separator and is not part of the pattern; further leading
		// whitespace is significant.
		body = strings.TrimPrefix(body, " ")
	}

	if tok.Kind == KindEmpty {
		if strings.TrimSpace(body) != "" {
			return nil, &ParseError{Kind: ParseErrNonEmptyEmptyBody, Location: tok.Loc, Message: "CHECK-EMPTY does not take a pattern"}
		}
		return &Pattern{Kind: tok.Kind, Count: 1, Loc: tok.Loc, Prefix: tok.Prefix, Body: PatternBody{Kind: BodyFixed, Fixed: []byte("\n")}}, nil
	}

	if strings.TrimSpace(body) == "" {
		return nil, &ParseError{Kind: ParseErrEmptyBody, Location: tok.Loc, Message: "directive has an empty pattern"}
	}

	if tok.Kind == KindLabel && (strings.Contains(body, "{{") || strings.Contains(body, "[[")) {
		return nil, &ParseError{Kind: ParseErrLabelHasCapture, Location: tok.Loc, Message: "CHECK-LABEL patterns may not contain regex or variable substitutions"}
	}

	effectiveOpts := opts
	if tok.Kind == KindNot {
		effectiveOpts.MatchFullLines = false
	}
	pb, err := compileBody(body, tok.Loc, ctx, effectiveOpts)
	if err != nil {
		return nil, err
	}

	count := tok.Count
	if count == 0 {
		count = 1
	}

	return &Pattern{
		Kind:   tok.Kind,
		Count:  count,
		Loc:    tok.Loc,
		Prefix: tok.Prefix,
		Body:   pb,
	}, nil
}

// compileBody walks body left to right, splitting it into literal runs and
// {{regex}} / [[...]] tokens, as original_source's parsePattern does via
// addRegExToRegEx/addBackrefToRegEx. A body with no non-literal tokens short
// circuits to a BodyFixed pattern: a plain CHECK that needs no regex engine
// at all is matched by a literal byte search.
func compileBody(body string, loc SourceLoc, ctx *Context, opts parserOptions) (PatternBody, error) {
	var skeleton strings.Builder
	var subs []Substitution
	stringCaptures := map[string]int{}
	captureRegex := map[string]string{}
	numericCaptures := map[string]NumericCapture{}
	var backrefs []BackrefPair
	groupIndex := 0
	sawToken := false

	if opts.MatchFullLines {
		skeleton.WriteString(`(?m)^`)
		if !opts.StrictWhitespace {
			skeleton.WriteString(` *`)
		}
	}

	i := 0
	for i < len(body) {
		switch {
		case strings.HasPrefix(body[i:], "{{"):
			close, err := findBalancedClose(body, i+2, "{{", "}}")
			if err != nil {
				return PatternBody{}, &ParseError{Kind: ParseErrUnterminatedRegex, Location: loc, Message: err.Error()}
			}
			sawToken = true
			inner := body[i+2 : close]
			groupIndex++
			skeleton.WriteString("(")
			skeleton.WriteString(inner)
			skeleton.WriteString(")")
			i = close + 2

		case strings.HasPrefix(body[i:], "[["):
			close, err := findBracketClose(body, i+2)
			if err != nil {
				return PatternBody{}, &ParseError{Kind: ParseErrUnterminatedVar, Location: loc, Message: err.Error()}
			}
			sawToken = true
			inner := body[i+2 : close]
			if err := compileVarToken(inner, loc, ctx, &skeleton, &subs, stringCaptures, captureRegex, numericCaptures, &groupIndex, &backrefs); err != nil {
				return PatternBody{}, err
			}
			i = close + 2

		default:
			// Literal run up to the next token opener.
			j := i
			for j < len(body) && !strings.HasPrefix(body[j:], "{{") && !strings.HasPrefix(body[j:], "[[") {
				j++
			}
			skeleton.WriteString(regexp.QuoteMeta(body[i:j]))
			i = j
		}
	}

	if opts.MatchFullLines {
		if !opts.StrictWhitespace {
			skeleton.WriteString(` *`)
		}
		skeleton.WriteString(`$`)
	}

	if !sawToken && !opts.MatchFullLines {
		return PatternBody{Kind: BodyFixed, Fixed: []byte(body)}, nil
	}

	if groupIndex > 9 {
		return PatternBody{}, &ParseError{Kind: ParseErrTooManyCaptures, Location: loc, Message: "pattern uses more than 9 capture groups"}
	}

	return PatternBody{
		Kind:            BodyRegex,
		Skeleton:        skeleton.String(),
		Substitutions:   subs,
		StringCaptures:  stringCaptures,
		NumericCaptures: numericCaptures,
		Backrefs:        backrefs,
	}, nil
}

// compileVarToken handles the contents of one "[[...]]" span: a string
// capture/use, or a numeric ("#"-led) capture/use/expression.
func compileVarToken(
	inner string,
	loc SourceLoc,
	ctx *Context,
	skeleton *strings.Builder,
	subs *[]Substitution,
	stringCaptures map[string]int,
	captureRegex map[string]string,
	numericCaptures map[string]NumericCapture,
	groupIndex *int,
	backrefs *[]BackrefPair,
) error {
	if strings.HasPrefix(inner, "#") {
		return compileNumericToken(inner[1:], loc, ctx, skeleton, subs, numericCaptures, groupIndex)
	}

	// Legacy "@LINE+k" / "@LINE-k" forms, recognized without the leading
	// "#" for backward compatibility (original_source CheckPattern.cpp
	// evaluateExpression).
	if strings.HasPrefix(inner, "@LINE") {
		return compileNumericToken(inner, loc, ctx, skeleton, subs, numericCaptures, groupIndex)
	}

	colon := strings.IndexByte(inner, ':')
	if colon < 0 {
		// Bare "[[name]]": if name was already captured earlier in this
		// same pattern, this is a true in-pattern backreference -- emit a
		// duplicate capture group using the original's regex source and
		// verify post-match that both groups captured identical bytes
		// (Go's regexp has no "\k<name>" backref syntax to enforce this
		// directly). Otherwise it's a use of a string/numeric variable
		// captured by an earlier *pattern*, deferred to a substitution
		// resolved from context at splice time.
		name := inner
		if !isValidIdentifier(name) {
			return &ParseError{Kind: ParseErrInvalidName, Location: loc, Message: "invalid variable name", Name: name}
		}
		if orig, ok := stringCaptures[name]; ok {
			*groupIndex++
			skeleton.WriteString("(")
			skeleton.WriteString(captureRegex[name])
			skeleton.WriteString(")")
			*backrefs = append(*backrefs, BackrefPair{GroupIndex: *groupIndex, OrigGroupIndex: orig})
			return nil
		}
		*subs = append(*subs, Substitution{Kind: SubstString, StringVar: name, InsertOffset: skeleton.Len()})
		return nil
	}

	name := inner[:colon]
	regex := inner[colon+1:]
	if !isValidIdentifier(name) {
		return &ParseError{Kind: ParseErrInvalidName, Location: loc, Message: "invalid variable name", Name: name}
	}
	if err := ctx.DefineString(name); err != nil {
		return err
	}
	*groupIndex++
	stringCaptures[name] = *groupIndex
	captureRegex[name] = regex
	skeleton.WriteString("(")
	skeleton.WriteString(regex)
	skeleton.WriteString(")")
	return nil
}

func compileNumericToken(
	inner string,
	loc SourceLoc,
	ctx *Context,
	skeleton *strings.Builder,
	subs *[]Substitution,
	numericCaptures map[string]NumericCapture,
	groupIndex *int,
) error {
	colon := strings.IndexByte(inner, ':')

	if colon < 0 {
		// Bare "[[#expr]]" (including legacy "@LINE+k"): a numeric
		// substitution, never a capture.
		expr, err := parseExpr(inner, strings.HasPrefix(inner, "@LINE"))
		if err != nil {
			return err
		}
		vars := map[string]bool{}
		expr.Vars(vars)
		for name := range vars {
			if _, ok := ctx.numByName[name]; !ok && name != "@LINE" {
				return &ParseError{Kind: ParseErrUndefinedVariable, Location: loc, Message: "undefined numeric variable", Name: name}
			}
		}
		*subs = append(*subs, Substitution{Kind: SubstNumeric, NumericExpr: expr, InsertOffset: skeleton.Len()})
		return nil
	}

	name := strings.TrimSpace(inner[:colon])
	rest := inner[colon+1:]
	if !isValidIdentifier(name) {
		return &ParseError{Kind: ParseErrInvalidName, Location: loc, Message: "invalid numeric variable name", Name: name}
	}

	if rest == "" {
		// "[[#name:]]": capture the matched text itself as an unsigned
		// decimal integer, default pattern.
		ref, err := ctx.MakeNumericVar(name, nil)
		if err != nil {
			return err
		}
		*groupIndex++
		numericCaptures[name] = NumericCapture{GroupIndex: *groupIndex, Ref: ref}
		skeleton.WriteString(`([0-9]+)`)
		return nil
	}

	// "[[#name:expr]]": an expression whose result both defines name and
	// is spliced into the pattern as decimal text. A name cannot also
	// appear inside its own defining expression, since that would make
	// evaluation order ill-defined.
	expr, err := parseExpr(rest, false)
	if err != nil {
		return err
	}
	vars := map[string]bool{}
	expr.Vars(vars)
	if vars[name] {
		return &ParseError{Kind: ParseErrSelfReferential, Location: loc, Message: "numeric variable definition references itself", Name: name}
	}
	for v := range vars {
		if _, ok := ctx.numByName[v]; !ok && v != "@LINE" {
			return &ParseError{Kind: ParseErrUndefinedVariable, Location: loc, Message: "undefined numeric variable", Name: v}
		}
	}
	ref, err := ctx.MakeNumericVar(name, nil)
	if err != nil {
		return err
	}
	*subs = append(*subs, Substitution{Kind: SubstNumeric, NumericExpr: expr, DefineRef: ref, DefineName: name, InsertOffset: skeleton.Len()})
	// The defined variable's own value is written back by the matcher
	// after it evaluates expr, not captured from the input text; no
	// capture group is allocated here.
	return nil
}

// findBalancedClose finds the offset of the close delimiter for an
// already-consumed open delimiter at s[from-len(open):from]: the first
// occurrence of close at or after from. A regex body containing "{2,4}"
// repetition counts is fine since that's not the delimiter; nested
// "{{...}}" pairs and escaped delimiters are not recognized.
func findBalancedClose(s string, from int, open, close string) (int, error) {
	idx := strings.Index(s[from:], close)
	if idx < 0 {
		return 0, errUnterminated(open)
	}
	return from + idx, nil
}

// findBracketClose finds the end of a "[[...]]" span starting at from,
// aware that the span's regex payload (for a "[[name:regex]]" capture) may
// itself contain "[...]" character classes whose own ']' characters must
// not be confused with the "]]" terminator -- e.g. "[[x:[a-z]]]" terminates
// at the second "]]", not the first.
func findBracketClose(s string, from int) (int, error) {
	i := from
	inClass := false
	for i < len(s) {
		c := s[i]
		switch {
		case inClass:
			if c == '\\' && i+1 < len(s) {
				i++
			} else if c == ']' {
				inClass = false
			}
		case c == '\\' && i+1 < len(s):
			i++
		case c == '[':
			inClass = true
		case c == ']':
			if i+1 < len(s) && s[i+1] == ']' {
				return i, nil
			}
		}
		i++
	}
	return 0, errUnterminated("[[")
}

func errUnterminated(open string) error {
	return &ParseError{Kind: ParseErrUnterminatedVar, Message: "unterminated " + open + " token"}
}
