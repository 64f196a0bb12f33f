package checkfile

// Compile scans checkData for directives recognized under cfg and compiles
// them into an ordered list of CheckStrings ready for Checker.Run. It is
// the glue the CLI (or any embedder) calls instead of driving the lexer
// and parser directly: lex one token, parse its body, and either start a
// new CheckString (on an anchor directive) or append to the current one's
// preceding bag (on CHECK-NOT/CHECK-DAG).
func Compile(checkData []byte, ctx *Context, cfg *Config) ([]*CheckString, error) {
	buf := NewBuffer(checkData)
	lexer := NewLexer(buf, cfg.CheckPrefixes)
	opts := parserOptions{StrictWhitespace: cfg.StrictWhitespace, MatchFullLines: cfg.MatchFullLines}

	var errs ParseErrors
	var checks []*CheckString
	var preceding []Pattern

	implicitNots, err := compileImplicitNots(cfg.GlobalDefines, cfg.ImplicitCheckNot, ctx, opts)
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := lexer.Next()
		if !ok {
			break
		}

		if tok.Kind == KindMalformedNot {
			errs.Add(&ParseError{Kind: ParseErrMalformedNot, Location: tok.Loc, Name: tok.Prefix, Message: "ambiguous NOT combination"})
			continue
		}
		if tok.Kind == KindMalformedCount {
			errs.Add(&ParseError{Kind: ParseErrMalformedCount, Location: tok.Loc, Name: tok.Prefix, Message: "malformed CHECK-COUNT literal"})
			continue
		}

		line := tok.Loc.Line + 1
		pat, err := parsePattern(tok, ctx, opts)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				errs.Add(pe)
			} else if pes, ok := err.(*ParseErrors); ok {
				errs.Errors = append(errs.Errors, pes.Errors...)
			}
			continue
		}
		pat.LineNumber = &line
		pat.Prefix = tok.Prefix

		if pat.Kind == KindNot || pat.Kind == KindDag {
			preceding = append(preceding, *pat)
			continue
		}

		bag := append([]Pattern{}, implicitNots...)
		bag = append(bag, preceding...)
		checks = append(checks, &CheckString{
			Pattern:   *pat,
			Prefix:    tok.Prefix,
			Loc:       tok.Loc,
			Preceding: bag,
		})
		preceding = nil
	}

	if len(preceding) > 0 {
		// A trailing CHECK-NOT/CHECK-DAG group with nothing after it is
		// anchored against the end of input.
		bag := append([]Pattern{}, implicitNots...)
		bag = append(bag, preceding...)
		checks = append(checks, &CheckString{
			Pattern:   Pattern{Kind: KindEndOfInput},
			Preceding: bag,
		})
	}

	if errs.HasErrors() {
		return nil, &errs
	}
	return checks, nil
}

// compileImplicitNots parses cfg's implicit_check_not bodies (after binding
// global_defines into ctx) into a reusable Pattern slice, prepended to
// every anchor's preceding list.
func compileImplicitNots(defines, implicitNots []string, ctx *Context, opts parserOptions) ([]Pattern, error) {
	if err := ctx.DefineFromCLI(defines); err != nil {
		return nil, &ConfigError{Message: "invalid global define: " + err.Error()}
	}
	var out []Pattern
	for _, body := range implicitNots {
		buf := NewBuffer([]byte(body + "\n"))
		tok := &DirectiveToken{Kind: KindNot, Body: body, Loc: buf.LocAt(0)}
		pat, err := parsePattern(tok, ctx, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, *pat)
	}
	return out, nil
}
