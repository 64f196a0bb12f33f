package main

import (
	"fmt"
	"os"

	"github.com/projectdiscovery/checkfile"
	"github.com/projectdiscovery/checkfile/internal/render"
	"github.com/projectdiscovery/checkfile/internal/runner"
	"github.com/projectdiscovery/gologger"
)

func main() {
	opts := runner.ParseFlags()
	cfg := opts.ToConfig()

	if err := cfg.Validate(); err != nil {
		gologger.Fatal().Msgf("checkfile: %v", err)
	}

	checkData, err := opts.ReadCheckFile()
	if err != nil {
		gologger.Fatal().Msgf("checkfile: failed to read check file: %v", err)
	}
	inputData, err := opts.ReadInput()
	if err != nil {
		gologger.Fatal().Msgf("checkfile: failed to read input: %v", err)
	}

	checkData = runner.Canonicalize(checkData, cfg.StrictWhitespace)
	inputData = runner.Canonicalize(inputData, cfg.StrictWhitespace)

	ctx := checkfile.NewContext()
	checks, err := checkfile.Compile(checkData, ctx, cfg)
	if err != nil {
		gologger.Error().Msgf("checkfile: %v", err)
		os.Exit(2)
	}

	checker := checkfile.NewChecker(cfg)
	result := checker.Run(checks, checkfile.NewBuffer(inputData), ctx)

	for _, ev := range result.Sink.Events() {
		if !cfg.Verbose && !cfg.VeryVerbose && ev.MatchKind == checkfile.FoundAndExpected {
			continue
		}
		fmt.Fprintln(os.Stderr, render.Render(toRenderEvent(ev)))
	}

	if !result.Passed() {
		gologger.Error().Msgf("checkfile: %v", result.Err)
		os.Exit(1)
	}
	gologger.Info().Msgf("checkfile: all directives satisfied")
}

func toRenderEvent(ev checkfile.DiagnosticEvent) render.DiagnosticEvent {
	return render.DiagnosticEvent{
		DirectiveKind: ev.Kind.String(),
		Prefix:        ev.Prefix,
		CheckLine:     ev.CheckLocation.Line + 1,
		CheckCol:      ev.CheckLocation.Col + 1,
		MatchKind:     ev.MatchKind.String(),
		InputLine:     ev.InputLoc.Line + 1,
		InputCol:      ev.InputLoc.Col + 1,
		Message:       ev.Message,
		FuzzyScore:    ev.FuzzyScore,
	}
}
