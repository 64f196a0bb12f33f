package runner

import (
	"io"
	"os"
	"strings"

	"github.com/projectdiscovery/checkfile"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
	errorutil "github.com/projectdiscovery/utils/errors"
	fileutil "github.com/projectdiscovery/utils/file"
	updateutils "github.com/projectdiscovery/utils/update"
)

// Options holds every value parsed from the command line, prior to being
// folded into a checkfile.Config and an input/check-file pair.
type Options struct {
	InputFile                 string
	CheckFile                 string
	CheckPrefixes             goflags.StringSlice
	ImplicitCheckNot          goflags.StringSlice
	Defines                   goflags.StringSlice
	Config                    string
	DumpInput                 string
	StrictWhitespace          bool
	MatchFullLines            bool
	EnableVarScope            bool
	AllowDeprecatedDagOverlap bool
	AllowEmptyInput           bool
	Verbose                   bool
	VeryVerbose               bool
	Silent                    bool
	DisableUpdateCheck        bool
}

// ParseFlags parses os.Args into Options, merging in a config file when
// -config is given via the two-stage goflags.Parse()-then-
// MergeConfigFile() sequence.
func ParseFlags() *Options {
	opts := &Options{}
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`Input-verification engine: checks that a program's output satisfies an ordered sequence of CHECK directives.`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&opts.InputFile, "input", "i", "", "input file to verify (default stdin)"),
		flagSet.StringVarP(&opts.CheckFile, "check-file", "c", "", "check file containing CHECK directives (required)"),
	)

	flagSet.CreateGroup("directives", "Directives",
		flagSet.StringSliceVarP(&opts.CheckPrefixes, "check-prefix", "p", goflags.StringSlice{"CHECK"}, "one or more check-prefixes to recognize (comma-separated)", goflags.CommaSeparatedStringSliceOptions),
		flagSet.StringSliceVarP(&opts.ImplicitCheckNot, "implicit-check-not", "icn", nil, "pattern prepended as an implicit CHECK-NOT to every anchor (file, comma-separated)", goflags.FileCommaSeparatedStringSliceOptions),
		flagSet.StringSliceVarP(&opts.Defines, "define", "D", nil, "pre-bind a variable, '[#]NAME=VALUE' (comma-separated)", goflags.CommaSeparatedStringSliceOptions),
	)

	flagSet.CreateGroup("matching", "Matching behavior",
		flagSet.BoolVarP(&opts.StrictWhitespace, "strict-whitespace", "sw", false, "disable horizontal-whitespace canonicalization"),
		flagSet.BoolVarP(&opts.MatchFullLines, "match-full-lines", "mfl", false, "anchor every non-NOT pattern to whole lines"),
		flagSet.BoolVarP(&opts.EnableVarScope, "enable-var-scope", "evs", false, "clear non-global variables between CHECK-LABEL segments"),
		flagSet.BoolVarP(&opts.AllowDeprecatedDagOverlap, "allow-deprecated-dag-overlap", "addo", false, "merge overlapping CHECK-DAG matches instead of rejecting them"),
		flagSet.BoolVarP(&opts.AllowEmptyInput, "allow-empty-input", "aei", false, "treat a check file with no directives as trivially satisfied"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "emit remark-level diagnostic events for successful matches"),
		flagSet.BoolVarP(&opts.VeryVerbose, "very-verbose", "vv", false, "like -verbose (successful matches and discarded CHECK-DAG attempts)"),
		flagSet.BoolVar(&opts.Silent, "silent", false, "suppress the banner and informational log lines"),
		flagSet.StringVar(&opts.DumpInput, "dump-input", "", "on failure, write the annotated input to this file (external renderer)"),
		flagSet.CallbackVar(printVersion, "version", "display checkfile version"),
	)

	flagSet.CreateGroup("config", "Config",
		flagSet.StringVar(&opts.Config, "config", "", `checkfile cli config file (default '$HOME/.config/checkfile/config.yaml')`),
	)

	flagSet.CreateGroup("update", "Update",
		flagSet.CallbackVarP(GetUpdateCallback(), "update", "up", "update checkfile to latest version"),
		flagSet.BoolVarP(&opts.DisableUpdateCheck, "disable-update-check", "duc", false, "disable automatic checkfile update check"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("Could not read flags: %s\n", err)
	}

	if opts.Config != "" {
		if err := flagSet.MergeConfigFile(opts.Config); err != nil {
			gologger.Error().Msgf("failed to read config file got %v", err)
		}
	}

	if opts.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	} else if opts.VeryVerbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	} else if opts.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if !opts.Silent {
		showBanner()
	}

	if !opts.DisableUpdateCheck {
		latestVersion, err := updateutils.GetVersionCheckCallback("checkfile")()
		if err != nil {
			if opts.Verbose {
				gologger.Error().Msgf("checkfile version check failed: %v", err.Error())
			}
		} else {
			gologger.Info().Msgf("Current checkfile version %v %v", version, updateutils.GetVersionDescription(version, latestVersion))
		}
	}

	if opts.CheckFile == "" {
		gologger.Fatal().Msgf("checkfile: -check-file is required")
	}

	return opts
}

// ToConfig folds the parsed flags into a checkfile.Config, layered on top
// of checkfile.DefaultConfig (itself possibly overridden by a cached
// per-user config file, see config.go's init).
func (o *Options) ToConfig() *checkfile.Config {
	cfg := checkfile.DefaultConfig.Clone()
	if len(o.CheckPrefixes) > 0 {
		cfg.CheckPrefixes = []string(o.CheckPrefixes)
	}
	if len(o.ImplicitCheckNot) > 0 {
		cfg.ImplicitCheckNot = []string(o.ImplicitCheckNot)
	}
	if len(o.Defines) > 0 {
		cfg.GlobalDefines = []string(o.Defines)
	}
	cfg.StrictWhitespace = cfg.StrictWhitespace || o.StrictWhitespace
	cfg.MatchFullLines = cfg.MatchFullLines || o.MatchFullLines
	cfg.EnableVarScope = cfg.EnableVarScope || o.EnableVarScope
	cfg.AllowDeprecatedDagOverlap = cfg.AllowDeprecatedDagOverlap || o.AllowDeprecatedDagOverlap
	cfg.AllowEmptyInput = cfg.AllowEmptyInput || o.AllowEmptyInput
	cfg.Verbose = cfg.Verbose || o.Verbose || o.VeryVerbose
	cfg.VeryVerbose = cfg.VeryVerbose || o.VeryVerbose
	return cfg
}

// ReadInput returns the bytes to verify: the named input file, or stdin
// when none was given.
func (o *Options) ReadInput() ([]byte, error) {
	if o.InputFile != "" {
		data, err := os.ReadFile(o.InputFile)
		if err != nil {
			return nil, errorutil.NewWithErr(err).Msgf("failed to read input file %v", o.InputFile)
		}
		return data, nil
	}
	if fileutil.HasStdin() {
		return io.ReadAll(os.Stdin)
	}
	return nil, errorutil.New("no input file given and stdin is not a pipe")
}

// ReadCheckFile returns the bytes of the configured check file.
func (o *Options) ReadCheckFile() ([]byte, error) {
	data, err := os.ReadFile(o.CheckFile)
	if err != nil {
		return nil, errorutil.NewWithErr(err).Msgf("failed to read check file %v", o.CheckFile)
	}
	return data, nil
}

func printVersion() {
	gologger.Info().Msgf("Current version: %s", version)
	os.Exit(0)
}

// Canonicalize collapses "\r\n" to "\n" and, unless strict-whitespace is
// requested, runs of horizontal whitespace to a single space. This is the
// loader's responsibility, kept here since the CLI is this core's only
// loader in this repository.
func Canonicalize(data []byte, strictWhitespace bool) []byte {
	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	if strictWhitespace {
		return []byte(s)
	}
	var out strings.Builder
	inRun := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if inRun {
				continue
			}
			inRun = true
			out.WriteByte(' ')
			continue
		}
		inRun = false
		out.WriteRune(r)
	}
	return []byte(out.String())
}
