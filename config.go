package checkfile

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	sliceutil "github.com/projectdiscovery/utils/slice"
	"gopkg.in/yaml.v3"
)

// prefixPattern is the identifier grammar a check-prefix must satisfy:
// letters, digits, underscore, or hyphen, at least one character.
var prefixPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Config carries every recognized option governing how directives are
// parsed and matched. It is the single record threaded into every
// parse/match call instead of the process-wide mutable statics the
// original implementation relies on.
type Config struct {
	CheckPrefixes             []string `yaml:"check_prefixes"`
	ImplicitCheckNot          []string `yaml:"implicit_check_not"`
	GlobalDefines             []string `yaml:"global_defines"`
	StrictWhitespace          bool     `yaml:"strict_whitespace"`
	MatchFullLines            bool     `yaml:"match_full_lines"`
	EnableVarScope            bool     `yaml:"enable_var_scope"`
	AllowDeprecatedDagOverlap bool     `yaml:"allow_deprecated_dag_overlap"`
	AllowEmptyInput           bool     `yaml:"allow_empty_input"`
	Verbose                   bool     `yaml:"verbose"`
	VeryVerbose               bool     `yaml:"very_verbose"`
}

// DefaultConfig is the configuration in effect when no options are given:
// a single "CHECK" prefix and every flag off. internal/runner
// overwrites this at process start if the user has a config file cached
// under their home directory.
var DefaultConfig = Config{CheckPrefixes: []string{"CHECK"}}

// Clone returns an independent copy of c, since the parser/orchestrator
// never mutate the Config they're given but callers building one up from
// CLI flags on top of DefaultConfig need their own slice headers.
func (c Config) Clone() *Config {
	cp := c
	cp.CheckPrefixes = append([]string(nil), c.CheckPrefixes...)
	cp.ImplicitCheckNot = append([]string(nil), c.ImplicitCheckNot...)
	cp.GlobalDefines = append([]string(nil), c.GlobalDefines...)
	return &cp
}

// NewConfig reads a Config from a YAML file at filePath, filling in
// check_prefixes with the default when the file doesn't set it.
func NewConfig(filePath string) (*Config, error) {
	bin, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig.Clone()
	cfg.CheckPrefixes = nil
	if err := yaml.Unmarshal(bin, cfg); err != nil {
		return nil, err
	}
	if len(cfg.CheckPrefixes) == 0 {
		cfg.CheckPrefixes = []string{"CHECK"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GenerateSample writes a sample configuration file to filePath,
// useful as a starting point for a project's own check-prefix conventions.
func GenerateSample(filePath string) error {
	cfg := Config{
		CheckPrefixes:    []string{"CHECK"},
		ImplicitCheckNot: []string{},
		GlobalDefines:    []string{},
	}
	bin, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, bin, 0644)
}

// Validate enforces the recognized check_prefixes constraints: each must
// be non-empty, match the identifier grammar, and be unique -- a caller
// passing the same prefix twice is a configuration error (matching
// original_source's validateCheckPrefixes, which fails the moment a
// prefix is already in its prefix set), not a silently-collapsed mistake.
func (c *Config) Validate() error {
	if len(c.CheckPrefixes) == 0 {
		return &ConfigError{Message: "at least one check-prefix is required"}
	}
	var seen []string
	for _, p := range c.CheckPrefixes {
		if strings.TrimSpace(p) == "" {
			return &ConfigError{Message: "check-prefix may not be empty"}
		}
		if !prefixPattern.MatchString(p) {
			return &ConfigError{Message: "invalid check-prefix " + strconv.Quote(p) + ", must match [A-Za-z0-9_-]+"}
		}
		if sliceutil.Contains(seen, p) {
			return &ConfigError{Message: "duplicate check-prefix " + strconv.Quote(p)}
		}
		seen = append(seen, p)
	}
	return nil
}
