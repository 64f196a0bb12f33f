package checkfile

import (
	"sort"
	"strconv"
	"strings"
)

// NumericVarRef is a stable, non-owning handle into a Context's arena of
// NumericVars. Patterns hold these instead of raw pointers so that the
// Context alone owns variable lifetime, so there is no way for a Pattern
// to outlive the Context it was parsed against and dereference a dangling
// reference, the hazard the original implementation's raw pointers invite.
type NumericVarRef int

// NumericVar is one named numeric variable (including the pseudo-variable
// "@LINE"). Value is nil when the variable is undefined: either never
// set, or cleared by a scope reset.
type NumericVar struct {
	Name        string
	Value       *uint64
	DefinedLine *int // nil if defined on the command line, or never defined
}

// SubstKind distinguishes the two substitution payloads a Pattern can
// splice into its skeleton at match time.
type SubstKind int

const (
	SubstString SubstKind = iota
	SubstNumeric
)

// Substitution is a deferred splice: at match time its value is computed
// and inserted into the pattern's skeleton at InsertOffset (which later
// substitutions' offsets are relative to, before any splice in the current
// match has shifted them).
type Substitution struct {
	Kind         SubstKind
	StringVar    string
	NumericExpr  *Expr
	DefineRef    NumericVarRef // valid only when DefineName != ""
	DefineName   string        // non-empty for "[[#name:expr]]": the expression also writes back to this variable
	InsertOffset int
}

// Context is the runtime state shared by every pattern compiled against one
// checker invocation: string variable values, the numeric-variable arena,
// and the special @LINE variable. It is created once per run and never
// shared across concurrent runs.
type Context struct {
	strings       map[string]string
	stringDefined map[string]bool // names ever defined as strings, kept even after a scope-clear, to catch later cross-kind collisions

	numerics   []*NumericVar // arena; index is NumericVarRef
	numByName  map[string]NumericVarRef
	lineVarRef NumericVarRef
}

// NewContext creates an empty context and its @LINE variable.
func NewContext() *Context {
	ctx := &Context{
		strings:       map[string]string{},
		stringDefined: map[string]bool{},
		numByName:     map[string]NumericVarRef{},
	}
	ctx.lineVarRef = ctx.makeNumericVar("@LINE", nil)
	return ctx
}

func (c *Context) makeNumericVar(name string, line *int) NumericVarRef {
	v := &NumericVar{Name: name, DefinedLine: line}
	c.numerics = append(c.numerics, v)
	ref := NumericVarRef(len(c.numerics) - 1)
	c.numByName[name] = ref
	return ref
}

// MakeNumericVar returns the existing variable named name, or creates one.
// This is how the parser obtains a NumericVarRef for a "[[#name:...]]"
// definition; bare "[[#name]]" uses are only looked up, never created.
func (c *Context) MakeNumericVar(name string, line *int) (NumericVarRef, error) {
	if c.stringDefined[name] {
		return 0, &ParseError{Kind: ParseErrNameCollision, Name: name, Message: "name already defined as a string variable"}
	}
	if ref, ok := c.numByName[name]; ok {
		return ref, nil
	}
	return c.makeNumericVar(name, line), nil
}

// DefineString records a string variable's name as live in this context (for
// cross-kind collision detection) without giving it a value. Used by the
// parser when it encounters "[[name:regex]]".
func (c *Context) DefineString(name string) error {
	if _, ok := c.numByName[name]; ok {
		return &ParseError{Kind: ParseErrNameCollision, Name: name, Message: "name already defined as a numeric variable"}
	}
	c.stringDefined[name] = true
	return nil
}

// SetString stores the live value of a string variable after a successful
// match.
func (c *Context) SetString(name, value string) {
	c.strings[name] = value
}

// LookupString returns the current value of a string variable.
func (c *Context) LookupString(name string) (string, bool) {
	v, ok := c.strings[name]
	return v, ok
}

// LookupNumeric returns the current value of a numeric variable (including
// @LINE).
func (c *Context) LookupNumeric(name string) (uint64, bool) {
	ref, ok := c.numByName[name]
	if !ok {
		return 0, false
	}
	v := c.numerics[ref].Value
	if v == nil {
		return 0, false
	}
	return *v, true
}

// SetNumeric stores a numeric variable's value and the line it was defined
// on, via its ref.
func (c *Context) SetNumeric(ref NumericVarRef, value uint64, line int) {
	v := c.numerics[ref]
	val := value
	v.Value = &val
	ln := line
	v.DefinedLine = &ln
}

// SetLine updates @LINE to n for the duration of matching the current
// pattern; ClearLine erases it again. @LINE reads inside a numeric
// substitution always see the *current* pattern's line, never the
// previous one.
func (c *Context) SetLine(n int) {
	val := uint64(n)
	c.numerics[c.lineVarRef].Value = &val
}

func (c *Context) ClearLine() {
	c.numerics[c.lineVarRef].Value = nil
}

// ClearLocalVars erases every string variable whose name doesn't start
// with "$", and clears (value only, the NumericVar itself survives so
// that earlier-parsed expression ASTs referencing it stay valid) every
// such numeric variable. This is the label-segment scope reset, active
// only when Config.EnableVarScope is set.
func (c *Context) ClearLocalVars() {
	for name := range c.strings {
		if !strings.HasPrefix(name, "$") {
			delete(c.strings, name)
		}
	}
	for _, v := range c.numerics {
		if v.Name == "@LINE" {
			continue
		}
		if !strings.HasPrefix(v.Name, "$") {
			v.Value = nil
		}
	}
}

// DefineFromCLI parses a batch of "-D" command-line bindings of the form
// "NAME=VALUE" (string) or "#NAME=INTEGER" (numeric), folding every error
// into one aggregated list rather than stopping at the first.
func (c *Context) DefineFromCLI(defs []string) error {
	var errs ParseErrors
	for _, def := range defs {
		if strings.HasPrefix(def, "#") {
			rest := def[1:]
			eq := strings.IndexByte(rest, '=')
			if eq <= 0 {
				errs.Add(&ParseError{Kind: ParseErrBadExpression, Message: "malformed numeric define, want '#NAME=INT'", Name: def})
				continue
			}
			name, valStr := rest[:eq], rest[eq+1:]
			if !isValidIdentifier(name) {
				errs.Add(&ParseError{Kind: ParseErrInvalidName, Name: name, Message: "invalid numeric variable name"})
				continue
			}
			val, err := strconv.ParseUint(valStr, 10, 64)
			if err != nil {
				errs.Add(&ParseError{Kind: ParseErrBadExpression, Name: name, Message: "invalid integer value"})
				continue
			}
			ref, err := c.MakeNumericVar(name, nil)
			if err != nil {
				errs.Add(err.(*ParseError))
				continue
			}
			v := val
			c.numerics[ref].Value = &v
		} else {
			eq := strings.IndexByte(def, '=')
			if eq <= 0 {
				errs.Add(&ParseError{Kind: ParseErrBadExpression, Message: "malformed string define, want 'NAME=VALUE'", Name: def})
				continue
			}
			name, val := def[:eq], def[eq+1:]
			if !isValidIdentifier(name) {
				errs.Add(&ParseError{Kind: ParseErrInvalidName, Name: name, Message: "invalid string variable name"})
				continue
			}
			if err := c.DefineString(name); err != nil {
				errs.Add(err.(*ParseError))
				continue
			}
			c.SetString(name, val)
		}
	}
	if errs.HasErrors() {
		return &errs
	}
	return nil
}

func isValidIdentifier(name string) bool {
	n := name
	if strings.HasPrefix(n, "$") {
		n = n[1:]
	}
	if n == "" {
		return false
	}
	if !(n[0] == '_' || (n[0] >= 'a' && n[0] <= 'z') || (n[0] >= 'A' && n[0] <= 'Z')) {
		return false
	}
	for i := 1; i < len(n); i++ {
		if !isIdentByte(n[i]) {
			return false
		}
	}
	return true
}

// sortedStringNames returns the live string-variable names in sorted order,
// for output that must be deterministic.
func (c *Context) sortedStringNames() []string {
	names := make([]string, 0, len(c.strings))
	for k := range c.strings {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
