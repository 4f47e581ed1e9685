// Package cfgexpr parses and evaluates Rust cfg(...) predicate expressions.
// Evaluation is three-valued: atoms this engine cannot decide at bundling
// time (arbitrary build flags, target properties) stay Unknown, and Unknown
// propagates through all/any/not the usual Kleene way.
package cfgexpr

// Truth is the result of evaluating a predicate.
type Truth int

const (
	False Truth = iota
	True
	Unknown
)

// Kind discriminates predicate nodes.
type Kind int

const (
	Atom Kind = iota
	All
	Any
	Not
)

// Expr is one node of a cfg predicate tree.
type Expr struct {
	Kind Kind
	// List holds the operands of all(...) / any(...).
	List []Expr
	// Arg holds the operand of not(...).
	Arg *Expr
	// Name and Value describe an atom; HasValue distinguishes `name` from
	// `name = "value"`.
	Name     string
	Value    string
	HasValue bool
}

// Env supplies the decidable atoms.
type Env struct {
	// Flags maps decided bare flags to their value; absent flags are Unknown.
	Flags map[string]bool
	// Features is the active feature set.
	Features map[string]struct{}
}

// DefaultEnv builds the bundling environment: the synthetic bundling-mode
// flag holds, test and proc-macro contexts do not, and the given features
// are active.
func DefaultEnv(features []string) Env {
	active := make(map[string]struct{}, len(features))
	for _, f := range features {
		active[f] = struct{}{}
	}
	return Env{
		Flags: map[string]bool{
			"bundrs":     true,
			"test":       false,
			"proc_macro": false,
		},
		Features: active,
	}
}

// Eval evaluates the predicate under env.
func (e Expr) Eval(env Env) Truth {
	switch e.Kind {
	case All:
		result := True
		for _, sub := range e.List {
			switch sub.Eval(env) {
			case False:
				return False
			case Unknown:
				result = Unknown
			}
		}
		return result
	case Any:
		result := False
		for _, sub := range e.List {
			switch sub.Eval(env) {
			case True:
				return True
			case Unknown:
				result = Unknown
			}
		}
		return result
	case Not:
		switch e.Arg.Eval(env) {
		case True:
			return False
		case False:
			return True
		}
		return Unknown
	default:
		return e.evalAtom(env)
	}
}

func (e Expr) evalAtom(env Env) Truth {
	if e.Name == "feature" && e.HasValue {
		if _, ok := env.Features[e.Value]; ok {
			return True
		}
		return False
	}
	if !e.HasValue {
		if v, ok := env.Flags[e.Name]; ok {
			if v {
				return True
			}
			return False
		}
	}
	return Unknown
}
