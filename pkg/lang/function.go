package lang

import (
	"github.com/pkg/errors"

	"github.com/clarity-vm/context/pkg/clarity"
	"github.com/clarity-vm/context/pkg/clarityerr"
	"github.com/clarity-vm/context/pkg/contractctx"
	"github.com/clarity-vm/context/pkg/localctx"
)

// Function is the lang package's DefinedFunction implementation: a set of
// formal parameter names closed over a body Expr, evaluated in a fresh
// LocalContext frame populated with the call's actual arguments.
type Function struct {
	name     clarity.ClarityName
	params   []clarity.ClarityName
	body     Expr
	public   bool
	readOnly bool
}

var _ contractctx.DefinedFunction = (*Function)(nil)

func (f *Function) Name() clarity.ClarityName { return f.name }
func (f *Function) IsPublic() bool            { return f.public }
func (f *Function) IsReadOnly() bool          { return f.readOnly }

// ExecuteApply binds args to the function's formal parameters in a fresh
// frame extended from the root — a function body sees its own parameters
// and the contract's bindings, never the caller's locals. env must satisfy
// EvalEnv; any other Environment implementation is an interpreter bug, not
// a recoverable condition.
func (f *Function) ExecuteApply(args []clarity.Value, env contractctx.Environment, local *localctx.Context) (clarity.Value, error) {
	if len(args) != len(f.params) {
		return nil, errors.Wrapf(clarityerr.ErrInterpreterInternal, "%s: expected %d arguments, got %d", f.name, len(f.params), len(args))
	}
	evalEnv, ok := env.(EvalEnv)
	if !ok {
		clarityerr.Fatalf("lang: ExecuteApply called with an Environment that does not satisfy EvalEnv")
	}

	frame, err := localctx.New().Extend()
	if err != nil {
		return nil, err
	}
	for i, p := range f.params {
		frame.SetVariable(p, args[i])
	}
	return Eval(f.body, evalEnv, frame)
}

// evalDefineFunction parses (define-function (name p1 p2 ...) body...) (or
// the -public-/-read-only- variants) and installs the resulting Function in
// the current contract context.
func evalDefineFunction(expr Expr, env EvalEnv, form string) (clarity.Value, error) {
	if len(expr.Items) < 3 || expr.Items[1].Kind != KindList || len(expr.Items[1].Items) == 0 {
		return nil, errors.Wrapf(clarityerr.ErrInterpreterInternal, "%s: expected (%s (name params...) body...)", form, form)
	}
	signature := expr.Items[1].Items
	if signature[0].Kind != KindAtom {
		return nil, errors.Wrapf(clarityerr.ErrInterpreterInternal, "%s: function name must be an identifier", form)
	}
	name, err := clarity.NewClarityName(signature[0].Atom)
	if err != nil {
		return nil, err
	}
	params := make([]clarity.ClarityName, 0, len(signature)-1)
	for _, p := range signature[1:] {
		if p.Kind != KindAtom {
			return nil, errors.Wrapf(clarityerr.ErrInterpreterInternal, "%s: parameter must be an identifier", form)
		}
		pn, err := clarity.NewClarityName(p.Atom)
		if err != nil {
			return nil, err
		}
		params = append(params, pn)
	}

	var body Expr
	if len(expr.Items) == 3 {
		body = expr.Items[2]
	} else {
		body = Expr{Kind: KindList, Items: append([]Expr{{Kind: KindAtom, Atom: "begin"}}, expr.Items[2:]...)}
	}

	fn := &Function{
		name:     name,
		params:   params,
		body:     body,
		public:   form == "define-public-function" || form == "define-read-only-function",
		readOnly: form == "define-read-only-function",
	}
	env.ContractContext().DefineFunction(name, fn)
	return clarity.Bool(true), nil
}
