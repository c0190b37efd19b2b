package lang

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/clarity-vm/context/pkg/callstack"
	"github.com/clarity-vm/context/pkg/clarity"
	"github.com/clarity-vm/context/pkg/clarityerr"
	"github.com/clarity-vm/context/pkg/contractctx"
	"github.com/clarity-vm/context/pkg/globalctx"
	"github.com/clarity-vm/context/pkg/localctx"
)

// MaxCallDepth bounds evaluator-driven function application, complementing
// the lexical nesting bound enforced by localctx.MaxContextDepth.
const MaxCallDepth = 128

// EvalEnv is the full environment surface the evaluator needs: contract
// bindings, the global transactional context, the call stack, and the
// current invocation identity. It lives here (not in contractctx) to avoid
// the import cycle described in contractctx.Environment's doc comment.
// environment.Environment implements it structurally.
type EvalEnv interface {
	ContractContext() *contractctx.Context
	Global() *globalctx.Context
	CallStack() *callstack.Stack
	Sender() clarity.Principal
	Caller() clarity.Principal
	IsReadOnly() bool
}

// Eval interprets one parsed form against env and local: variable and
// function definition, application, if, arithmetic, comparisons, response
// construction, and data-variable access.
func Eval(expr Expr, env EvalEnv, local *localctx.Context) (clarity.Value, error) {
	switch expr.Kind {
	case KindString:
		return clarity.Buffer{B: []byte(expr.Str)}, nil
	case KindAtom:
		return evalAtom(expr.Atom, env, local)
	case KindList:
		return evalList(expr, env, local)
	default:
		clarityerr.Fatalf("lang: unknown expr kind %d", expr.Kind)
		return nil, nil
	}
}

func evalAtom(atom string, env EvalEnv, local *localctx.Context) (clarity.Value, error) {
	switch atom {
	case "true":
		return clarity.Bool(true), nil
	case "false":
		return clarity.Bool(false), nil
	case "sender":
		return clarity.PrincipalValue{P: env.Sender()}, nil
	case "caller":
		return clarity.PrincipalValue{P: env.Caller()}, nil
	case "none":
		return clarity.None{}, nil
	}
	if n, ok := new(big.Int).SetString(atom, 10); ok {
		return clarity.Int{V: n}, nil
	}
	if len(atom) > 2 && atom[0] == '\'' {
		p, err := clarity.ParsePrincipal(atom[1:])
		if err != nil {
			return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, err.Error())
		}
		return clarity.PrincipalValue{P: p}, nil
	}
	name, err := clarity.NewClarityName(atom)
	if err != nil {
		return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, err.Error())
	}
	if v, ok := local.LookupVariable(name); ok {
		return v, nil
	}
	if v, ok := env.ContractContext().LookupVariable(name); ok {
		return v, nil
	}
	return nil, errors.Wrapf(clarityerr.ErrInterpreterInternal, "unbound identifier %q", atom)
}

func evalList(expr Expr, env EvalEnv, local *localctx.Context) (clarity.Value, error) {
	if len(expr.Items) == 0 {
		return nil, errors.Wrap(clarityerr.ErrParse, "empty form")
	}
	head := expr.Items[0]
	if head.Kind != KindAtom {
		return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, "form does not start with an identifier")
	}

	switch head.Atom {
	case "define-variable":
		return evalDefineVariable(expr, env, local)
	case "define-function", "define-public-function", "define-read-only-function":
		return evalDefineFunction(expr, env, head.Atom)
	case "if":
		return evalIf(expr, env, local)
	case "begin":
		return evalBegin(expr, env, local)
	case "let":
		return evalLet(expr, env, local)
	case "ok":
		v, err := evalArg(expr, 1, env, local)
		if err != nil {
			return nil, err
		}
		return clarity.Ok(v), nil
	case "err":
		v, err := evalArg(expr, 1, env, local)
		if err != nil {
			return nil, err
		}
		return clarity.Err(v), nil
	case "not":
		v, err := evalArg(expr, 1, env, local)
		if err != nil {
			return nil, err
		}
		b, ok := v.(clarity.Bool)
		if !ok {
			return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, "not: expected bool")
		}
		return clarity.Bool(!b), nil
	case "+", "-", "*", "<", ">", "<=", ">=", "=":
		return evalArith(head.Atom, expr, env, local)
	case "var-get":
		return evalVarGet(expr, env)
	case "set-var!":
		return evalSetVar(expr, env, local)
	default:
		return evalApply(head.Atom, expr, env, local)
	}
}

func evalArg(expr Expr, idx int, env EvalEnv, local *localctx.Context) (clarity.Value, error) {
	if idx >= len(expr.Items) {
		return nil, errors.Wrapf(clarityerr.ErrInterpreterInternal, "%s: missing argument %d", expr.Items[0].Atom, idx)
	}
	return Eval(expr.Items[idx], env, local)
}

func evalDefineVariable(expr Expr, env EvalEnv, local *localctx.Context) (clarity.Value, error) {
	if len(expr.Items) != 3 || expr.Items[1].Kind != KindAtom {
		return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, "define-variable: expected (define-variable name value)")
	}
	name, err := clarity.NewClarityName(expr.Items[1].Atom)
	if err != nil {
		return nil, err
	}
	v, err := Eval(expr.Items[2], env, local)
	if err != nil {
		return nil, err
	}
	env.ContractContext().DefineVariable(name, v)
	return clarity.Bool(true), nil
}

func evalIf(expr Expr, env EvalEnv, local *localctx.Context) (clarity.Value, error) {
	if len(expr.Items) != 4 {
		return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, "if: expected (if cond then else)")
	}
	cond, err := Eval(expr.Items[1], env, local)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(clarity.Bool)
	if !ok {
		return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, "if: condition must be bool")
	}
	if b {
		return Eval(expr.Items[2], env, local)
	}
	return Eval(expr.Items[3], env, local)
}

func evalBegin(expr Expr, env EvalEnv, local *localctx.Context) (clarity.Value, error) {
	if len(expr.Items) < 2 {
		return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, "begin: expected at least one form")
	}
	var result clarity.Value
	for _, item := range expr.Items[1:] {
		v, err := Eval(item, env, local)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func evalLet(expr Expr, env EvalEnv, local *localctx.Context) (clarity.Value, error) {
	if len(expr.Items) < 3 || expr.Items[1].Kind != KindList {
		return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, "let: expected (let ((name val)...) body...)")
	}
	child, err := local.Extend()
	if err != nil {
		return nil, err
	}
	for _, binding := range expr.Items[1].Items {
		if binding.Kind != KindList || len(binding.Items) != 2 || binding.Items[0].Kind != KindAtom {
			return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, "let: malformed binding")
		}
		name, err := clarity.NewClarityName(binding.Items[0].Atom)
		if err != nil {
			return nil, err
		}
		v, err := Eval(binding.Items[1], env, local)
		if err != nil {
			return nil, err
		}
		child.SetVariable(name, v)
	}
	var result clarity.Value
	for _, item := range expr.Items[2:] {
		v, err := Eval(item, env, child)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func evalArith(op string, expr Expr, env EvalEnv, local *localctx.Context) (clarity.Value, error) {
	if len(expr.Items) < 3 {
		return nil, errors.Wrapf(clarityerr.ErrInterpreterInternal, "%s: expected at least 2 operands", op)
	}
	vals := make([]*big.Int, 0, len(expr.Items)-1)
	for _, item := range expr.Items[1:] {
		v, err := Eval(item, env, local)
		if err != nil {
			return nil, err
		}
		iv, ok := v.(clarity.Int)
		if !ok {
			return nil, errors.Wrapf(clarityerr.ErrInterpreterInternal, "%s: expected int operand", op)
		}
		vals = append(vals, iv.V)
	}
	switch op {
	case "+":
		acc := big.NewInt(0)
		for _, v := range vals {
			acc.Add(acc, v)
		}
		return clarity.Int{V: acc}, nil
	case "-":
		acc := new(big.Int).Set(vals[0])
		for _, v := range vals[1:] {
			acc.Sub(acc, v)
		}
		return clarity.Int{V: acc}, nil
	case "*":
		acc := big.NewInt(1)
		for _, v := range vals {
			acc.Mul(acc, v)
		}
		return clarity.Int{V: acc}, nil
	case "<", ">", "<=", ">=", "=":
		for i := 0; i+1 < len(vals); i++ {
			cmp := vals[i].Cmp(vals[i+1])
			ok := false
			switch op {
			case "<":
				ok = cmp < 0
			case ">":
				ok = cmp > 0
			case "<=":
				ok = cmp <= 0
			case ">=":
				ok = cmp >= 0
			case "=":
				ok = cmp == 0
			}
			if !ok {
				return clarity.Bool(false), nil
			}
		}
		return clarity.Bool(true), nil
	}
	clarityerr.Fatalf("lang: unreachable arith op %s", op)
	return nil, nil
}

// evalVarGet reads a contract data variable: the database view (which sees
// every write made in the current frame chain) wins over the value the
// variable was initialized with at contract construction time.
func evalVarGet(expr Expr, env EvalEnv) (clarity.Value, error) {
	if len(expr.Items) != 2 || expr.Items[1].Kind != KindAtom {
		return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, "var-get: expected (var-get name)")
	}
	name, err := clarity.NewClarityName(expr.Items[1].Atom)
	if err != nil {
		return nil, err
	}
	v, err := env.Global().Database.GetVariable(env.ContractContext().Name, name)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, clarityerr.ErrKeyNotFound) {
		return nil, err
	}
	if v, ok := env.ContractContext().LookupVariable(name); ok {
		return v, nil
	}
	return nil, errors.Wrapf(clarityerr.ErrInterpreterInternal, "var-get: undefined variable %q", name)
}

// evalSetVar writes a contract data variable through the database so the
// write commits or rolls back with the surrounding frame. Refused when the
// current frame is read-only.
func evalSetVar(expr Expr, env EvalEnv, local *localctx.Context) (clarity.Value, error) {
	if len(expr.Items) != 3 || expr.Items[1].Kind != KindAtom {
		return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, "set-var!: expected (set-var! name value)")
	}
	if env.IsReadOnly() {
		return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, "set-var!: environment is read-only")
	}
	name, err := clarity.NewClarityName(expr.Items[1].Atom)
	if err != nil {
		return nil, err
	}
	if _, ok := env.ContractContext().LookupVariable(name); !ok {
		return nil, errors.Wrapf(clarityerr.ErrInterpreterInternal, "set-var!: undefined variable %q", name)
	}
	v, err := Eval(expr.Items[2], env, local)
	if err != nil {
		return nil, err
	}
	if err := env.Global().Database.SetVariable(env.ContractContext().Name, name, v); err != nil {
		return nil, err
	}
	return clarity.Bool(true), nil
}

func evalApply(name string, expr Expr, env EvalEnv, local *localctx.Context) (clarity.Value, error) {
	fnName, err := clarity.NewClarityName(name)
	if err != nil {
		return nil, err
	}
	fn, ok := env.ContractContext().LookupFunction(fnName)
	if !ok {
		return nil, errors.Wrapf(clarityerr.ErrUndefinedFunction, "%q", name)
	}
	args := make([]clarity.Value, 0, len(expr.Items)-1)
	for _, item := range expr.Items[1:] {
		v, err := Eval(item, env, local)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	id := clarity.NewFunctionIdentifier(env.ContractContext().Name, fnName)
	if env.CallStack().Contains(id) && env.CallStack().Depth() >= MaxCallDepth {
		return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, "max call depth reached")
	}
	env.CallStack().Insert(id, true)
	defer func() {
		if err := env.CallStack().Remove(id, true); err != nil {
			clarityerr.Fatalf("lang: call stack imbalance removing %s: %v", id, err)
		}
	}()

	return fn.ExecuteApply(args, env, local)
}

// literalToValue coerces a single top-level Expr into a Value without
// evaluating it as a general expression, matching ExecuteContract's "every
// arg must be a literal value-form, not a general expression" requirement.
func literalToValue(expr Expr) (clarity.Value, error) {
	switch expr.Kind {
	case KindString:
		return clarity.Buffer{B: []byte(expr.Str)}, nil
	case KindAtom:
		switch expr.Atom {
		case "true":
			return clarity.Bool(true), nil
		case "false":
			return clarity.Bool(false), nil
		case "none":
			return clarity.None{}, nil
		}
		if n, ok := new(big.Int).SetString(expr.Atom, 10); ok {
			return clarity.Int{V: n}, nil
		}
		if len(expr.Atom) > 2 && expr.Atom[0] == '\'' {
			p, err := clarity.ParsePrincipal(expr.Atom[1:])
			if err != nil {
				return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, err.Error())
			}
			return clarity.PrincipalValue{P: p}, nil
		}
		return nil, errors.Wrapf(clarityerr.ErrInterpreterInternal, "not a literal value: %q", expr.Atom)
	default:
		return nil, errors.Wrap(clarityerr.ErrInterpreterInternal, "not a literal value: list form")
	}
}

// LiteralArgs coerces every element of args into a Value via
// literalToValue, for use by Environment.ExecuteContract.
func LiteralArgs(args []Expr) ([]clarity.Value, error) {
	out := make([]clarity.Value, len(args))
	for i, a := range args {
		v, err := literalToValue(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
