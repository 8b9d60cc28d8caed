// Package render implements the template resolver: it renders each
// per-input template string against a context derived from upstream node
// outputs.
//
// Templates are scanned for `{{ ... }}` expression spans (scanner.go);
// pipe-filter syntax is rewritten into nested calls (pipeline.go); and
// each expression is then compiled and run by expr-lang.
package render

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/fuschiarun/fuschia/internal/types"
)

// Resolver renders per-input templates against upstream data.
type Resolver struct {
	filters map[string]any

	mu    sync.Mutex
	cache map[string]*vm.Program
}

// New creates a Resolver with the built-in filter set (upper, lower,
// title, length).
func New() *Resolver {
	return &Resolver{
		filters: builtinFilters(),
		cache:   make(map[string]*vm.Program),
	}
}

// BuildContext assembles the template context for a node given its
// upstream outputs:
//
//   - join node: the object {node_id: output, ...} for every upstream node
//   - single predecessor: the predecessor's output value directly
//   - zero predecessors: the empty object
//   - more than one predecessor but not a join point: structurally
//     ambiguous; this implementation treats it as the empty object, the
//     same as zero predecessors
func BuildContext(upstream map[string]any, isJoin bool) any {
	if isJoin {
		ctx := make(map[string]any, len(upstream))
		for k, v := range upstream {
			ctx[k] = v
		}
		return ctx
	}
	if len(upstream) == 1 {
		for _, v := range upstream {
			return v
		}
	}
	return map[string]any{}
}

// Resolve renders every input template for nodeID against upstream,
// returning the rendered string map or an InputResolutionError.
func (r *Resolver) Resolve(nodeID string, inputs map[string]string, upstream map[string]any, isJoin bool) (map[string]string, error) {
	ctxValue := BuildContext(upstream, isJoin)

	resolved := make(map[string]string, len(inputs))
	for key, template := range inputs {
		rendered, err := r.renderTemplate(template, ctxValue)
		if err != nil {
			return nil, &types.InputResolutionError{
				NodeID:  nodeID,
				Message: fmt.Sprintf("failed to resolve input %q: %s", key, err),
			}
		}
		resolved[key] = rendered
	}
	return resolved, nil
}

func (r *Resolver) renderTemplate(template string, ctxValue any) (string, error) {
	segments, err := scan(template)
	if err != nil {
		return "", err
	}

	// A template consisting of exactly one expression span renders the
	// raw evaluated value (stringified), rather than string-concatenating
	// it into a larger piece of text; this matters for whole-number
	// round-tripping through the schema coercer.
	if len(segments) == 1 && segments[0].isExpr {
		v, err := r.eval(segments[0].expression, ctxValue)
		if err != nil {
			return "", err
		}
		return stringify(v), nil
	}

	var b []byte
	for _, seg := range segments {
		if !seg.isExpr {
			b = append(b, seg.literal...)
			continue
		}
		v, err := r.eval(seg.expression, ctxValue)
		if err != nil {
			return "", err
		}
		b = append(b, stringify(v)...)
	}
	return string(b), nil
}

func (r *Resolver) eval(expression string, ctxValue any) (any, error) {
	code := rewritePipe(expression)

	r.mu.Lock()
	program, ok := r.cache[code]
	r.mu.Unlock()

	if !ok {
		compiled, err := expr.Compile(code, expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", expression, err)
		}
		r.mu.Lock()
		r.cache[code] = compiled
		r.mu.Unlock()
		program = compiled
	}

	env := r.buildEnv(ctxValue)
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", expression, err)
	}
	return out, nil
}

// buildEnv flattens the context value's top-level fields (when it is a
// map) into the expr-lang environment, alongside the registered filter
// functions.
func (r *Resolver) buildEnv(ctxValue any) map[string]any {
	env := make(map[string]any, len(r.filters)+4)
	for name, fn := range r.filters {
		env[name] = fn
	}
	if m, ok := ctxValue.(map[string]any); ok {
		for k, v := range m {
			env[k] = v
		}
	}
	return env
}
