package policy

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/open-policy-agent/opa/rego"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

const allowQuery = "data.uam.authz.allow"

//go:embed authz.rego
var authzModule string

// Engine evaluates the embedded Rego authorization module.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine compiles the policy once; the prepared query is safe for concurrent use.
func NewEngine(ctx context.Context) (*Engine, error) {
	prepared, err := rego.New(
		rego.Query(allowQuery),
		rego.Module("authz.rego", authzModule),
		rego.StrictBuiltinErrors(true),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile authorization policy: %w", err)
	}
	return &Engine{query: prepared}, nil
}

// Decide evaluates a single request.
func (e *Engine) Decide(ctx context.Context, req Request) (Decision, error) {
	if e == nil {
		return Deny, errors.New("policy engine is nil")
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(toInput(req)))
	if err != nil {
		return Deny, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return Deny, errors.New("empty policy result")
	}
	allowed, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return Deny, fmt.Errorf("unexpected policy result %T", results[0].Expressions[0].Value)
	}
	if allowed {
		return Allow, nil
	}
	return Deny, nil
}

// Authorize implements Authorizer.
func (e *Engine) Authorize(ctx context.Context, id domain.Identity, action Action, resource Resource) error {
	decision, err := e.Decide(ctx, Request{Identity: id, Action: action, Resource: resource})
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if decision == Deny {
		return apperrors.NewForbidden("Forbidden")
	}
	return nil
}

func toInput(req Request) map[string]any {
	return map[string]any{
		"action": string(req.Action),
		"principal": map[string]any{
			"id":   req.Identity.UserID,
			"role": string(req.Identity.Role),
		},
		"resource": map[string]any{
			"kind":     string(req.Resource.Kind),
			"owner_id": req.Resource.OwnerID,
		},
	}
}
