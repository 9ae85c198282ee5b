// Package policy gates action execution with an OPA rego module.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions returned by the action policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Input is the document evaluated by the action policy.
type Input struct {
	Action     string `json:"action"`
	Role       string `json:"role"`
	UserID     string `json:"user_id"`
	TenantID   string `json:"tenant_id,omitempty"`
	LandlordID string `json:"landlord_id,omitempty"`
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine prepares the given rego module. The module must define
// data.action_policy.decision as an object {decision, reason}.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.action_policy.decision"),
		rego.Module("action_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate returns the decision and an optional human readable reason.
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, "", nil
	}

	switch val := results[0].Expressions[0].Value.(type) {
	case string:
		return val, "", nil
	case map[string]interface{}:
		decision, _ := val["decision"].(string)
		reason, _ := val["reason"].(string)
		if decision == "" {
			return "", "", fmt.Errorf("policy returned an object without a decision")
		}
		return decision, reason, nil
	default:
		return "", "", fmt.Errorf("unexpected policy result type %T", val)
	}
}

// DefaultPolicy restricts the ticket actions to tenants.
const DefaultPolicy = `
package action_policy

default decision = {"decision": "allow", "reason": ""}

decision = {"decision": "block", "reason": "Only tenants can report maintenance issues."} {
	input.action == "create_issue"
	input.role != "tenant"
}

decision = {"decision": "block", "reason": "Only tenants can view their maintenance issues here."} {
	input.action == "view_issues"
	input.role != "tenant"
}
`
