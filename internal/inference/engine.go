// Package inference implements the forward-chaining rule engine (C4): a
// fixpoint loop over a small production rule set that derives additional
// required skills (filters) and preferred-skill boosts from the expanded
// request context, honoring rule overrides and broken dependency chains.
package inference

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"unified-thinking/internal/types"
)

// Engine runs the fixpoint forward-chaining loop. Rule sets are immutable
// once loaded; Reload swaps the active set atomically so the engine can be
// shared read-only across concurrent requests.
type Engine struct {
	rules         atomic.Pointer[[]Rule]
	maxIterations int
	mu            sync.Mutex // serializes Reload; reads never block on it
}

// NewEngine constructs an Engine with the given rule set and iteration cap.
func NewEngine(rules []Rule, maxIterations int) *Engine {
	e := &Engine{maxIterations: maxIterations}
	e.rules.Store(&rules)
	return e
}

// LoadRuleSet reads and parses a YAML rule-set file.
func LoadRuleSet(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inference: failed to read rule set %s: %w", path, err)
	}
	var doc RuleSet
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("inference: failed to parse rule set %s: %w", path, err)
	}
	return doc.Rules, nil
}

// Reload re-reads the rule set from path and atomically swaps it in. Existing
// in-flight Run calls keep using the rule set snapshot they started with.
func (e *Engine) Reload(path string) error {
	rules, err := LoadRuleSet(path)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules.Store(&rules)
	return nil
}

// Result is C4's output.
type Result struct {
	DerivedConstraints []types.DerivedConstraint
	Warning            bool // maxIterations reached before the fixpoint converged
}

// Run executes the fixpoint loop over seed, a working context built by the
// expander from the request's fields (teamFocus, seniorityLevel, and the
// requested required/preferred skill identifiers). overriddenRuleIDs names rules
// whose effect must be excluded from context merges.
func (e *Engine) Run(ctx context.Context, seed map[string]interface{}, overriddenRuleIDs map[string]bool) (*Result, error) {
	rules := *e.rules.Load()
	working := cloneContext(seed)

	emitted := map[string]bool{}
	fired := map[string]bool{}
	var derived []types.DerivedConstraint

	prevHash := hashContext(working)
	warning := true

	for iter := 0; iter < e.maxIterations; iter++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		changed := false

		for _, rule := range rules {
			if emitted[rule.ID] {
				continue
			}
			if !dependenciesFired(rule.DependsOn, fired) {
				continue
			}
			if !evaluateConditions(rule.Conditions, working) {
				continue
			}

			dc := types.DerivedConstraint{
				RuleID:   rule.ID,
				RuleName: rule.Name,
				Action: types.DerivedConstraintAction{
					Effect:        rule.Effect.Kind,
					TargetField:   rule.Effect.TargetField,
					TargetValue:   rule.Effect.TargetValue,
					BoostStrength: rule.Effect.BoostStrength,
				},
				Provenance: provenanceIDs(rule),
			}

			emitted[rule.ID] = true

			if overriddenRuleIDs[rule.ID] {
				dc.Override = &types.RuleOverride{RuleID: rule.ID, OverrideScope: types.OverrideScopeFull}
				derived = append(derived, dc)
				// Deliberately not marked fired: downstream rules whose sole
				// dependency is this rule must not fire either.
				continue
			}

			fired[rule.ID] = true
			mergeEffect(working, rule.Effect)
			derived = append(derived, dc)
			changed = true
		}

		newHash := hashContext(working)
		if newHash == prevHash && !changed {
			warning = false
			break
		}
		prevHash = newHash
	}

	return &Result{DerivedConstraints: derived, Warning: warning}, nil
}

func dependenciesFired(dependsOn []string, fired map[string]bool) bool {
	for _, dep := range dependsOn {
		if !fired[dep] {
			return false
		}
	}
	return true
}

func provenanceIDs(rule Rule) []string {
	ids := make([]string, 0, len(rule.Conditions)+len(rule.DependsOn))
	for _, c := range rule.Conditions {
		ids = append(ids, c.Field)
	}
	ids = append(ids, rule.DependsOn...)
	return ids
}

func evaluateConditions(conditions []Condition, ctx map[string]interface{}) bool {
	for _, c := range conditions {
		if !evaluateCondition(c, ctx) {
			return false
		}
	}
	return true
}

func evaluateCondition(c Condition, ctx map[string]interface{}) bool {
	actual, ok := ctx[c.Field]
	if !ok {
		return false
	}
	switch c.Operator {
	case OpEquals:
		return fmt.Sprintf("%v", actual) == fmt.Sprintf("%v", c.Value)
	case OpIn:
		values, ok := c.Value.([]string)
		if !ok {
			values = toStringSlice(c.Value)
		}
		actualStr := fmt.Sprintf("%v", actual)
		for _, v := range values {
			if v == actualStr {
				return true
			}
		}
		return false
	case OpContains:
		list := toStringSlice(actual)
		target := fmt.Sprintf("%v", c.Value)
		for _, v := range list {
			if v == target {
				return true
			}
		}
		return false
	case OpGTE:
		a, aok := toFloat(actual)
		b, bok := toFloat(c.Value)
		return aok && bok && a >= b
	case OpLTE:
		a, aok := toFloat(actual)
		b, bok := toFloat(c.Value)
		return aok && bok && a <= b
	default:
		return false
	}
}

func mergeEffect(ctx map[string]interface{}, effect Effect) {
	existing := toStringSlice(ctx[effect.TargetField])
	for _, v := range existing {
		if v == effect.TargetValue {
			return
		}
	}
	ctx[effect.TargetField] = append(existing, effect.TargetValue)
}

func toStringSlice(v interface{}) []string {
	switch s := v.(type) {
	case []string:
		return s
	case nil:
		return nil
	default:
		return nil
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func cloneContext(seed map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(seed))
	for k, v := range seed {
		if s, ok := v.([]string); ok {
			cp := make([]string, len(s))
			copy(cp, s)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}

// hashContext produces a deterministic content hash of the working context so
// the fixpoint check does not depend on map iteration order.
func hashContext(ctx map[string]interface{}) string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	normalized := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		if s, ok := ctx[k].([]string); ok {
			sorted := append([]string(nil), s...)
			sort.Strings(sorted)
			normalized[k] = sorted
			continue
		}
		normalized[k] = ctx[k]
	}

	data, _ := json.Marshal(normalized)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)
}
