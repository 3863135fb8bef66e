package inference

import (
	"fmt"

	"unified-thinking/internal/types"
)

// Operator is the closed set of comparisons a Condition may use against the
// working context.
type Operator string

const (
	OpEquals   Operator = "eq"
	OpIn       Operator = "in"
	OpGTE      Operator = "gte"
	OpLTE      Operator = "lte"
	OpContains Operator = "contains" // context field is a slice; value must appear in it
)

// Condition is one predicate a Rule tests against the working context.
type Condition struct {
	Field    string      `yaml:"field"`
	Operator Operator    `yaml:"operator"`
	Value    interface{} `yaml:"value"`
}

// Effect is what a fired Rule asks the expander to do to the working context.
type Effect struct {
	Kind          types.DerivedConstraintEffect `yaml:"kind"`
	TargetField   string                        `yaml:"targetField"`
	TargetValue   string                        `yaml:"targetValue"`
	BoostStrength float64                       `yaml:"boostStrength,omitempty"`
}

// Rule is one forward-chaining production: if all Conditions hold (and every
// rule in DependsOn has already fired, not merely matched), Effect applies.
type Rule struct {
	ID         string      `yaml:"id"`
	Name       string      `yaml:"name"`
	Conditions []Condition `yaml:"conditions"`
	DependsOn  []string    `yaml:"dependsOn,omitempty"`
	Effect     Effect      `yaml:"effect"`
}

// RuleSet is the top-level YAML document shape for a rule-set file.
type RuleSet struct {
	Rules []Rule `yaml:"rules"`
}

func (r Rule) String() string {
	return fmt.Sprintf("%s(%s)", r.ID, r.Name)
}

// DefaultRuleSet is the built-in rule set used when InferenceConfig.RuleSetPath
// is empty. It encodes a small, illustrative production set grounded in the
// spec's own worked example (scaling -> distributed systems -> monitoring).
func DefaultRuleSet() []Rule {
	return []Rule{
		{
			ID:   "scaling-requires-distributed",
			Name: "Scaling focus implies distributed-systems skill",
			Conditions: []Condition{
				{Field: "teamFocus", Operator: OpEquals, Value: "scaling"},
			},
			Effect: Effect{
				Kind:        types.EffectFilter,
				TargetField: "requiredSkills",
				TargetValue: "skill_distributed",
			},
		},
		{
			ID:   "distributed-requires-monitoring",
			Name: "Distributed-systems requirement implies monitoring skill",
			Conditions: []Condition{
				{Field: "requiredSkills", Operator: OpContains, Value: "skill_distributed"},
			},
			DependsOn: []string{"scaling-requires-distributed"},
			Effect: Effect{
				Kind:        types.EffectFilter,
				TargetField: "requiredSkills",
				TargetValue: "skill_monitoring",
			},
		},
		{
			ID:   "senior-boosts-mentoring",
			Name: "Senior-or-above seniority boosts mentoring-adjacent skill",
			Conditions: []Condition{
				{Field: "seniorityLevel", Operator: OpIn, Value: []string{"senior", "staff", "principal"}},
			},
			Effect: Effect{
				Kind:          types.EffectBoost,
				TargetField:   "preferredSkills",
				TargetValue:   "skill_mentoring",
				BoostStrength: 0.2,
			},
		},
		{
			ID:   "greenfield-boosts-architecture",
			Name: "Greenfield focus boosts architecture skill",
			Conditions: []Condition{
				{Field: "teamFocus", Operator: OpEquals, Value: "greenfield"},
			},
			Effect: Effect{
				Kind:          types.EffectBoost,
				TargetField:   "preferredSkills",
				TargetValue:   "skill_architecture",
				BoostStrength: 0.15,
			},
		},
	}
}
