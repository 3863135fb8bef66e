package types

// FilterSource tags where an enforced predicate or derived constraint came from.
type FilterSource string

const (
	SourceUser         FilterSource = "user"
	SourceKnowledgeBase FilterSource = "knowledge_base"
	SourceInference    FilterSource = "inference"
)

// PropertyOperator is the closed set of comparison operators a PropertyFilter
// (or PropertyConstraint, on the advisor side) may carry.
type PropertyOperator string

const (
	OpGTE         PropertyOperator = ">="
	OpLTE         PropertyOperator = "<="
	OpLT          PropertyOperator = "<"
	OpIN          PropertyOperator = "IN"
	OpBetween     PropertyOperator = "BETWEEN"
	OpStartsWith  PropertyOperator = "STARTS WITH (any of)"
)

// AppliedFilterKind tags the AppliedFilter union.
type AppliedFilterKind string

const (
	KindPropertyFilter AppliedFilterKind = "property"
	KindSkillFilter    AppliedFilterKind = "skill"
)

// AppliedFilter is a faithful audit record of one predicate the query enforces
// (as a filter) or scores (as a preference). Exactly one of the two payload
// fields is populated, selected by Kind.
type AppliedFilter struct {
	Kind  AppliedFilterKind `json:"kind"`
	Field string            `json:"field,omitempty"`

	// PropertyFilter payload
	Operator PropertyOperator `json:"operator,omitempty"`
	Value    interface{}      `json:"value,omitempty"`

	// SkillFilter payload
	Skills       []string `json:"skills,omitempty"`
	DisplayValue string   `json:"displayValue,omitempty"`
	RuleID       string   `json:"ruleId,omitempty"`

	Source FilterSource `json:"source"`
}

// OverrideScope records how much of a derived constraint's effect was suppressed
// by an overridden rule id. The reference implementation only ever produces FULL,
// but the field is kept open for partial overrides a future rule set might need.
type OverrideScope string

const (
	OverrideScopeFull OverrideScope = "FULL"
)

// RuleOverride records that a DerivedConstraint's rule was named in
// SearchRequest.OverriddenRuleIds.
type RuleOverride struct {
	RuleID        string        `json:"ruleId"`
	OverrideScope OverrideScope `json:"overrideScope"`
}

// DerivedConstraintEffect distinguishes a filter-side derived constraint
// (adds a required skill) from a boost-side one (adds a preferred-skill weight).
type DerivedConstraintEffect string

const (
	EffectFilter DerivedConstraintEffect = "filter"
	EffectBoost  DerivedConstraintEffect = "boost"
)

// DerivedConstraintAction is what a fired rule asks the expander to do.
type DerivedConstraintAction struct {
	Effect        DerivedConstraintEffect `json:"effect"`
	TargetField   string                  `json:"targetField"`             // e.g. "requiredSkills"
	TargetValue   string                  `json:"targetValue"`             // skill id for filter/boost effects
	BoostStrength float64                 `json:"boostStrength,omitempty"` // (0,1], only for EffectBoost
}

// DerivedConstraint is one effect of a fired inference rule, carrying full
// provenance so the advisor can offer a DerivedOverride suggestion, and so
// an overridden rule vanishes from filtering and boosting while remaining
// visible in the audit trail.
type DerivedConstraint struct {
	RuleID     string                  `json:"ruleId"`
	RuleName   string                  `json:"ruleName"`
	Action     DerivedConstraintAction `json:"action"`
	Provenance []string                `json:"provenance,omitempty"` // ids of conditions/upstream derived constraints that fired this
	Override   *RuleOverride           `json:"override,omitempty"`
}

// ExpandedCriteria is C3's output: a fully normalised, graph-ready form of a SearchRequest.
type ExpandedCriteria struct {
	Original *SearchRequest

	YearRange YearRange

	TimezonePrefixes []string // "America/*" -> "America/"; concrete zones kept verbatim

	StartTimelineEnum []StartTimeline // ordered prefix up to and including the requested max

	MaxBudgetCeiling *float64 // stretchBudget if present, else maxBudget
	MaxBudget        *float64
	StretchBudget    *float64

	AlignedSkillIDs []string // from TeamFocus, via configured alignment table

	RequiredSkills  []ResolvedSkillRequirement
	PreferredSkills []ResolvedSkillRequirement

	RequiredBusinessDomains   []ResolvedBusinessDomain
	PreferredBusinessDomains  []ResolvedBusinessDomain
	RequiredTechnicalDomains  []ResolvedTechnicalDomain
	PreferredTechnicalDomains []ResolvedTechnicalDomain

	DerivedConstraints     []DerivedConstraint
	DerivedRequiredSkillIDs []string            // flattened, deduplicated filter effects (non-overridden)
	DerivedSkillBoosts      map[string]float64   // skillId -> max boost strength seen (non-overridden)

	OverriddenRuleIDs map[string]bool

	Limit  int
	Offset int

	AppliedFilters     []AppliedFilter
	AppliedPreferences []AppliedFilter
	DefaultsApplied    []string

	InferenceWarning bool // maxInferenceIterations reached before fixpoint

	AdvisorThreshold int // insufficientThreshold, possibly request-overridden
}
