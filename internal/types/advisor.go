package types

// FieldType classifies a PropertyConstraint's value domain for the advisor's
// relaxation dispatch table.
type FieldType string

const (
	FieldNumeric     FieldType = "Numeric"
	FieldString      FieldType = "String"
	FieldStringArray FieldType = "StringArray"
)

// CypherFragment is a pre-built, parameterised predicate fragment plus the
// parameter it binds, so the advisor can re-run the count query with one
// parameter value swapped without re-deriving Cypher text.
type CypherFragment struct {
	Clause     string      `json:"clause"`
	ParamName  string      `json:"paramName"`
	ParamValue interface{} `json:"paramValue"`
}

// ConstraintOrigin distinguishes a user-requested skill constraint from one
// added by the inference engine, for advisor provenance and DerivedOverride suggestions.
type ConstraintOrigin string

const (
	OriginUser    ConstraintOrigin = "User"
	OriginDerived ConstraintOrigin = "Derived"
)

// TestableConstraintKind tags the TestableConstraint union.
type TestableConstraintKind string

const (
	ConstraintKindProperty        TestableConstraintKind = "property"
	ConstraintKindSkillTraversal  TestableConstraintKind = "skillTraversal"
)

// TestableConstraint is one atomic, independently-droppable predicate the
// advisor's MCS search reasons about. Exactly one payload is populated,
// selected by Kind.
type TestableConstraint struct {
	ID   string                 `json:"id"`
	Kind TestableConstraintKind `json:"kind"`

	// PropertyConstraint payload
	FieldType FieldType      `json:"fieldType,omitempty"`
	Cypher    CypherFragment `json:"cypher,omitempty"`

	// SkillTraversalConstraint payload
	Origin         ConstraintOrigin `json:"origin,omitempty"`
	SkillIDs       []string         `json:"skillIds,omitempty"`
	RuleID         string           `json:"ruleId,omitempty"`         // only set when Origin == OriginDerived
	MinProficiency ProficiencyLevel `json:"minProficiency,omitempty"` // the bucket this constraint currently enforces
}

// ConflictSet is one minimal conflict set (MCS) found by the advisor: a minimal
// subset of active constraints that jointly yields fewer than the insufficient
// threshold results, where no proper subset does.
type ConflictSet struct {
	Members     []TestableConstraint `json:"members"`
	ResultCount int                  `json:"resultCount"`
}

// RelaxationKind is the shape of a single relaxation suggestion.
type RelaxationKind string

const (
	RelaxNumericStep     RelaxationKind = "NumericStep"
	RelaxEnumExpansion    RelaxationKind = "EnumExpansion"
	RelaxRemovePredicate RelaxationKind = "RemovePredicate"
	RelaxLowerProficiency RelaxationKind = "LowerProficiency"
	RelaxMoveToPreferred RelaxationKind = "MoveToPreferred"
	RelaxRemove          RelaxationKind = "Remove"
	RelaxDerivedOverride RelaxationKind = "DerivedOverride"
)

// RelaxationSuggestion is one actionable way to enlarge the result set.
type RelaxationSuggestion struct {
	Kind                RelaxationKind `json:"kind"`
	ConstraintID        string         `json:"constraintId"`
	Field               string         `json:"field,omitempty"`          // API field name the UI should mutate, e.g. "maxBudget"
	SuggestedValue      interface{}    `json:"suggestedValue,omitempty"` // nil for a pure "remove"
	ResultingMatches    int            `json:"resultingMatches"`
	AffectedConstraints []string       `json:"affectedConstraints,omitempty"`
	RuleIDToOverride    string         `json:"ruleIdToOverride,omitempty"` // only for RelaxDerivedOverride
	Description         string         `json:"description"`
}

// Advice is C9's full output: the conflict sets found, the relaxations
// generated from them, and the two-flavoured explanation.
type Advice struct {
	ConflictSets []ConflictSet          `json:"conflictSets"`
	Suggestions  []RelaxationSuggestion `json:"suggestions"`
	Explanation  Explanation            `json:"explanation"`
	Degraded     bool                   `json:"degraded"` // AdvisorDegraded: maxSets hit before the space was exhausted
	QueryCount   int                    `json:"queryCount"`
}

// Explanation carries the data-aware (always present) and LLM-assisted
// (optional, nil on LLMUnavailable) narrative for why results are scarce.
type Explanation struct {
	DataAware   string  `json:"dataAware"`
	LLMAssisted *string `json:"llmAssisted"`
}

// QueryMetadata is returned alongside every search response.
type QueryMetadata struct {
	QueryID                   string   `json:"queryId"`
	ExecutionTimeMs           int64    `json:"executionTimeMs"`
	CandidatesBeforeDiversity *int     `json:"candidatesBeforeDiversity,omitempty"`
	Warnings                  []string `json:"warnings,omitempty"`
}
