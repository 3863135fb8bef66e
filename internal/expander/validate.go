package expander

import (
	"fmt"

	"unified-thinking/internal/apierrors"
	"unified-thinking/internal/types"
)

// Validate checks a SearchRequest's shape and semantics before any graph
// call is made. It returns a *apierrors.APIError of KindValidation with
// every Issue found, or nil if the request is clean. Validation is local and
// short-circuits before the expander or resolvers ever run.
func Validate(req *types.SearchRequest) error {
	var issues []apierrors.Issue

	code := apierrors.CodeValidationFailed

	if req.StretchBudget != nil {
		if req.MaxBudget == nil {
			issues = append(issues, apierrors.Issue{
				Field:   "stretchBudget",
				Message: "stretchBudget requires maxBudget to be set",
			})
			code = apierrors.CodeStretchBudgetInvalid
		} else if *req.StretchBudget < *req.MaxBudget {
			issues = append(issues, apierrors.Issue{
				Field:   "stretchBudget",
				Message: "stretchBudget must be >= maxBudget",
			})
			code = apierrors.CodeStretchBudgetInvalid
		}
	}

	if req.RequiredMaxStartTime != "" && types.TimelineIndex(req.RequiredMaxStartTime) < 0 {
		issues = append(issues, apierrors.Issue{Field: "requiredMaxStartTime", Message: "unrecognised start timeline"})
		code = apierrors.CodeStartTimelineInvalid
	}
	if req.PreferredMaxStartTime != "" && types.TimelineIndex(req.PreferredMaxStartTime) < 0 {
		issues = append(issues, apierrors.Issue{Field: "preferredMaxStartTime", Message: "unrecognised start timeline"})
		code = apierrors.CodeStartTimelineInvalid
	}
	if req.PreferredMaxStartTime != "" && req.RequiredMaxStartTime != "" {
		prefIdx := types.TimelineIndex(req.PreferredMaxStartTime)
		reqIdx := types.TimelineIndex(req.RequiredMaxStartTime)
		if prefIdx >= 0 && reqIdx >= 0 && prefIdx > reqIdx {
			issues = append(issues, apierrors.Issue{
				Field:   "preferredMaxStartTime",
				Message: "preferredMaxStartTime must not be later than requiredMaxStartTime",
			})
			code = apierrors.CodeStartTimelineInvalid
		}
	}

	if req.Limit < 0 || req.Limit > 100 {
		issues = append(issues, apierrors.Issue{
			Field:   "limit",
			Message: "limit must be within [0,100]",
		})
		code = apierrors.CodePaginationInvalid
	}
	if req.Offset < 0 {
		issues = append(issues, apierrors.Issue{
			Field:   "offset",
			Message: "offset must be >= 0",
		})
		code = apierrors.CodePaginationInvalid
	}

	for i, r := range req.RequiredSkills {
		if r.MinProficiency != "" && !r.MinProficiency.Valid() {
			issues = append(issues, apierrors.Issue{
				Field:   fmt.Sprintf("requiredSkills[%d].minProficiency", i),
				Message: "minProficiency must be one of: learning, proficient, expert",
			})
			code = apierrors.CodeInvalidEnum
		}
	}
	for i, r := range req.PreferredSkills {
		if r.PreferredMinProficiency != "" && !r.PreferredMinProficiency.Valid() {
			issues = append(issues, apierrors.Issue{
				Field:   fmt.Sprintf("preferredSkills[%d].preferredMinProficiency", i),
				Message: "preferredMinProficiency must be one of: learning, proficient, expert",
			})
			code = apierrors.CodeInvalidEnum
		}
	}

	if req.SeniorityLevel != "" && !validSeniority[req.SeniorityLevel] {
		issues = append(issues, apierrors.Issue{Field: "seniorityLevel", Message: "unrecognised seniority level"})
		code = apierrors.CodeInvalidEnum
	}
	if req.PreferredSeniorityLevel != "" && !validSeniority[req.PreferredSeniorityLevel] {
		issues = append(issues, apierrors.Issue{Field: "preferredSeniorityLevel", Message: "unrecognised seniority level"})
		code = apierrors.CodeInvalidEnum
	}

	if len(issues) == 0 {
		return nil
	}
	// When only one issue fired, its specific code is kept; more than one
	// issue (of any class) collapses to the generic CodeValidationFailed.
	if len(issues) > 1 {
		code = apierrors.CodeValidationFailed
	}
	return apierrors.NewValidationError(code, "search request failed validation", issues...)
}

var validSeniority = map[types.SeniorityLevel]bool{
	types.SeniorityJunior:    true,
	types.SeniorityMid:       true,
	types.SenioritySenior:    true,
	types.SeniorityStaff:     true,
	types.SeniorityPrincipal: true,
}
