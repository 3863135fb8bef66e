package expander

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unified-thinking/internal/apierrors"
	"unified-thinking/internal/types"
)

func floatPtr(f float64) *float64 { return &f }

func TestValidate_Clean(t *testing.T) {
	err := Validate(&types.SearchRequest{
		SeniorityLevel: types.SenioritySenior,
		Limit:          20,
		Offset:         0,
	})
	assert.NoError(t, err)
}

func TestValidate_StretchBudgetRequiresMaxBudget(t *testing.T) {
	err := Validate(&types.SearchRequest{StretchBudget: floatPtr(100)})
	require.Error(t, err)

	apiErr, ok := err.(*apierrors.APIError)
	require.True(t, ok)
	assert.Equal(t, apierrors.CodeStretchBudgetInvalid, apiErr.Code)
	assert.True(t, apierrors.IsValidation(err))
}

func TestValidate_StretchBudgetBelowMaxBudget(t *testing.T) {
	err := Validate(&types.SearchRequest{
		MaxBudget:     floatPtr(150),
		StretchBudget: floatPtr(100),
	})
	require.Error(t, err)
	apiErr := err.(*apierrors.APIError)
	assert.Equal(t, apierrors.CodeStretchBudgetInvalid, apiErr.Code)
}

func TestValidate_PreferredStartTimeLaterThanRequired(t *testing.T) {
	err := Validate(&types.SearchRequest{
		RequiredMaxStartTime:  types.TimelineTwoWeeks,
		PreferredMaxStartTime: types.TimelineOneMonth,
	})
	require.Error(t, err)
	apiErr := err.(*apierrors.APIError)
	assert.Equal(t, apierrors.CodeStartTimelineInvalid, apiErr.Code)
}

func TestValidate_UnrecognisedStartTimeline(t *testing.T) {
	err := Validate(&types.SearchRequest{RequiredMaxStartTime: "next_century"})
	require.Error(t, err)
	apiErr := err.(*apierrors.APIError)
	assert.Equal(t, apierrors.CodeStartTimelineInvalid, apiErr.Code)
}

func TestValidate_PaginationOutOfRange(t *testing.T) {
	err := Validate(&types.SearchRequest{Limit: 500})
	require.Error(t, err)
	apiErr := err.(*apierrors.APIError)
	assert.Equal(t, apierrors.CodePaginationInvalid, apiErr.Code)

	err = Validate(&types.SearchRequest{Offset: -1})
	require.Error(t, err)
	apiErr = err.(*apierrors.APIError)
	assert.Equal(t, apierrors.CodePaginationInvalid, apiErr.Code)
}

func TestValidate_InvalidProficiencyEnum(t *testing.T) {
	err := Validate(&types.SearchRequest{
		RequiredSkills: []types.SkillRequirement{
			{Skill: "go", MinProficiency: "guru"},
		},
	})
	require.Error(t, err)
	apiErr := err.(*apierrors.APIError)
	assert.Equal(t, apierrors.CodeInvalidEnum, apiErr.Code)
	require.Len(t, apiErr.Issues, 1)
	assert.Equal(t, "requiredSkills[0].minProficiency", apiErr.Issues[0].Field)
}

func TestValidate_InvalidSeniorityEnum(t *testing.T) {
	err := Validate(&types.SearchRequest{SeniorityLevel: "wizard"})
	require.Error(t, err)
	apiErr := err.(*apierrors.APIError)
	assert.Equal(t, apierrors.CodeInvalidEnum, apiErr.Code)
}

func TestValidate_MultipleIssuesCollapseToGenericCode(t *testing.T) {
	err := Validate(&types.SearchRequest{
		Limit:          500,
		SeniorityLevel: "wizard",
	})
	require.Error(t, err)
	apiErr := err.(*apierrors.APIError)
	assert.Equal(t, apierrors.CodeValidationFailed, apiErr.Code)
	assert.Len(t, apiErr.Issues, 2)
}
