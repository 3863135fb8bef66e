package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillsSimilarity_SharedSkillsCountFully(t *testing.T) {
	graph := SkillGraph{}
	score := skillsSimilarity([]string{"go", "rust"}, []string{"go", "rust"}, graph)
	assert.Equal(t, 1.0, score)
}

func TestSkillsSimilarity_CorrelatedOnlySkillContributesStrength(t *testing.T) {
	graph := SkillGraph{
		"rust": {SkillID: "rust", Correlations: []SkillCorrelation{{OtherSkillID: "go", Strength: 0.8}}},
	}
	// ref has go+rust, candidate only has go: rust is ref-only, correlates with go at 0.8
	score := skillsSimilarity([]string{"go", "rust"}, []string{"go"}, graph)
	assert.InDelta(t, (1.0+0.8)/2, score, 0.001)
}

func TestSkillsSimilarity_NoOverlapNoCorrelation(t *testing.T) {
	score := skillsSimilarity([]string{"go"}, []string{"java"}, SkillGraph{})
	assert.Equal(t, 0.0, score)
}

func TestSkillsSimilarity_BothEmptyIsNeutral(t *testing.T) {
	assert.Equal(t, 1.0, skillsSimilarity(nil, nil, SkillGraph{}))
}

func TestSkillsSimilarity_OneEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, skillsSimilarity([]string{"go"}, nil, SkillGraph{}))
}

func TestExperienceSimilarity_ExactMatch(t *testing.T) {
	assert.Equal(t, 1.0, experienceSimilarity(5, 5))
}

func TestExperienceSimilarity_Difference(t *testing.T) {
	// |8-4|/max(8,4,1) = 4/8 = 0.5 -> 1-0.5 = 0.5
	assert.Equal(t, 0.5, experienceSimilarity(8, 4))
}

func TestExperienceSimilarity_ZeroYearsBothSides(t *testing.T) {
	assert.Equal(t, 1.0, experienceSimilarity(0, 0))
}

func TestDomainPairScore_ExactMatch(t *testing.T) {
	graph := DomainGraph{"fintech": {DomainID: "fintech"}}
	assert.Equal(t, 1.0, domainPairScore("fintech", "fintech", graph))
}

func TestDomainPairScore_SharedParent(t *testing.T) {
	graph := DomainGraph{
		"payments": {DomainID: "payments", ParentID: "fintech"},
		"lending":  {DomainID: "lending", ParentID: "fintech"},
	}
	assert.Equal(t, 0.7, domainPairScore("payments", "lending", graph))
}

func TestDomainPairScore_SharedAncestor(t *testing.T) {
	graph := DomainGraph{
		"payments":   {DomainID: "payments", ParentID: "fintech"},
		"lending":    {DomainID: "lending", ParentID: "fintech"},
		"cardRails":  {DomainID: "cardRails", ParentID: "payments"},
		"consumerLending": {DomainID: "consumerLending", ParentID: "lending"},
	}
	assert.Equal(t, 0.4, domainPairScore("cardRails", "consumerLending", graph))
}

func TestDomainPairScore_SharedEncompassedBy(t *testing.T) {
	graph := DomainGraph{
		"a": {DomainID: "a", EncompassedBy: "regulated"},
		"b": {DomainID: "b", EncompassedBy: "regulated"},
	}
	assert.Equal(t, 0.3, domainPairScore("a", "b", graph))
}

func TestDomainPairScore_Unrelated(t *testing.T) {
	graph := DomainGraph{
		"a": {DomainID: "a"},
		"b": {DomainID: "b"},
	}
	assert.Equal(t, 0.0, domainPairScore("a", "b", graph))
}

func TestDomainSimilarity_AveragesBusinessAndTechnical(t *testing.T) {
	business := DomainGraph{"fintech": {DomainID: "fintech"}}
	technical := DomainGraph{"backend": {DomainID: "backend"}, "frontend": {DomainID: "frontend"}}

	score := domainSimilarity(
		[]string{"fintech"}, []string{"fintech"},
		[]string{"backend"}, []string{"frontend"},
		business, technical,
	)
	assert.InDelta(t, (1.0+0.0)/2, score, 0.001)
}

func TestTimezoneSimilarity_ExactZone(t *testing.T) {
	assert.Equal(t, 1.0, timezoneSimilarity("America/New_York", "America/New_York"))
}

func TestTimezoneSimilarity_SameRegion(t *testing.T) {
	assert.Equal(t, 0.67, timezoneSimilarity("America/New_York", "America/Chicago"))
}

func TestTimezoneSimilarity_AdjacentRegion(t *testing.T) {
	assert.Equal(t, 0.33, timezoneSimilarity("America/New_York", "Europe/London"))
}

func TestTimezoneSimilarity_Unrelated(t *testing.T) {
	assert.Equal(t, 0.0, timezoneSimilarity("America/New_York", "Asia/Tokyo"))
}

func TestTimezoneSimilarity_EmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, timezoneSimilarity("", "America/New_York"))
}
