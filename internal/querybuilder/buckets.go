package querybuilder

import "unified-thinking/internal/types"

// ProficiencyBuckets partitions a set of skill ids by the proficiency level
// a query predicate must demand of them.
type ProficiencyBuckets struct {
	Learning   []string
	Proficient []string
	Expert     []string
}

// BucketForRequirement puts every id in a ResolvedSkillRequirement's expanded
// set into the bucket matching its MinProficiency: the predicate enforces a
// single minimum across the whole expanded set for that requirement.
func BucketForRequirement(req types.ResolvedSkillRequirement) ProficiencyBuckets {
	b := ProficiencyBuckets{}
	switch req.MinProficiency {
	case types.ProficiencyExpert:
		b.Expert = req.ExpandedSkillIDs
	case types.ProficiencyProficient:
		b.Proficient = req.ExpandedSkillIDs
	default:
		b.Learning = req.ExpandedSkillIDs
	}
	return b
}

// AllIDs returns every id across all three buckets.
func (b ProficiencyBuckets) AllIDs() []string {
	out := make([]string, 0, len(b.Learning)+len(b.Proficient)+len(b.Expert))
	out = append(out, b.Learning...)
	out = append(out, b.Proficient...)
	out = append(out, b.Expert...)
	return out
}
