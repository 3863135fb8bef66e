// Package similarity implements the similarity engine (C10): process-wide
// cacheable skill/domain correlation graphs, a four-subscore similarity
// calculation between two engineers, and MMR-style diversity selection over
// a ranked candidate list.
package similarity

import (
	"context"
	"sync"
	"sync/atomic"
)

// SkillCorrelation is one edge of the skill correlation graph: otherSkillID
// correlates with the owning skill at the given strength.
type SkillCorrelation struct {
	OtherSkillID string
	Strength     float64
}

// SkillNode is loadSkillGraph's per-skill record.
type SkillNode struct {
	SkillID      string
	Correlations []SkillCorrelation
}

// SkillGraph maps skillId -> its correlation edges.
type SkillGraph map[string]SkillNode

// DomainNode is one node of a domain hierarchy: its parent (if any) and the
// "encompassedBy" tag used for the loosest similarity tier.
type DomainNode struct {
	DomainID      string
	ParentID      string
	EncompassedBy string
}

// DomainGraph maps domainId -> its hierarchy position, for one domain kind
// (business or technical).
type DomainGraph map[string]DomainNode

// SkillGraphReader loads the full skill correlation graph.
type SkillGraphReader interface {
	LoadSkillGraph(ctx context.Context, correlationThreshold float64) (SkillGraph, error)
}

// DomainGraphReader loads one domain kind's hierarchy.
type DomainGraphReader interface {
	LoadDomainGraph(ctx context.Context) (DomainGraph, error)
}

// GraphCache holds process-wide, lock-free-readable snapshots of the skill
// and business/technical domain graphs. Refresh swaps each pointer
// atomically, mirroring the inference engine's rule-set hot reload.
type GraphCache struct {
	skillReader     SkillGraphReader
	businessReader  DomainGraphReader
	technicalReader DomainGraphReader

	correlationThreshold float64

	skills    atomic.Pointer[SkillGraph]
	business  atomic.Pointer[DomainGraph]
	technical atomic.Pointer[DomainGraph]

	mu sync.Mutex // serializes Refresh; reads never block on it
}

func NewGraphCache(skillReader SkillGraphReader, businessReader, technicalReader DomainGraphReader, correlationThreshold float64) *GraphCache {
	return &GraphCache{
		skillReader:           skillReader,
		businessReader:        businessReader,
		technicalReader:       technicalReader,
		correlationThreshold: correlationThreshold,
	}
}

// Refresh reloads all three graphs and swaps them in atomically. Safe to call
// concurrently with Skills/Business/Technical reads and with other Refresh
// calls (serialized by mu).
func (c *GraphCache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	skills, err := c.skillReader.LoadSkillGraph(ctx, c.correlationThreshold)
	if err != nil {
		return err
	}
	business, err := c.businessReader.LoadDomainGraph(ctx)
	if err != nil {
		return err
	}
	technical, err := c.technicalReader.LoadDomainGraph(ctx)
	if err != nil {
		return err
	}

	c.skills.Store(&skills)
	c.business.Store(&business)
	c.technical.Store(&technical)
	return nil
}

// Skills returns the current skill graph snapshot, loading it on first use if
// Refresh has never run.
func (c *GraphCache) Skills(ctx context.Context) (SkillGraph, error) {
	if p := c.skills.Load(); p != nil {
		return *p, nil
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return *c.skills.Load(), nil
}

// Business returns the current business domain graph snapshot.
func (c *GraphCache) Business(ctx context.Context) (DomainGraph, error) {
	if p := c.business.Load(); p != nil {
		return *p, nil
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return *c.business.Load(), nil
}

// Technical returns the current technical domain graph snapshot.
func (c *GraphCache) Technical(ctx context.Context) (DomainGraph, error) {
	if p := c.technical.Load(); p != nil {
		return *p, nil
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return *c.technical.Load(), nil
}
