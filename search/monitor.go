package search

import "github.com/casaseek/casaseek/core"

// Monitor provides hooks to observe the search pipeline.
// Implement this interface to track intermediate stages during a search.
type Monitor interface {
	Start(query string)
	AfterParse(intent core.Intent)
	AfterSearch(tier core.MatchType, fetched int)
	AfterFilter(tier core.MatchType, kept int)
	Escalated(nearMiss core.PriceRange)
	AfterRank(results []core.RelevanceResult)
	Finish(result *core.SearchResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                        {}
func (n *noopMonitor) AfterParse(_ core.Intent)              {}
func (n *noopMonitor) AfterSearch(_ core.MatchType, _ int)   {}
func (n *noopMonitor) AfterFilter(_ core.MatchType, _ int)   {}
func (n *noopMonitor) Escalated(_ core.PriceRange)           {}
func (n *noopMonitor) AfterRank(_ []core.RelevanceResult)    {}
func (n *noopMonitor) Finish(_ *core.SearchResult)           {}
