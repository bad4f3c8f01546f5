package query

import "github.com/poiesic/metaquery/core"

// QueryMonitor provides hooks to observe one orchestration run.
// Implement this interface to track state transitions and intermediate
// results during query processing.
type QueryMonitor interface {
	Start(queryText string)
	StateChanged(from, to State)
	AfterExtraction(extraction Extraction)
	AfterRouting(plan Plan)
	StageCompleted(stage string, result core.StageResult)
	Finish(answer *core.Answer)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                              {}
func (n *noopMonitor) StateChanged(_, _ State)                     {}
func (n *noopMonitor) AfterExtraction(_ Extraction)                {}
func (n *noopMonitor) AfterRouting(_ Plan)                         {}
func (n *noopMonitor) StageCompleted(_ string, _ core.StageResult) {}
func (n *noopMonitor) Finish(_ *core.Answer)                       {}
