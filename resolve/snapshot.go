package resolve

import (
	"github.com/reelcast/reelcast/provider"
	"github.com/reelcast/reelcast/stream"
	"github.com/samber/lo"
)

// Snapshot is a copy of the resolver state at one instant. It is safe to use without locking.
type Snapshot struct {
	Key       stream.Key       `json:"key"`
	Phase     Phase            `json:"phase"`
	Results   stream.ResultMap `json:"results"`
	Statuses  []stream.Status  `json:"statuses"`
	Response  []string         `json:"response_order"`
	Installed []provider.Info  `json:"installed"`
}

// Snapshot copies the current state. Statuses are in launch order.
func (r *Resolver) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Snapshot{
		Key:     r.current.key,
		Phase:   r.phase,
		Results: r.results.Clone(),
		Statuses: lo.Map(r.launched, func(id string, _ int) stream.Status {
			return r.statuses[id]
		}),
		Response:  append([]string(nil), r.response...),
		Installed: append([]provider.Info(nil), r.installed...),
	}
}

// Pending counts providers that have not answered.
func (s Snapshot) Pending() int {
	return lo.CountBy(s.Statuses, func(st stream.Status) bool {
		return st.State == stream.Loading
	})
}

// Failed returns the statuses of providers that answered with an error.
func (s Snapshot) Failed() []stream.Status {
	return lo.Filter(s.Statuses, func(st stream.Status, _ int) bool {
		return st.State == stream.Error
	})
}
