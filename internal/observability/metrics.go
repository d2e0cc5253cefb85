package observability

import "sync/atomic"

// Metrics holds the service counters. Increments are best-effort and
// never participate in a database transaction.
type Metrics struct {
	checkIns         atomic.Int64
	checkOuts        atomic.Int64
	checkInConflicts atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) OnCheckInSuccess() {
	m.checkIns.Add(1)
}

func (m *Metrics) OnCheckOutSuccess() {
	m.checkOuts.Add(1)
}

func (m *Metrics) OnCheckInConflict() {
	m.checkInConflicts.Add(1)
}

type Snapshot struct {
	CheckInsTotal         int64 `json:"checkins_total"`
	CheckOutsTotal        int64 `json:"checkouts_total"`
	CheckInConflictsTotal int64 `json:"checkin_conflicts_total"`
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		CheckInsTotal:         m.checkIns.Load(),
		CheckOutsTotal:        m.checkOuts.Load(),
		CheckInConflictsTotal: m.checkInConflicts.Load(),
	}
}
