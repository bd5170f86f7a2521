package core

import "time"

// SnapshotPolicy decides when the daily snapshot is due.
type SnapshotPolicy struct {
	Cutoff   time.Duration // offset from midnight
	Window   time.Duration // 0 means any time at or after Cutoff
	Location *time.Location
}

// DefaultSnapshotPolicy returns the policy that snapshots during the last fifteen seconds of the day.
func DefaultSnapshotPolicy(loc *time.Location) SnapshotPolicy {
	return SnapshotPolicy{
		Cutoff:   23*time.Hour + 59*time.Minute + 45*time.Second,
		Window:   15 * time.Second,
		Location: loc,
	}
}

// Local converts now into the policy's zone.
func (p SnapshotPolicy) Local(now time.Time) time.Time {
	if p.Location == nil {
		return now
	}
	return now.In(p.Location)
}

// Due reports whether a snapshot should be taken at now, given whether today's file already exists.
func (p SnapshotPolicy) Due(now time.Time, exists bool) bool {
	if exists {
		return false
	}
	local := p.Local(now)
	offset := time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second +
		time.Duration(local.Nanosecond())
	if offset < p.Cutoff {
		return false
	}
	return p.Window == 0 || offset < p.Cutoff+p.Window
}
