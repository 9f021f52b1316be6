package runtime

import "time"

// Effect is a side-effect requested by the pure traversal step. The engine
// never performs effects itself; the host executes them after applying the
// transition, which keeps the routing algorithm testable without storage.
type Effect struct {
	Type    string
	Payload any
}

// EffectScheduleFollowups asks the host to enqueue deferred stream-starts,
// provided the follow-up queue is currently empty.
// Payload: FollowupSchedule.
const EffectScheduleFollowups = "SCHEDULE_FOLLOWUPS"

// FollowupSchedule names a stream to start once per delay.
type FollowupSchedule struct {
	StreamName string
	Delays     []time.Duration
}

// DefaultFollowupDelays are the deferred stream-start offsets used by
// YesNo addFollowupStream rules.
var DefaultFollowupDelays = []time.Duration{
	3 * 24 * time.Hour,
	7 * 24 * time.Hour,
}
