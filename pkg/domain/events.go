package domain

import (
	"context"
	"time"
)

// QuestionEvent reports an interactive question becoming current.
type QuestionEvent struct {
	Timestamp  time.Time    `json:"timestamp"`
	PingID     string       `json:"pingId"`
	QuestionID string       `json:"questionId"` // resolved id
	Type       QuestionType `json:"type"`
}

// PingEvent reports a ping-level lifecycle change.
type PingEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	PingID     string    `json:"pingId"`
	StreamName string    `json:"streamName"`
	Answers    int       `json:"answers"`
}

// FollowupEvent reports deferred stream-starts being scheduled.
type FollowupEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	PingID     string    `json:"pingId"`
	StreamName string    `json:"streamName"`
	Entries    int       `json:"entries"`
}

// LifecycleHooks are optional observability callbacks. Nil hooks are
// skipped. Hooks run synchronously on the traversal path, so they should
// return quickly.
type LifecycleHooks struct {
	OnQuestionEnter     func(context.Context, *QuestionEvent)
	OnPingComplete      func(context.Context, *PingEvent)
	OnFollowupScheduled func(context.Context, *FollowupEvent)
	OnUploadTriggered   func(context.Context, *PingEvent)
}
