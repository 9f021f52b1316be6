package domain

import "time"

// QuestionData is one pending traversal position: a question id template
// plus the extra data it must be resolved against. Stack entries are never
// null; only the current position may hold the terminal marker.
type QuestionData struct {
	QuestionID string            `json:"questionId"`
	ExtraData  map[string]string `json:"extraData,omitempty"`
}

// CurrentQuestionData is the active traversal position. A nil QuestionID is
// the terminal marker: the ping is complete, and by invariant the jump
// stack is empty whenever it appears.
type CurrentQuestionData struct {
	QuestionID *string           `json:"questionId"`
	ExtraData  map[string]string `json:"extraData,omitempty"`
}

// TerminalQuestionData returns the completed-ping marker.
func TerminalQuestionData() CurrentQuestionData {
	return CurrentQuestionData{QuestionID: nil, ExtraData: map[string]string{}}
}

// SessionState is the full snapshot of one ping's traversal. Every field is
// serializable; resuming from a persisted SessionState reproduces the same
// next transition as the uninterrupted run.
type SessionState struct {
	PingID     string `json:"pingId"`
	StreamName string `json:"streamName"`

	Current CurrentQuestionData `json:"currentQuestionData"`
	// Stack holds pending jump targets, popped from the end (LIFO).
	Stack []QuestionData `json:"nextQuestionsDataStack"`
	// Answers keys recorded answers by resolved question id.
	Answers map[string]*Answer `json:"answers"`

	StartedAt    time.Time  `json:"startedAt"`
	EndedAt      *time.Time `json:"endedAt,omitempty"`
	LastUploadAt *time.Time `json:"lastUploadDate,omitempty"`
}

// NewSessionState starts a ping at the given question with empty extra data.
func NewSessionState(pingID, streamName, startQuestionID string, now time.Time) *SessionState {
	start := startQuestionID
	return &SessionState{
		PingID:     pingID,
		StreamName: streamName,
		Current: CurrentQuestionData{
			QuestionID: &start,
			ExtraData:  map[string]string{},
		},
		Stack:     []QuestionData{},
		Answers:   map[string]*Answer{},
		StartedAt: now,
	}
}

// Completed reports whether traversal has reached the terminal marker.
func (s *SessionState) Completed() bool {
	return s.Current.QuestionID == nil
}

// Clone returns a deep copy so stores and callers cannot mutate each
// other's snapshots through shared maps or slices.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	next := *s
	next.Current.ExtraData = cloneExtraData(s.Current.ExtraData)
	next.Stack = make([]QuestionData, len(s.Stack))
	for i, entry := range s.Stack {
		next.Stack[i] = QuestionData{
			QuestionID: entry.QuestionID,
			ExtraData:  cloneExtraData(entry.ExtraData),
		}
	}
	next.Answers = make(map[string]*Answer, len(s.Answers))
	for id, a := range s.Answers {
		copied := *a
		next.Answers[id] = &copied
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		next.EndedAt = &t
	}
	if s.LastUploadAt != nil {
		t := *s.LastUploadAt
		next.LastUploadAt = &t
	}
	return &next
}

func cloneExtraData(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// FollowupEntry is one deferred stream-start in the future-stream queue.
type FollowupEntry struct {
	StreamName   string    `json:"streamName"`
	DeliverAfter time.Time `json:"deliverAfter"`
}
