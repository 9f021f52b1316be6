package domain

import "errors"

// ErrSessionNotFound is returned when a ping's session state cannot be
// found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrQuestionNotFound is returned when a resolved question id has no node
// in the stream's graph. When it hits the current question this is the
// critical, non-recoverable halt state: the ping never progresses past it.
var ErrQuestionNotFound = errors.New("question not found in stream")

// ErrPingCompleted is returned when an operation targets a ping whose
// traversal already reached the terminal marker.
var ErrPingCompleted = errors.New("ping already completed")

// ErrPingHalted is returned for any advance attempted after the current
// question became unresolvable.
var ErrPingHalted = errors.New("ping halted on unresolvable question")
