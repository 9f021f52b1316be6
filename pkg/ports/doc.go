/*
Package ports defines the driven ports (interfaces) for the traversal
engine.

These interfaces decouple the core from its collaborators, allowing the
engine to work with different persistence backends and host environments.

# Key Interfaces

  - SessionStore: persists and reloads per-ping SessionState snapshots.
  - AnswerStore: durable record/lookup of answers keyed by resolved id.
  - FollowupQueue: the shared queue of deferred stream-starts.
  - Uploader: best-effort, fire-and-forget data upload.
  - Locker: distributed per-ping locking for multi-replica hosts.
*/
package ports
