package ports

import "context"

// Uploader pushes collected data to the backend. The engine invokes it
// fire-and-forget: failures are logged and swallowed, never surfaced to the
// traversal, and an upload never blocks a transition.
type Uploader interface {
	UploadAll(ctx context.Context) error
}
