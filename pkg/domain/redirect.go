package domain

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Redirect is a jump target with three meaningful states:
//
//   - undefined (zero value): the field was absent; traversal falls through
//     to the question's normal next edge.
//   - explicit null: the field was present but null; the next edge is
//     suppressed for this path.
//   - target: the field names a question id to jump to.
//
// The distinction matters for routing, so Redirect keeps it through both
// JSON and YAML round trips instead of collapsing to a nil pointer.
type Redirect struct {
	Defined bool
	Null    bool
	ID      string
}

// RedirectTo builds a defined redirect to the given question id.
func RedirectTo(id string) Redirect {
	return Redirect{Defined: true, ID: id}
}

// RedirectNull builds an explicit-null redirect.
func RedirectNull() Redirect {
	return Redirect{Defined: true, Null: true}
}

// UnmarshalJSON accepts either a string or null.
func (r *Redirect) UnmarshalJSON(data []byte) error {
	r.Defined = true
	if string(data) == "null" {
		r.Null = true
		r.ID = ""
		return nil
	}
	r.Null = false
	return json.Unmarshal(data, &r.ID)
}

// MarshalJSON emits null for explicit-null redirects. Undefined redirects
// should be skipped by the caller via omitzero-style checks; if marshaled
// anyway they serialize as null.
func (r Redirect) MarshalJSON() ([]byte, error) {
	if !r.Defined || r.Null {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// UnmarshalYAML accepts either a scalar string or an explicit null.
func (r *Redirect) UnmarshalYAML(value *yaml.Node) error {
	r.Defined = true
	if value.Tag == "!!null" {
		r.Null = true
		r.ID = ""
		return nil
	}
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("redirect target must be a question id or null, got %s", value.Tag)
	}
	r.Null = false
	r.ID = value.Value
	return nil
}

// IsZero reports whether the redirect was never configured.
func (r Redirect) IsZero() bool {
	return !r.Defined
}
