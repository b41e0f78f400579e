package document

import (
	"encoding/json"
	"strconv"

	"github.com/nodewire/nodewire/pkg/errors"
)

// SocketRef identifies a socket endpoint of a link, either by name or by
// positional index. Authored documents typically use names; indices let a
// document refer to a socket even after a model renamed its label.
type SocketRef struct {
	Name    string
	Index   int
	ByIndex bool
}

// RefName returns a SocketRef addressing a socket by name.
func RefName(name string) SocketRef {
	return SocketRef{Name: name}
}

// RefIndex returns a SocketRef addressing a socket by positional index.
func RefIndex(i int) SocketRef {
	return SocketRef{Index: i, ByIndex: true}
}

// String renders the reference for reports and error messages.
func (r SocketRef) String() string {
	if r.ByIndex {
		return "#" + strconv.Itoa(r.Index)
	}
	return r.Name
}

// IsZero reports whether the reference is unset.
func (r SocketRef) IsZero() bool {
	return !r.ByIndex && r.Name == ""
}

// MarshalJSON encodes the reference as a JSON string (name form) or a JSON
// number (index form).
func (r SocketRef) MarshalJSON() ([]byte, error) {
	if r.ByIndex {
		return json.Marshal(r.Index)
	}
	return json.Marshal(r.Name)
}

// UnmarshalJSON accepts a JSON string (name form), a JSON integer
// (index form), or a "#N" string (index form, as String prints it).
func (r *SocketRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if idx, ok := parseIndexForm(name); ok {
			if idx < 0 {
				return errors.New(errors.ErrCodeMalformedDocument, "socket index must not be negative: %d", idx)
			}
			*r = SocketRef{Index: idx, ByIndex: true}
			return nil
		}
		*r = SocketRef{Name: name}
		return nil
	}

	var idx int
	if err := json.Unmarshal(data, &idx); err == nil {
		if idx < 0 {
			return errors.New(errors.ErrCodeMalformedDocument, "socket index must not be negative: %d", idx)
		}
		*r = SocketRef{Index: idx, ByIndex: true}
		return nil
	}

	return errors.New(errors.ErrCodeMalformedDocument, "socket reference must be a name or an index")
}

// parseIndexForm recognizes the "#N" spelling of an index reference.
// Anything else, including a bare "#", is a socket name.
func parseIndexForm(s string) (int, bool) {
	if len(s) < 2 || s[0] != '#' {
		return 0, false
	}
	idx, err := strconv.Atoi(s[1:])
	if err != nil {
		return 0, false
	}
	return idx, true
}
