package scene

import (
	"encoding/json"
	"slices"
	"strings"
)

// Address identifies a sheet within a project.
type Address struct {
	ProjectID string `json:"projectId"`
	SheetID   string `json:"sheetId"`
}

// ObjectAddress identifies an object within a sheet.
type ObjectAddress struct {
	Address
	ObjectKey string `json:"objectKey"`
}

// Path is the list of prop keys leading from an object's root to a prop.
type Path []string

// String returns the dot-joined path, e.g. "position.x".
func (p Path) String() string { return strings.Join(p, ".") }

// Append returns a new path with key appended. The receiver is never
// modified, so sibling paths never share a backing array.
func (p Path) Append(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

// Equal reports whether p and q name the same prop.
func (p Path) Equal(q Path) bool { return slices.Equal(p, q) }

// Last returns the final key, or "" for the empty path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// ItemKey is the collapse-state key of an object or prop row.
type ItemKey string

type itemKey struct {
	ProjectID  string   `json:"projectId"`
	SheetID    string   `json:"sheetId"`
	ObjectKey  string   `json:"objectKey"`
	PathToProp []string `json:"pathToProp,omitempty"`
}

// ObjectItemKey returns the collapse-state key of an object row.
func ObjectItemKey(addr ObjectAddress) ItemKey {
	return encodeItemKey(itemKey{
		ProjectID: addr.ProjectID,
		SheetID:   addr.SheetID,
		ObjectKey: addr.ObjectKey,
	})
}

// PropItemKey returns the collapse-state key of a prop row. Keys are JSON
// documents, so distinct (object, path) pairs never collide even when keys
// contain separators.
func PropItemKey(addr ObjectAddress, path Path) ItemKey {
	return encodeItemKey(itemKey{
		ProjectID:  addr.ProjectID,
		SheetID:    addr.SheetID,
		ObjectKey:  addr.ObjectKey,
		PathToProp: []string(path),
	})
}

func encodeItemKey(k itemKey) ItemKey {
	// Marshalling a struct of strings cannot fail.
	data, _ := json.Marshal(k)
	return ItemKey(data)
}
