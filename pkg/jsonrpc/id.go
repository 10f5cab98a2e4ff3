package jsonrpc

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// ID is a JSON-RPC request identifier: either a string or an integer,
// never both. Equality is by value, and ID is itself comparable so it
// can key the pending-request table directly (spec §3).
type ID struct {
	str    string
	num    int64
	isStr  bool
	isNum  bool
}

// NewID generates a random string ID for an outbound request.
func NewID() ID {
	return ID{str: uuid.NewString(), isStr: true}
}

// NewStringID wraps an explicit string ID.
func NewStringID(s string) ID {
	return ID{str: s, isStr: true}
}

// NewIntID wraps an explicit integer ID.
func NewIntID(n int64) ID {
	return ID{num: n, isNum: true}
}

// IsZero reports whether the ID was never set (no request carries this).
func (id ID) IsZero() bool {
	return !id.isStr && !id.isNum
}

func (id ID) String() string {
	if id.isStr {
		return id.str
	}
	if id.isNum {
		return strconv.FormatInt(id.num, 10)
	}
	return ""
}

// MarshalJSON writes the ID as a bare JSON string or number.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.isStr {
		return json.Marshal(id.str)
	}
	if id.isNum {
		return json.Marshal(id.num)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	var asStr string
	if err := json.Unmarshal(data, &asStr); err == nil {
		*id = ID{str: asStr, isStr: true}
		return nil
	}
	var asNum int64
	if err := json.Unmarshal(data, &asNum); err == nil {
		*id = ID{num: asNum, isNum: true}
		return nil
	}
	return fmt.Errorf("jsonrpc: id must be a string or integer, got %s", string(data))
}
