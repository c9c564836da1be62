package area

import "fmt"

// DanglingNameIndexError reports a placement record whose name index
// does not resolve against the supplied model name list.
type DanglingNameIndexError struct {
	List  string // "doodad" or "object"
	Index uint32
	Len   int
}

func (e *DanglingNameIndexError) Error() string {
	return fmt.Sprintf("%s placement references name %d, list has %d entries", e.List, e.Index, e.Len)
}
