package gocheck

import "fmt"

// FatalError reports a malformed model the pass cannot safely instrument
// (spec.md §4.6: malformed input is a hard failure, never a best-effort
// skip that could silently drop an obligation).
type FatalError struct {
	Stage string
	Loc   *SourceLocation
	Msg   string
}

func (e *FatalError) Error() string {
	if e.Loc != nil {
		return fmt.Sprintf("%s: %s:%d: %s", e.Stage, e.Loc.File, e.Loc.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Msg)
}
