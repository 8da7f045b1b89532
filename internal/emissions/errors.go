package emissions

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStructure matches every error raised because the table does not have
// the expected layout.
var ErrStructure = errors.New("unrecognized table structure")

// NoTableFoundError means the page yielded no lattice table.
type NoTableFoundError struct {
	Page int
}

func (e *NoTableFoundError) Error() string {
	return fmt.Sprintf("no table found on page %d", e.Page)
}

func (e *NoTableFoundError) Is(target error) bool { return target == ErrStructure }

// HeaderNotFoundError means no row carried enough year cells.
type HeaderNotFoundError struct {
	Marker    string
	Threshold int
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("no header row with more than %d cells containing %q", e.Threshold, e.Marker)
}

func (e *HeaderNotFoundError) Is(target error) bool { return target == ErrStructure }

// SectorColumnNotFoundError means no column contained a sector name.
type SectorColumnNotFoundError struct {
	Patterns []string
}

func (e *SectorColumnNotFoundError) Error() string {
	return fmt.Sprintf("no column containing a sector name (%s)", strings.Join(e.Patterns, "|"))
}

func (e *SectorColumnNotFoundError) Is(target error) bool { return target == ErrStructure }

// EmptyResultError means no data row survived the sector filter.
type EmptyResultError struct {
	Sectors []string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no data rows left after filtering to sectors %s", strings.Join(e.Sectors, ", "))
}

func (e *EmptyResultError) Is(target error) bool { return target == ErrStructure }

// DuplicateYearError means two distinct year columns resolved to the same year.
type DuplicateYearError struct {
	Year   int
	Labels [2]string
}

func (e *DuplicateYearError) Error() string {
	return fmt.Sprintf("year %d appears in columns %q and %q", e.Year, e.Labels[0], e.Labels[1])
}

func (e *DuplicateYearError) Is(target error) bool { return target == ErrStructure }
