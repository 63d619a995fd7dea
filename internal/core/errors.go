package core

import "fmt"

// Structural faults in an uploaded sheet surface as typed errors so callers
// can match them with errors.As and map them to user-facing messages.

// ColumnNotFoundError reports that a required column is absent from the
// header.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("%s column not found in header", e.Column)
}

// NoPreferenceColumnsError reports that no columns follow the CGPA column,
// leaving nothing to allocate from.
type NoPreferenceColumnsError struct {
	// After is the CGPA column name the preference columns were expected
	// to follow.
	After string
}

func (e *NoPreferenceColumnsError) Error() string {
	return fmt.Sprintf("no preference columns found after %s", e.After)
}

// MissingAllocationColumnError reports that a table handed to reconciliation
// as the allocation result lacks its allocation column.
type MissingAllocationColumnError struct {
	Column string
}

func (e *MissingAllocationColumnError) Error() string {
	return fmt.Sprintf("allocated table is missing the %s column", e.Column)
}

// RowCountMismatchError reports that positional alignment failed: the tables
// share no identifier column and differ in length.
type RowCountMismatchError struct {
	Original  int
	Allocated int
}

func (e *RowCountMismatchError) Error() string {
	return fmt.Sprintf("row count mismatch: original table has %d rows, allocated table has %d", e.Original, e.Allocated)
}
