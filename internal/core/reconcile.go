package core

// identifierCandidates are the column names tried, in priority order, as a
// stable join key between the original and allocated tables.
var identifierCandidates = []string{"Roll", "RollNo", "Email", "StudentID", "ID"}

// Reconcile maps the allocation back onto the original row order.
//
// The first identifier candidate present in both headers joins the tables;
// allocation values are matched by cleaned, case-sensitive identifier, and
// duplicate identifiers resolve to the last allocated occurrence. Original
// rows whose identifier never appears in the allocated table get an empty
// allocation. Without a shared identifier the tables are aligned
// positionally, which requires equal row counts.
//
// The result keeps the original columns up to and including CGPA, in the
// original row order, and appends AllocatedFaculty. Preference columns are
// dropped: the final sheet answers "who did each student get", not "what
// did they ask for".
func Reconcile(original, allocated *Table) (*Table, error) {
	layout, err := DetectPreferenceColumns(original.Header)
	if err != nil {
		return nil, err
	}

	allocIdx, ok := allocated.ColumnIndex(AllocatedFacultyColumn)
	if !ok {
		return nil, &MissingAllocationColumnError{Column: AllocatedFacultyColumn}
	}

	values := make([]string, len(original.Rows))

	if origID, allocID, found := findIdentifier(original, allocated); found {
		byID := make(map[string]string, len(allocated.Rows))
		for _, row := range allocated.Rows {
			byID[CleanCell(row[allocID])] = row[allocIdx]
		}
		for i, row := range original.Rows {
			values[i] = byID[CleanCell(row[origID])]
		}
	} else {
		if len(original.Rows) != len(allocated.Rows) {
			return nil, &RowCountMismatchError{
				Original:  len(original.Rows),
				Allocated: len(allocated.Rows),
			}
		}
		for i, row := range allocated.Rows {
			values[i] = row[allocIdx]
		}
	}

	keep := layout.CGPAIndex + 1
	out := &Table{
		Header: append(append([]string(nil), original.Header[:keep]...), AllocatedFacultyColumn),
		Rows:   make([][]string, len(original.Rows)),
	}
	for i, row := range original.Rows {
		kept := make([]string, keep, keep+1)
		copy(kept, row[:keep])
		out.Rows[i] = append(kept, values[i])
	}
	return out, nil
}

// findIdentifier returns the column positions of the first identifier
// candidate present in both tables.
func findIdentifier(original, allocated *Table) (origIdx, allocIdx int, found bool) {
	for _, cand := range identifierCandidates {
		oi, ok1 := original.ColumnIndex(cand)
		ai, ok2 := allocated.ColumnIndex(cand)
		if ok1 && ok2 {
			return oi, ai, true
		}
	}
	return 0, 0, false
}
