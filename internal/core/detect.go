package core

import "strings"

// cgpaAliases are the header names recognized as the CGPA column, compared
// case-insensitively after cleaning.
var cgpaAliases = map[string]struct{}{
	"cgpa":             {},
	"cgpa_score":       {},
	"gpa":              {},
	"cgpa (out of 10)": {},
}

// PreferenceLayout describes where the ranking data lives in a header: the
// CGPA column and the preference columns that follow it.
type PreferenceLayout struct {
	// CGPAIndex is the position of the CGPA column.
	CGPAIndex int
	// CGPAColumn is the CGPA header cell as it appears in the table.
	CGPAColumn string
	// Preferences holds the positions of the preference columns in rank
	// order, first preference first.
	Preferences []int
}

// Ranks returns the number of preference ranks in the layout.
func (l PreferenceLayout) Ranks() int { return len(l.Preferences) }

// DetectPreferenceColumns locates the CGPA column and the trailing
// preference columns in a header.
//
// The CGPA column is the first header exactly matching a known alias; if
// none matches, the first header containing "cgpa" as a substring. Every
// column strictly after it counts as a preference column, so the sheet
// layout itself defines how many ranks students submitted.
func DetectPreferenceColumns(header []string) (PreferenceLayout, error) {
	cgpaIdx := -1
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if _, ok := cgpaAliases[key]; ok {
			cgpaIdx = i
			break
		}
	}
	if cgpaIdx < 0 {
		for i, h := range header {
			if strings.Contains(strings.ToLower(CleanCell(h)), "cgpa") {
				cgpaIdx = i
				break
			}
		}
	}
	if cgpaIdx < 0 {
		return PreferenceLayout{}, &ColumnNotFoundError{Column: "CGPA"}
	}

	prefs := make([]int, 0, len(header)-cgpaIdx-1)
	for i := cgpaIdx + 1; i < len(header); i++ {
		prefs = append(prefs, i)
	}
	if len(prefs) == 0 {
		return PreferenceLayout{}, &NoPreferenceColumnsError{After: header[cgpaIdx]}
	}

	return PreferenceLayout{
		CGPAIndex:   cgpaIdx,
		CGPAColumn:  header[cgpaIdx],
		Preferences: prefs,
	}, nil
}
