package core

import (
	"math"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates a cleaned cell as a decimal number, with optional
// sign and exponent.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseCGPA coerces a raw CGPA cell to a float64 sort key. Cells that do not
// parse as numbers come back as NaN, which the allocator orders after every
// valid value instead of failing the run over one bad cell.
func ParseCGPA(raw string) float64 {
	n := toNumeric(CleanCell(raw))
	if !n.Valid {
		return math.NaN()
	}

	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return math.NaN()
	}
	return f.Float64
}

// toNumeric parses a cell into a pgtype.Numeric, tolerating the thousands
// separators and embedded spaces that spreadsheet exports produce.
func toNumeric(value string) pgtype.Numeric {
	value = strings.TrimSpace(value)
	if value == "" || value == "-" {
		return pgtype.Numeric{Valid: false}
	}

	value = strings.ReplaceAll(value, ",", "")
	value = strings.ReplaceAll(value, " ", "")

	if !numericRegex.MatchString(value) {
		return pgtype.Numeric{Valid: false}
	}

	var n pgtype.Numeric
	if err := n.Scan(value); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}
