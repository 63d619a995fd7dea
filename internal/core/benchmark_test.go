package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"testing"
)

// ============================================================================
// Cell Cleaning Benchmarks
// ============================================================================

// BenchmarkCleanCell benchmarks CSV cell cleaning.
// Called for every cell during parsing, so performance is critical.
func BenchmarkCleanCell(b *testing.B) {
	testCases := []string{
		"normal value",
		`="formula"`,      // Excel formula prefix
		`"quoted"`,        // Quoted
		"  whitespace  ",  // Whitespace
		`="12345"`,        // Number as text in Excel
		"'single quoted'", // Single quotes
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			CleanCell(tc)
		}
	}
}

// BenchmarkCleanCell_Simple benchmarks the common case: no cleaning needed.
func BenchmarkCleanCell_Simple(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CleanCell("simple value")
	}
}

// ============================================================================
// CGPA Parsing Benchmarks
// ============================================================================

// BenchmarkParseCGPA benchmarks CGPA string parsing.
// This is a hot path: called once per student row when building sort keys.
func BenchmarkParseCGPA(b *testing.B) {
	testCases := []string{
		"8.75",
		"9",
		`="8.50"`,     // Excel formula wrapper
		"  7.25  ",    // Whitespace
		"N/A",         // Invalid
		"8.125e0",     // Scientific notation
		"1,234",       // Thousands separator (cleaned before parse)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseCGPA(tc)
		}
	}
}

// BenchmarkParseCGPA_Simple benchmarks the most common case: plain decimals.
func BenchmarkParseCGPA_Simple(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseCGPA("8.75")
	}
}

// ============================================================================
// Faculty Code Benchmarks
// ============================================================================

// BenchmarkCanonical benchmarks faculty code canonicalization.
// Called for every preference cell during allocation and tallying.
func BenchmarkCanonical(b *testing.B) {
	codes := DefaultCodes()
	testCases := []string{
		"7",       // Plain numeric code
		"7.0",     // Spreadsheet float artifact
		"ABM",     // Already a name
		`="12"`,   // Excel formula wrapper
		"",        // Blank
		"unknown", // Passthrough
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			codes.Canonical(tc)
		}
	}
}

// BenchmarkCanonical_Hit benchmarks the common case: a direct map hit.
func BenchmarkCanonical_Hit(b *testing.B) {
	codes := DefaultCodes()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		codes.Canonical("7")
	}
}

// ============================================================================
// UTF-8 Sanitization Benchmarks
// ============================================================================

// BenchmarkSanitizeUTF8_Valid benchmarks the fast path: already-valid input.
func BenchmarkSanitizeUTF8_Valid(b *testing.B) {
	data := bytes.Repeat([]byte("Valid UTF-8 line with numbers 12345\n"), 300)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sanitizeUTF8(data)
	}
}

// BenchmarkSanitizeUTF8_Invalid benchmarks input needing replacement.
func BenchmarkSanitizeUTF8_Invalid(b *testing.B) {
	line := append([]byte("bad byte here: "), 0xFF, '\n')
	data := bytes.Repeat(line, 300)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sanitizeUTF8(data)
	}
}

// ============================================================================
// Table Parsing Benchmarks
// ============================================================================

// BenchmarkParseTable benchmarks CSV parsing into a Table.
func BenchmarkParseTable(b *testing.B) {
	data := generateStudentCSV(100, 3)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ParseTable(data)
	}
}

// BenchmarkParseTable_Large benchmarks parsing a larger sheet.
func BenchmarkParseTable_Large(b *testing.B) {
	data := generateStudentCSV(1000, 5)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ParseTable(data)
	}
}

// BenchmarkIsEmptyRow benchmarks empty row detection.
func BenchmarkIsEmptyRow(b *testing.B) {
	tests := []struct {
		name string
		row  []string
	}{
		{"empty", make([]string, 10)},
		{"non_empty", func() []string {
			row := make([]string, 10)
			row[9] = "data"
			return row
		}()},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				isEmptyRow(tt.row)
			}
		})
	}
}

// ============================================================================
// Allocation Pipeline Benchmarks
// ============================================================================

// BenchmarkDetectPreferenceColumns benchmarks header layout detection.
func BenchmarkDetectPreferenceColumns(b *testing.B) {
	header := []string{"Name", "Roll", "Email", "CGPA", "Pref 1", "Pref 2", "Pref 3"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DetectPreferenceColumns(header)
	}
}

// BenchmarkAllocate benchmarks the sort-and-assign step.
func BenchmarkAllocate(b *testing.B) {
	codes := DefaultCodes()
	table := mustParse(b, generateStudentCSV(100, 3))

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Allocate(table, codes)
	}
}

// BenchmarkAllocate_Large benchmarks allocation over a full department sheet.
func BenchmarkAllocate_Large(b *testing.B) {
	codes := DefaultCodes()
	table := mustParse(b, generateStudentCSV(1000, 5))

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Allocate(table, codes)
	}
}

// BenchmarkReconcile benchmarks merging allocations back into input order.
func BenchmarkReconcile(b *testing.B) {
	codes := DefaultCodes()
	table := mustParse(b, generateStudentCSV(100, 3))
	allocated, err := Allocate(table, codes)
	if err != nil {
		b.Fatalf("Allocate: %v", err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Reconcile(table, allocated)
	}
}

// BenchmarkTally benchmarks preference counting.
func BenchmarkTally(b *testing.B) {
	codes := DefaultCodes()
	table := mustParse(b, generateStudentCSV(100, 3))

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Tally(table, codes)
	}
}

// BenchmarkPipeline benchmarks the full parse-allocate-reconcile-tally run.
func BenchmarkPipeline(b *testing.B) {
	codes := DefaultCodes()
	data := generateStudentCSV(500, 4)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		table, err := ParseTable(data)
		if err != nil {
			b.Fatalf("ParseTable: %v", err)
		}
		allocated, err := Allocate(table, codes)
		if err != nil {
			b.Fatalf("Allocate: %v", err)
		}
		if _, err := Reconcile(table, allocated); err != nil {
			b.Fatalf("Reconcile: %v", err)
		}
		if _, err := Tally(table, codes); err != nil {
			b.Fatalf("Tally: %v", err)
		}
	}
}

// ============================================================================
// Parallel Benchmarks
// ============================================================================

// BenchmarkParseCGPAParallel benchmarks parallel CGPA parsing.
func BenchmarkParseCGPAParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			ParseCGPA(`="8.75"`)
		}
	})
}

// BenchmarkCleanCellParallel benchmarks parallel cell cleaning.
func BenchmarkCleanCellParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			CleanCell(`="formula value"`)
		}
	})
}

// BenchmarkCanonicalParallel benchmarks parallel code canonicalization.
func BenchmarkCanonicalParallel(b *testing.B) {
	codes := DefaultCodes()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			codes.Canonical("7.0")
		}
	})
}

// ============================================================================
// Helper Functions
// ============================================================================

// mustParse parses generated CSV data or fails the benchmark.
func mustParse(b *testing.B, data []byte) *Table {
	b.Helper()
	table, err := ParseTable(data)
	if err != nil {
		b.Fatalf("ParseTable: %v", err)
	}
	return table
}

// generateStudentCSV generates a preference sheet with the given number of
// student rows and preference columns.
func generateStudentCSV(rows, prefs int) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Name", "Roll", "CGPA"}
	for p := 1; p <= prefs; p++ {
		header = append(header, fmt.Sprintf("Pref %d", p))
	}
	w.Write(header)

	for i := 0; i < rows; i++ {
		record := []string{
			fmt.Sprintf("Student %d", i+1),
			strconv.Itoa(230001 + i),
			fmt.Sprintf("%.2f", 6.0+float64(i%400)/100),
		}
		for p := 0; p < prefs; p++ {
			record = append(record, strconv.Itoa((i+p)%18+1))
		}
		w.Write(record)
	}
	w.Flush()

	return buf.Bytes()
}
