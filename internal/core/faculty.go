package core

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// defaultFacultyCodes maps the department's numeric preference codes to
// faculty short names. Forms that collect codes instead of names resolve
// through this table.
var defaultFacultyCodes = map[string]string{
	"1":  "ABM",
	"2":  "AE",
	"3":  "AM",
	"4":  "AR",
	"5":  "CA",
	"6":  "JC",
	"7":  "JM",
	"8":  "MA",
	"9":  "RH",
	"10": "RM",
	"11": "RM2",
	"12": "RS",
	"13": "SK",
	"14": "SKD",
	"15": "SKM",
	"16": "SM",
	"17": "SS",
	"18": "ST",
}

// CodeTable resolves raw preference cells to canonical faculty short names.
// It is built once at startup and read-only afterwards, so it is safe to
// share across concurrent runs.
type CodeTable map[string]string

// DefaultCodes returns a copy of the built-in faculty code table.
func DefaultCodes() CodeTable {
	codes := make(CodeTable, len(defaultFacultyCodes))
	for code, name := range defaultFacultyCodes {
		codes[code] = name
	}
	return codes
}

// LoadCodes builds the faculty code table for a semester. Entries from the
// YAML file at path (a top-level "codes" mapping) overlay the built-in
// defaults, so a new hire or a renamed faculty only needs a config change.
// An empty path returns the defaults unchanged.
func LoadCodes(path string) (CodeTable, error) {
	codes := DefaultCodes()
	if path == "" {
		return codes, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load faculty codes from %s: %w", path, err)
	}

	for code, name := range k.StringMap("codes") {
		code = CleanCell(code)
		name = CleanCell(name)
		if code == "" || name == "" {
			continue
		}
		codes[code] = name
	}
	return codes, nil
}

// Canonical resolves one raw preference cell to its faculty name.
//
// Blank cells stay empty. Known codes resolve to short names, including
// codes that arrive as decimal-formatted numbers ("7.0" resolves like "7",
// a common artifact of spreadsheet number columns). Anything unknown passes
// through as cleaned text, so preferences entered directly as names survive
// untouched.
func (ct CodeTable) Canonical(raw string) string {
	value := CleanCell(raw)
	if value == "" {
		return ""
	}
	if name, ok := ct[value]; ok {
		return name
	}
	if trimmed, ok := strings.CutSuffix(value, ".0"); ok {
		if name, ok := ct[trimmed]; ok {
			return name
		}
	}
	return value
}
