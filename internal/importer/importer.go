// Package importer provides CSV and Excel import functionality for box lists.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mazenwkamel/StackTics/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Boxes    []model.Box `json:"boxes"`
	Errors   []string    `json:"errors"`
	Warnings []string    `json:"warnings"`
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Name      int
	Length    int
	Width     int
	Height    int
	Weight    int
	Fragility int
	Access    int
	Priority  int
	MaxLoad   int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":      {"name", "label", "box", "box name", "item", "description", "desc"},
	"length":    {"length", "len", "l", "x"},
	"width":     {"width", "wid", "w", "y"},
	"height":    {"height", "hei", "h", "z"},
	"weight":    {"weight", "mass", "kg"},
	"fragility": {"fragility", "fragile", "robustness"},
	"access":    {"access", "access frequency", "access_frequency", "frequency", "usage"},
	"priority":  {"priority", "prio", "must fit", "must_fit"},
	"maxload":   {"max load", "max_load", "max supported load", "max_supported_load", "load limit", "load_limit"},
}

// DetectCSVDelimiter determines the most likely CSV delimiter. It tries
// comma, semicolon, tab, and pipe; the delimiter producing the most
// consistent multi-column row shape wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Matching is case-insensitive against known aliases for each role.
// Returns a positional mapping and false if no header was detected.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Name: -1, Length: -1, Width: -1, Height: -1, Weight: -1,
		Fragility: -1, Access: -1, Priority: -1, MaxLoad: -1,
	}

	assign := func(dst *int, i int) {
		if *dst == -1 {
			*dst = i
		}
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "name":
					assign(&mapping.Name, i)
				case "length":
					assign(&mapping.Length, i)
				case "width":
					assign(&mapping.Width, i)
				case "height":
					assign(&mapping.Height, i)
				case "weight":
					assign(&mapping.Weight, i)
				case "fragility":
					assign(&mapping.Fragility, i)
				case "access":
					assign(&mapping.Access, i)
				case "priority":
					assign(&mapping.Priority, i)
				case "maxload":
					assign(&mapping.MaxLoad, i)
				}
			}
		}
	}

	if !isHeader {
		// Positional fallback: Name, Length, Width, Height, Weight
		return ColumnMapping{
			Name: 0, Length: 1, Width: 2, Height: 3, Weight: 4,
			Fragility: -1, Access: -1, Priority: -1, MaxLoad: -1,
		}, false
	}

	return mapping, true
}

func parseFragility(s string) (model.Fragility, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "robust", "r", "sturdy":
		return model.FragilityRobust, true
	case "normal", "n", "":
		return model.FragilityNormal, true
	case "fragile", "f", "delicate":
		return model.FragilityFragile, true
	default:
		return model.FragilityNormal, false
	}
}

func parseAccess(s string) (model.AccessFrequency, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rare", "rarely":
		return model.AccessRare, true
	case "sometimes", "":
		return model.AccessSometimes, true
	case "often", "frequent", "frequently":
		return model.AccessOften, true
	default:
		return model.AccessSometimes, false
	}
}

func parsePriority(s string) (model.Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "must_fit", "must fit", "must", "required", "yes", "y", "true", "1":
		return model.PriorityMustFit, true
	case "optional", "no", "n", "false", "0", "":
		return model.PriorityOptional, true
	default:
		return model.PriorityOptional, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a Box from a row using the given column mapping.
// Returns the box, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, boxCount int) (model.Box, string, string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Box %d", boxCount+1)
	}

	dims := [3]float64{}
	for i, col := range []struct {
		idx  int
		name string
	}{
		{mapping.Length, "length"},
		{mapping.Width, "width"},
		{mapping.Height, "height"},
	} {
		str := getCell(row, col.idx)
		if str == "" {
			return model.Box{}, fmt.Sprintf("%s: Missing %s value", rowLabel, col.name), ""
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return model.Box{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, col.name, str), ""
		}
		dims[i] = v
	}

	weight := 0.0
	if str := getCell(row, mapping.Weight); str != "" {
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return model.Box{}, fmt.Sprintf("%s: Invalid weight '%s'", rowLabel, str), ""
		}
		weight = v
	}

	if dims[0] <= 0 || dims[1] <= 0 || dims[2] <= 0 {
		return model.Box{}, fmt.Sprintf("%s: Length, width, and height must be positive", rowLabel), ""
	}
	if weight < 0 {
		return model.Box{}, fmt.Sprintf("%s: Weight must not be negative", rowLabel), ""
	}

	box := model.NewBox(name, dims[0], dims[1], dims[2], weight)

	var warnings []string
	if str := getCell(row, mapping.Fragility); str != "" {
		fragility, ok := parseFragility(str)
		if ok {
			box.Fragility = fragility
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown fragility '%s', defaulting to normal", rowLabel, str))
		}
	}
	if str := getCell(row, mapping.Access); str != "" {
		access, ok := parseAccess(str)
		if ok {
			box.AccessFrequency = access
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown access frequency '%s', defaulting to sometimes", rowLabel, str))
		}
	}
	if str := getCell(row, mapping.Priority); str != "" {
		priority, ok := parsePriority(str)
		if ok {
			box.Priority = priority
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown priority '%s', defaulting to optional", rowLabel, str))
		}
	}
	if str := getCell(row, mapping.MaxLoad); str != "" {
		v, err := strconv.ParseFloat(str, 64)
		if err != nil || v < 0 {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid max load '%s', using fragility default", rowLabel, str))
		} else {
			box.MaxSupportedLoad = &v
		}
	}

	return box, "", strings.Join(warnings, "; ")
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports boxes from a CSV file on disk.
func ImportCSV(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	return ImportCSVData(data)
}

// ImportCSVData imports boxes from raw CSV content. It automatically
// detects the delimiter and maps columns by header names. Supports
// comma, semicolon, tab, and pipe delimiters.
func ImportCSVData(data []byte) ImportResult {
	result := ImportResult{}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportExcel imports boxes from an Excel (.xlsx) file on disk.
func ImportExcel(path string) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open Excel file: %v", err)}}
	}
	defer f.Close()
	return importExcelFile(f)
}

// ImportExcelReader imports boxes from Excel content in a reader.
func ImportExcelReader(r io.Reader) ImportResult {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open Excel file: %v", err)}}
	}
	defer f.Close()
	return importExcelFile(f)
}

// importExcelFile reads the first sheet and auto-detects column mapping.
func importExcelFile(f *excelize.File) ImportResult {
	result := ImportResult{}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 4 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			// First column after the name is not numeric: an unrecognized
			// header. Skip it but keep the positional mapping.
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		box, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Boxes))

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Boxes = append(result.Boxes, box)
	}

	return result
}
