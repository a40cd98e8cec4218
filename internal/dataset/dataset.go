// Package dataset loads the raw tabular training sources with explicit,
// validated schemas. A header mismatch is a hard error at load time; a
// malformed row (missing disease, empty symptom set) is rejected and
// reported, never silently kept.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// DiseaseRecord is one row of the symptom table: a disease and its
// ground-truth symptoms.
type DiseaseRecord struct {
	Disease  string
	Symptoms []string
}

// DescriptionRecord maps a disease to its free-text description.
type DescriptionRecord struct {
	Disease     string
	Description string
}

// SpecialistRecord maps a disease to the medical specialty treating it.
type SpecialistRecord struct {
	Disease    string
	Specialist string
}

// LoadResult carries loaded rows plus the count of rejected malformed rows.
type LoadResult[T any] struct {
	Records  []T
	Rejected int
}

// LoadDiseaseSymptoms reads the symptom table. The header must start with a
// "Disease" column; every remaining column must be named "Symptom_<n>".
// Symptoms are trimmed and lowercased; blank cells are skipped.
func LoadDiseaseSymptoms(path string) (LoadResult[DiseaseRecord], error) {
	var result LoadResult[DiseaseRecord]

	rows, err := readAll(path)
	if err != nil {
		return result, err
	}
	if len(rows) == 0 {
		return result, fmt.Errorf("%s: empty file", path)
	}

	header := rows[0]
	if len(header) < 2 || !strings.EqualFold(strings.TrimSpace(header[0]), "Disease") {
		return result, fmt.Errorf("%s: first column must be Disease, got %q", path, header)
	}
	for i, col := range header[1:] {
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(col)), "symptom") {
			return result, fmt.Errorf("%s: column %d must be a Symptom_<n> column, got %q", path, i+1, col)
		}
	}

	for _, row := range rows[1:] {
		if len(row) < 2 {
			result.Rejected++
			continue
		}
		disease := strings.TrimSpace(row[0])
		var symptoms []string
		for _, cell := range row[1:] {
			s := strings.ToLower(strings.TrimSpace(cell))
			if s != "" {
				symptoms = append(symptoms, s)
			}
		}
		if disease == "" || len(symptoms) == 0 {
			result.Rejected++
			continue
		}
		result.Records = append(result.Records, DiseaseRecord{Disease: disease, Symptoms: symptoms})
	}

	if len(result.Records) == 0 {
		return result, fmt.Errorf("%s: no valid disease rows", path)
	}
	return result, nil
}

// LoadDescriptions reads the description table (Disease, Description).
func LoadDescriptions(path string) (LoadResult[DescriptionRecord], error) {
	var result LoadResult[DescriptionRecord]

	rows, err := readAll(path)
	if err != nil {
		return result, err
	}
	if err := requireHeader(path, rows, "Disease", "Description"); err != nil {
		return result, err
	}

	for _, row := range rows[1:] {
		if len(row) < 2 {
			result.Rejected++
			continue
		}
		disease := strings.TrimSpace(row[0])
		desc := strings.TrimSpace(row[1])
		if disease == "" || desc == "" {
			result.Rejected++
			continue
		}
		result.Records = append(result.Records, DescriptionRecord{Disease: disease, Description: desc})
	}
	return result, nil
}

// LoadSpecialists reads the specialist table (Disease, Specialist).
func LoadSpecialists(path string) (LoadResult[SpecialistRecord], error) {
	var result LoadResult[SpecialistRecord]

	rows, err := readAll(path)
	if err != nil {
		return result, err
	}
	if err := requireHeader(path, rows, "Disease", "Specialist"); err != nil {
		return result, err
	}

	for _, row := range rows[1:] {
		if len(row) < 2 {
			result.Rejected++
			continue
		}
		disease := strings.TrimSpace(row[0])
		specialist := strings.TrimSpace(row[1])
		if disease == "" || specialist == "" {
			result.Rejected++
			continue
		}
		result.Records = append(result.Records, SpecialistRecord{Disease: disease, Specialist: specialist})
	}
	return result, nil
}

func requireHeader(path string, rows [][]string, want ...string) error {
	if len(rows) == 0 {
		return fmt.Errorf("%s: empty file", path)
	}
	header := rows[0]
	if len(header) < len(want) {
		return fmt.Errorf("%s: expected columns %v, got %v", path, want, header)
	}
	for i, name := range want {
		if !strings.EqualFold(strings.TrimSpace(header[i]), name) {
			return fmt.Errorf("%s: expected column %d to be %s, got %q", path, i, name, header[i])
		}
	}
	return nil
}

func readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows may have trailing blank symptom cells

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
