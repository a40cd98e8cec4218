package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadDiseaseSymptoms(t *testing.T) {
	path := writeCSV(t,
		"Disease,Symptom_1,Symptom_2,Symptom_3\n"+
			"Cúm, Sốt ,HO,\n"+
			"Sốt rét,sốt,rét run,đau đầu\n")

	result, err := LoadDiseaseSymptoms(path)
	if err != nil {
		t.Fatalf("LoadDiseaseSymptoms failed: %v", err)
	}
	if result.Rejected != 0 {
		t.Errorf("Expected 0 rejected rows, got %d", result.Rejected)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(result.Records))
	}

	want := DiseaseRecord{Disease: "Cúm", Symptoms: []string{"sốt", "ho"}}
	if !reflect.DeepEqual(result.Records[0], want) {
		t.Errorf("Record[0] = %+v, want %+v", result.Records[0], want)
	}
}

func TestLoadDiseaseSymptomsRejectsMalformedRows(t *testing.T) {
	path := writeCSV(t,
		"Disease,Symptom_1\n"+
			"Cúm,sốt\n"+
			",sốt\n"+
			"Sốt rét,\n")

	result, err := LoadDiseaseSymptoms(path)
	if err != nil {
		t.Fatalf("LoadDiseaseSymptoms failed: %v", err)
	}
	if len(result.Records) != 1 {
		t.Errorf("Expected 1 record, got %d", len(result.Records))
	}
	if result.Rejected != 2 {
		t.Errorf("Expected 2 rejected rows, got %d", result.Rejected)
	}
}

func TestLoadDiseaseSymptomsBadHeader(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"wrong first column", "Illness,Symptom_1\nCúm,sốt\n"},
		{"non-symptom column", "Disease,Notes\nCúm,sốt\n"},
		{"empty", ""},
		{"all rows invalid", "Disease,Symptom_1\n,\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, tt.content)
			if _, err := LoadDiseaseSymptoms(path); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoadDescriptions(t *testing.T) {
	path := writeCSV(t,
		"Disease,Description\n"+
			"Cúm,Nhiễm virus đường hô hấp.\n"+
			",thiếu tên bệnh\n")

	result, err := LoadDescriptions(path)
	if err != nil {
		t.Fatalf("LoadDescriptions failed: %v", err)
	}
	if len(result.Records) != 1 || result.Rejected != 1 {
		t.Fatalf("Expected 1 record and 1 rejected, got %d/%d", len(result.Records), result.Rejected)
	}
	if result.Records[0].Description != "Nhiễm virus đường hô hấp." {
		t.Errorf("Unexpected description: %q", result.Records[0].Description)
	}
}

func TestLoadSpecialists(t *testing.T) {
	path := writeCSV(t,
		"Disease,Specialist\n"+
			"Cúm,Khoa Truyền nhiễm\n")

	result, err := LoadSpecialists(path)
	if err != nil {
		t.Fatalf("LoadSpecialists failed: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(result.Records))
	}
	if result.Records[0].Specialist != "Khoa Truyền nhiễm" {
		t.Errorf("Unexpected specialist: %q", result.Records[0].Specialist)
	}
}

func TestRequireHeaderMismatch(t *testing.T) {
	path := writeCSV(t, "Disease,Doctor\nCúm,ai đó\n")
	if _, err := LoadSpecialists(path); err == nil {
		t.Error("Expected header mismatch error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadDiseaseSymptoms(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("Expected error for missing file")
	}
}
