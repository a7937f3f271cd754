package parser

import (
	"strings"
	"testing"
)

const csvHeader = "Nome;Email;Id utente;Nome contenuto;Fornitore;Tipo;Id contenuto;Ore;Percentuale;Inizio;Ultima visualizzazione;Completamento;Valutazioni totali;Valutazioni completate;Competenze;Nome corso;Id corso;Gruppi interazione;Gruppi attuali\n"

func csvRow(name, email, content string) string {
	return name + ";" + email + ";MR01;" + content + ";LinkedIn Learning;VIDEO;C100;02:30:00;45%;01/03/2025;10/03/2025;;3;1;Go;Go Path;P1;Team A;Team A\n"
}

func parseSemicolonCSV(t *testing.T, data string, skipLimit int) (*CSVResult, error) {
	t.Helper()
	// Экспорт LMS идёт с разделителем-запятой; для читаемости тестовые
	// данные собираются с ";" и конвертируются
	return ParseCSV(strings.NewReader(strings.ReplaceAll(data, ";", ",")), skipLimit)
}

func TestParseCSV(t *testing.T) {
	data := csvHeader +
		csvRow("Mario Rossi", "mario.rossi@proxima.it", "Go Basics") +
		csvRow("Maria De Luca", "maria.deluca@proxima.it", "SQL Basics")

	result, err := parseSemicolonCSV(t, data, 50)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(result.Records))
	}
	if result.Invalid != 0 || result.Malformed != 0 {
		t.Errorf("invalid=%d malformed=%d, want 0/0", result.Invalid, result.Malformed)
	}

	rec := result.Records[0]
	if rec.FirstName != "Mario" || rec.LastName != "Rossi" {
		t.Errorf("name = %q %q", rec.FirstName, rec.LastName)
	}
	if rec.RawPercentage != "45%" || rec.RawDuration != "02:30:00" {
		t.Errorf("raw fields = %q %q", rec.RawPercentage, rec.RawDuration)
	}
}

func TestParseCSVSkipsInvalidRows(t *testing.T) {
	data := csvHeader +
		csvRow("Mario Rossi", "", "Go Basics") + // нет email
		csvRow("Maria De Luca", "maria.deluca@proxima.it", "SQL Basics")

	result, err := parseSemicolonCSV(t, data, 50)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(result.Records) != 1 || result.Invalid != 1 {
		t.Errorf("records=%d invalid=%d, want 1/1", len(result.Records), result.Invalid)
	}
}

func TestParseCSVMalformedWithinLimit(t *testing.T) {
	data := csvHeader +
		"troppo,corto\n" +
		csvRow("Mario Rossi", "mario.rossi@proxima.it", "Go Basics")

	result, err := parseSemicolonCSV(t, data, 50)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(result.Records) != 1 || result.Malformed != 1 {
		t.Errorf("records=%d malformed=%d, want 1/1", len(result.Records), result.Malformed)
	}
}

func TestParseCSVSkipLimitExceeded(t *testing.T) {
	data := csvHeader +
		"bad,1\n" +
		"bad,2\n" +
		"bad,3\n"

	if _, err := parseSemicolonCSV(t, data, 2); err == nil {
		t.Fatal("expected file rejection after exceeding skip limit")
	}
}
