package parser

import "testing"

func TestMapRowAliases(t *testing.T) {
	raw := map[string]any{
		"nome":                     "Mario Rossi",
		"email":                    "mario.rossi@proxima.it",
		"idUtenteUnivoco":          "MR0001",
		"nomeContenuto":            "Go Basics",
		"fornitoreContenuto":       "LinkedIn Learning",
		"percentualeCompletamento": "45%",
		"oreVisione":               "02:30:00",
		"valutazioniTotali":        float64(3),
		"campoSconosciuto":         "ignorato",
	}

	row := MapRow(raw)

	if row[FieldFullName] != "Mario Rossi" {
		t.Errorf("full_name = %q", row[FieldFullName])
	}
	if row[FieldEmployeeCode] != "MR0001" {
		t.Errorf("employee_code = %q", row[FieldEmployeeCode])
	}
	if row[FieldPercentage] != "45%" {
		t.Errorf("percentage = %q", row[FieldPercentage])
	}
	if row[FieldTotalRatings] != "3" {
		t.Errorf("total_ratings = %q, want \"3\"", row[FieldTotalRatings])
	}
	if _, ok := row["campoSconosciuto"]; ok {
		t.Error("unknown fields must be dropped")
	}
}

func TestMapRowCanonicalPassthrough(t *testing.T) {
	row := MapRow(map[string]any{
		"email":        "a@b.it",
		"content_name": "Go Basics",
	})
	if row[FieldContentName] != "Go Basics" {
		t.Errorf("canonical name should pass through, got %q", row[FieldContentName])
	}
}

func TestRecordFromRow(t *testing.T) {
	row := RawRow{
		FieldFullName:          "Maria De Luca",
		FieldEmail:             "Maria.DeLuca@Proxima.IT",
		FieldContentName:       "Kubernetes Advanced",
		FieldDuration:          "01:15:00",
		FieldPercentage:        "80",
		FieldRating:            "4.5",
		FieldTotalRatings:      "10",
		FieldSkills:            "Kubernetes;Docker",
		FieldCompletedRatings:  "not-a-number",
		FieldInteractionGroups: "Team A|Team B; Team C",
		FieldCurrentGroups:     " Team D ,Team E",
	}

	rec, err := RecordFromRow(row)
	if err != nil {
		t.Fatalf("RecordFromRow: %v", err)
	}

	if rec.FirstName != "Maria" || rec.LastName != "De Luca" {
		t.Errorf("name split = %q %q", rec.FirstName, rec.LastName)
	}
	if rec.Email != "maria.deluca@proxima.it" {
		t.Errorf("email should be lowercased, got %q", rec.Email)
	}
	if rec.Rating == nil || *rec.Rating != 4.5 {
		t.Errorf("rating = %v", rec.Rating)
	}
	if rec.TotalRatings != 10 || rec.CompletedRatings != 0 {
		t.Errorf("ratings = %d/%d", rec.TotalRatings, rec.CompletedRatings)
	}
	if rec.InteractionGroups != "Team A; Team B; Team C" {
		t.Errorf("interaction groups = %q", rec.InteractionGroups)
	}
	if rec.CurrentGroups != "Team D; Team E" {
		t.Errorf("current groups = %q", rec.CurrentGroups)
	}
}

func TestRecordFromRowMissingRequired(t *testing.T) {
	if _, err := RecordFromRow(RawRow{FieldContentName: "Go"}); err == nil {
		t.Error("expected error for missing email")
	}
	if _, err := RecordFromRow(RawRow{FieldEmail: "a@b.it"}); err == nil {
		t.Error("expected error for missing content name")
	}
}
