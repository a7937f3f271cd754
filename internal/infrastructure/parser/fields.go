package parser

import (
	"fmt"
	"strconv"
	"strings"

	"trainingplatform/internal/domain"
	"trainingplatform/internal/normalize"
)

// Канонические имена полей сырой записи.
const (
	FieldFullName         = "full_name"
	FieldEmail            = "email"
	FieldEmployeeCode     = "employee_code"
	FieldContentName      = "content_name"
	FieldProvider         = "provider"
	FieldContentType      = "content_type"
	FieldContentID        = "content_id"
	FieldDuration         = "duration"
	FieldPercentage       = "percentage"
	FieldStartDate        = "start_date"
	FieldLastViewDate     = "last_view_date"
	FieldCompletionDate   = "completion_date"
	FieldTotalRatings     = "total_ratings"
	FieldCompletedRatings = "completed_ratings"
	FieldRating           = "rating"
	FieldSkills           = "skills"
	FieldParentCourseName = "parent_course_name"
	FieldParentCourseID   = "parent_course_id"
	FieldInteractionGroups = "interaction_groups"
	FieldCurrentGroups     = "current_groups"
	FieldCourseURL         = "course_url"
)

// Явная таблица соответствий: многословные имена полей внешнего
// экспорта -> канонические имена. Никакой магии тегов, таблица
// тестируется отдельно от транспортного формата.
var fieldAliases = map[string]string{
	"nome":                        FieldFullName,
	"email":                       FieldEmail,
	"idUtenteUnivoco":             FieldEmployeeCode,
	"nomeContenuto":               FieldContentName,
	"fornitoreContenuto":          FieldProvider,
	"tipoContenuto":               FieldContentType,
	"idContenuto":                 FieldContentID,
	"oreVisione":                  FieldDuration,
	"percentualeCompletamento":    FieldPercentage,
	"inizioPstPdt":                FieldStartDate,
	"ultimaVisualizzazionePstPdt": FieldLastViewDate,
	"completamentoPstPdt":         FieldCompletionDate,
	"valutazioniTotali":           FieldTotalRatings,
	"numeroValutazioniCompletate": FieldCompletedRatings,
	"valutazione":                 FieldRating,
	"competenze":                  FieldSkills,
	"nomeCorso":                   FieldParentCourseName,
	"idCorso":                     FieldParentCourseID,
	"gruppiMomentoInterazione":    FieldInteractionGroups,
	"gruppiIscrizioniAttuali":     FieldCurrentGroups,
	"urlCorso":                    FieldCourseURL,
}

// RawRow — одна строка внешнего источника с каноническими именами полей.
type RawRow map[string]string

// MapRow переводит произвольный JSON-объект в RawRow по таблице алиасов.
// Уже каноническое имя проходит как есть, незнакомые поля отбрасываются.
func MapRow(raw map[string]any) RawRow {
	row := RawRow{}
	for name, value := range raw {
		canonical, ok := fieldAliases[name]
		if !ok {
			if _, known := canonicalFields[name]; !known {
				continue
			}
			canonical = name
		}
		row[canonical] = stringify(value)
	}
	return row
}

var canonicalFields = func() map[string]struct{} {
	set := map[string]struct{}{}
	for _, canonical := range fieldAliases {
		set[canonical] = struct{}{}
	}
	return set
}()

func stringify(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", value))
	}
}

// RecordFromRow собирает StagingRecord из канонической строки.
// Записи без email или названия контента отклоняются здесь,
// а не на этапе реконсиляции.
func RecordFromRow(row RawRow) (*domain.StagingRecord, error) {
	email := strings.ToLower(strings.TrimSpace(row[FieldEmail]))
	if email == "" {
		return nil, fmt.Errorf("missing required field %q", FieldEmail)
	}
	contentName := strings.TrimSpace(row[FieldContentName])
	if contentName == "" {
		return nil, fmt.Errorf("missing required field %q", FieldContentName)
	}

	first, last := normalize.SplitFullName(row[FieldFullName])

	record := &domain.StagingRecord{
		FirstName:    first,
		LastName:     last,
		Email:        email,
		EmployeeCode: strings.TrimSpace(row[FieldEmployeeCode]),

		ContentName: contentName,
		ContentID:   strings.TrimSpace(row[FieldContentID]),
		Provider:    strings.TrimSpace(row[FieldProvider]),
		ContentType: strings.TrimSpace(row[FieldContentType]),
		CourseURL:   strings.TrimSpace(row[FieldCourseURL]),

		RawDuration:       strings.TrimSpace(row[FieldDuration]),
		RawPercentage:     strings.TrimSpace(row[FieldPercentage]),
		RawStartDate:      strings.TrimSpace(row[FieldStartDate]),
		RawLastViewDate:   strings.TrimSpace(row[FieldLastViewDate]),
		RawCompletionDate: strings.TrimSpace(row[FieldCompletionDate]),

		Skills:           strings.TrimSpace(row[FieldSkills]),
		ParentCourseName: strings.TrimSpace(row[FieldParentCourseName]),
		ParentCourseID:   strings.TrimSpace(row[FieldParentCourseID]),

		// Экспорты мешают разделители групп; в стейджинг они
		// попадают уже в каноническом виде через "; ".
		InteractionGroups: strings.Join(normalize.SplitGroups(row[FieldInteractionGroups]), "; "),
		CurrentGroups:     strings.Join(normalize.SplitGroups(row[FieldCurrentGroups]), "; "),
	}

	// Счётчики оценок не критичны: мусор превращается в 0.
	record.TotalRatings = intOrZero(row[FieldTotalRatings])
	record.CompletedRatings = intOrZero(row[FieldCompletedRatings])

	if raw := strings.TrimSpace(row[FieldRating]); raw != "" {
		if rating, err := strconv.ParseFloat(raw, 64); err == nil {
			record.Rating = &rating
		}
	}

	return record, nil
}

func intOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
