package usecase

import (
	"log"
	"strings"
	"time"

	"trainingplatform/internal/domain"
	"trainingplatform/internal/normalize"
)

// Observation — нормализованный снимок одной строки активности.
// nil-поля означают "источник ничего не сообщил", и reconciler
// их не трогает.
type Observation struct {
	Percent        *float64
	Hours          *float64
	Rating         *float64
	Skills         string
	StartDate      *time.Time
	TargetDate     *time.Time
	CompletionDate *time.Time

	// Явный статус присылают только ручные импорты; пайплайн
	// выводит статус из процента и даты завершения.
	Status *domain.AssignmentStatus

	Outcome       string
	RequestSource string
	ISMSImpact    *bool
}

// observationFromStaging разбирает сырые строковые поля staging-записи.
// Непарсящиеся даты и длительности не валят запись: поле остаётся
// пустым, запись идёт дальше.
func observationFromStaging(rec *domain.StagingRecord) Observation {
	var obs Observation

	if rec.RawPercentage != "" {
		if pct, ok := normalize.ParsePercent(rec.RawPercentage); ok {
			obs.Percent = &pct
		} else {
			log.Printf("staging %d: unparseable percentage %q, skipping field", rec.ID, rec.RawPercentage)
		}
	}
	if rec.RawDuration != "" {
		hours := normalize.ParseDuration(rec.RawDuration)
		obs.Hours = &hours
	}
	obs.Rating = rec.Rating
	obs.Skills = strings.Join(normalize.SplitList(rec.Skills), "; ")

	obs.StartDate = parseObservedDate(rec.ID, "start date", rec.RawStartDate)
	obs.CompletionDate = parseObservedDate(rec.ID, "completion date", rec.RawCompletionDate)

	return obs
}

func parseObservedDate(id uint, field, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := normalize.ParseDate(raw)
	if err != nil {
		log.Printf("staging %d: unparseable %s %q, skipping field", id, field, raw)
		return nil
	}
	return &t
}
