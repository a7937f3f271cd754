package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"trainingplatform/internal/domain"
)

// Фиксированный порядок 19 колонок экспорта LMS.
var csvColumns = []string{
	FieldFullName,
	FieldEmail,
	FieldEmployeeCode,
	FieldContentName,
	FieldProvider,
	FieldContentType,
	FieldContentID,
	FieldDuration,
	FieldPercentage,
	FieldStartDate,
	FieldLastViewDate,
	FieldCompletionDate,
	FieldTotalRatings,
	FieldCompletedRatings,
	FieldSkills,
	FieldParentCourseName,
	FieldParentCourseID,
	FieldInteractionGroups,
	FieldCurrentGroups,
}

// CSVResult — итог разбора одного файла.
type CSVResult struct {
	Records   []*domain.StagingRecord
	Invalid   int // строки без email/названия контента, просто пропущены
	Malformed int // структурно битые строки, учитываются в skip-limit
}

// ParseCSVFile читает файл экспорта. Первая строка — заголовок,
// пропускается. Битых строк больше skipLimit — файл отклоняется целиком.
func ParseCSVFile(path string, skipLimit int) (*CSVResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCSV(f, skipLimit)
}

func ParseCSV(r io.Reader, skipLimit int) (*CSVResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &CSVResult{}
	line := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read error at line %d: %w", line+1, err)
		}
		line++

		// Заголовок
		if line == 1 {
			continue
		}

		if len(row) < len(csvColumns) {
			result.Malformed++
			log.Printf("Malformed CSV row %d: expected %d columns, got %d", line, len(csvColumns), len(row))
			if result.Malformed > skipLimit {
				return nil, fmt.Errorf("too many malformed rows (%d > skip limit %d)", result.Malformed, skipLimit)
			}
			continue
		}

		raw := RawRow{}
		for i, name := range csvColumns {
			raw[name] = row[i]
		}

		record, err := RecordFromRow(raw)
		if err != nil {
			result.Invalid++
			log.Printf("Invalid record skipped at row %d: %v", line, err)
			continue
		}
		result.Records = append(result.Records, record)
	}

	return result, nil
}
