package parser

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"trainingplatform/internal/domain"
)

// JSONResult — итог разбора одного промежуточного JSON-файла.
type JSONResult struct {
	Records []*domain.StagingRecord
	Invalid int
}

// ParseJSONFile читает массив объектов с внешними именами полей
// и прогоняет каждый через таблицу алиасов.
func ParseJSONFile(path string) (*JSONResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJSON(data)
}

func ParseJSON(data []byte) (*JSONResult, error) {
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("invalid json payload: %w", err)
	}

	result := &JSONResult{}
	for i, raw := range rows {
		record, err := RecordFromRow(MapRow(raw))
		if err != nil {
			result.Invalid++
			log.Printf("Invalid record skipped at index %d: %v", i, err)
			continue
		}
		result.Records = append(result.Records, record)
	}
	return result, nil
}
