package normalize

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrUnparseableDate = errors.New("unparseable date")

// Порядок важен: сначала варианты с временем, потом голые даты.
var dateTimeLayouts = []string{
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
	"02-01-2006 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006 15:04:05",
}

var dateLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"2006/01/02",
	"2/1/2006",
	"2-1-2006",
}

// Базовая дата табличных серийных номеров. Excel считает дни с 1900-01-01,
// но ошибочно считает 1900 високосным, поэтому для серийных номеров >= 60
// реальная база сдвигается на 1899-12-30.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate пробует известные форматы по порядку, затем интерпретирует
// строку как серийный номер даты из электронной таблицы.
func ParseDate(s string) (time.Time, error) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return time.Time{}, ErrUnparseableDate
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, nil
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.ParseFloat(clean, 64); err == nil && serial >= 0 {
		return serialToDate(serial), nil
	}

	return time.Time{}, ErrUnparseableDate
}

func serialToDate(serial float64) time.Time {
	days := int(serial)
	if days <= 60 {
		// До фантомного 29 февраля 1900 серийные номера отстают на день;
		// сам номер 60 (несуществующее 29.02.1900) схлопывается в 1 марта.
		days++
	}
	return serialEpoch.AddDate(0, 0, days)
}
