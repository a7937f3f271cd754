package normalize

import (
	"log"
	"math"
	"strconv"
	"strings"
)

// ParseDuration конвертирует HH:MM:SS в часы с двумя знаками.
// Длительность — вспомогательная метрика, поэтому мусор на входе
// не роняет строку: возвращаем 0 и пишем в лог.
func ParseDuration(s string) float64 {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return 0
	}

	parts := strings.Split(clean, ":")
	if len(parts) != 3 {
		log.Printf("Could not parse duration: %q", s)
		return 0
	}

	hours, err1 := strconv.ParseFloat(parts[0], 64)
	minutes, err2 := strconv.ParseFloat(parts[1], 64)
	seconds, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		log.Printf("Could not parse duration: %q", s)
		return 0
	}

	return Round2(hours + minutes/60 + seconds/3600)
}

// ParsePercent разбирает строки вида "45%"; значение зажимается в [0,100].
func ParsePercent(s string) (float64, bool) {
	clean := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if clean == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}

	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return Round2(value), true
}

// ParseFlag — строгий разбор булевых токенов ("Sì"/"Si"/"No"/"true"/"false").
// Второе значение false означает токен вне словаря: bulk import
// считает это ошибкой валидации строки.
func ParseFlag(s string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sì", "si", "true":
		return true, true
	case "no", "false":
		return false, true
	default:
		return false, false
	}
}

// SplitList режет список навыков по ";" и ",".
func SplitList(s string) []string {
	return splitAny(s, ";,")
}

// SplitGroups режет колонки членства в группах по ";", "," и "|".
func SplitGroups(s string) []string {
	return splitAny(s, ";,|")
}

func splitAny(s, seps string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	}) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SplitFullName: первый токен — имя, остальное — фамилия.
func SplitFullName(full string) (first, last string) {
	parts := strings.Fields(strings.TrimSpace(full))
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
