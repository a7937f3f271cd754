package normalize

import (
	"fmt"
	"strings"

	"trainingplatform/internal/domain"
)

// Упорядоченный матчер синонимов статуса. Сначала человеческие варианты,
// в конце — прямое сравнение с именем значения enum.
var statusRules = []struct {
	tokens []string
	status domain.AssignmentStatus
}{
	{[]string{"da iniziare", "da_iniziare"}, domain.StatusNotStarted},
	{[]string{"in corso", "in_corso"}, domain.StatusInProgress},
	{[]string{"terminato", "completato", "finito"}, domain.StatusCompleted},
	{[]string{"interrotto", "sospeso", "annullato"}, domain.StatusInterrupted},
}

var statusNames = []domain.AssignmentStatus{
	domain.StatusNotStarted,
	domain.StatusInProgress,
	domain.StatusCompleted,
	domain.StatusInterrupted,
}

func ParseStatus(s string) (domain.AssignmentStatus, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	if token == "" {
		return "", fmt.Errorf("empty status")
	}

	for _, rule := range statusRules {
		for _, t := range rule.tokens {
			if token == t {
				return rule.status, nil
			}
		}
	}

	for _, name := range statusNames {
		if strings.EqualFold(token, string(name)) {
			return name, nil
		}
	}

	return "", fmt.Errorf("unrecognized status: %q", s)
}
