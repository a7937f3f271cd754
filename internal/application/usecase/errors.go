package usecase

import "fmt"

// ResolutionError — find-or-create не смог вернуть сущность
// (например, гонка на уникальном индексе). Роняет только свою строку,
// а не весь батч.
type ResolutionError struct {
	Entity string
	Key    string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve %s %q: %v", e.Entity, e.Key, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
