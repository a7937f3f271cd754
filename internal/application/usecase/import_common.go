package usecase

// ImportError — одна ошибка валидации или обработки, привязанная к
// строке запроса (нумерация строк с единицы).
type ImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// ImportOptions — общие флаги массовых импортов. SkipErrors по
// умолчанию включён: одна битая строка не валит весь батч.
type ImportOptions struct {
	SkipErrors     *bool `json:"skipErrors"`
	UpdateExisting bool  `json:"updateExisting"`
}

func (o ImportOptions) skipErrors() bool {
	return o.SkipErrors == nil || *o.SkipErrors
}
