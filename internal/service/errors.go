package service

// ValidationError - ошибка валидации входных параметров.
// Хендлеры превращают её в HTTP 400, всё остальное - в 500.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(msg string) error {
	return &ValidationError{Message: msg}
}

// ImportError - ошибка импорта, фатальная для запроса (битый файл,
// проваленная очистка). Тоже отдаётся как HTTP 400 с причиной.
type ImportError struct {
	Message string
}

func (e *ImportError) Error() string {
	return e.Message
}
