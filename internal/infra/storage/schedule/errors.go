package schedule

import "errors"

var (
	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = errors.New("schedule.repository: staff member not found")

	// ErrExceptionNotFound возвращается, когда исключение расписания не найдено
	ErrExceptionNotFound = errors.New("schedule.repository: schedule exception not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")

	// ErrInvalidRow возвращается, когда строка расписания не проходит нормализацию
	// (неизвестный вид исключения, некорректный день недели или окно)
	ErrInvalidRow = errors.New("schedule.repository: invalid schedule row")
)
