package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки уровня предметной области. Операции возвращают их обёрнутыми через
// fmt.Errorf("…: %w"), поэтому обработчики проверяют errors.Is и переводят
// в HTTP-статусы.
var (
	// ErrInvalidInput — отсутствующий идентификатор, нулевая или
	// отрицательная сумма, перевод копилки самой в себя.
	ErrInvalidInput = errors.New("некорректные входные данные")
	// ErrNotFound — запись не существует или принадлежит другому пользователю.
	ErrNotFound = errors.New("запись не найдена")
	// ErrInactiveBox — операция над мягко удалённой копилкой.
	ErrInactiveBox = errors.New("копилка неактивна")
	// ErrInsufficientFunds — запрошенная сумма больше доступного остатка.
	ErrInsufficientFunds = errors.New("недостаточно средств")
	// ErrConflict — удаление копилки с ненулевым балансом или активными
	// привязками.
	ErrConflict = errors.New("операция конфликтует с текущим состоянием данных")
	// ErrNotPermitted — фиксированный запрет, не зависящий от состояния.
	ErrNotPermitted = errors.New("операция запрещена")
)

// isForeignKeyViolation распознаёт нарушение внешнего ключа, которым база
// страхует запреты на удаление записей с историей.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
