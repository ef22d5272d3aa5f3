package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-stock/internal/domain"
)

// Códigos SQLSTATE usados por los adaptadores.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
// Acepta también el código en el texto del error para drivers que no exponen *pgconn.PgError.
func isUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation) ||
		(err != nil && strings.Contains(err.Error(), codeUniqueViolation))
}

// isConflict informa si el error es una carrera perdida que vale la pena reintentar.
// Solo se confía en el SQLSTATE de *pgconn.PgError.
func isConflict(err error) bool {
	return hasCode(err, codeSerializationFailure) ||
		hasCode(err, codeDeadlockDetected) ||
		hasCode(err, codeLockNotAvailable)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// wrapErr envuelve el error con la operación y marca los conflictos con domain.ErrConflict.
func wrapErr(op string, err error) error {
	switch {
	case isConflict(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
	case hasCode(err, codeCheckViolation):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidQuantity, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
