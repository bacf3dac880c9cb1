package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrForeignKeyViolated signals that an insert or update referenced a row
// that does not exist (e.g. an unknown category or author id).
var ErrForeignKeyViolated = errors.New("referenced record does not exist")

// translateConstraint maps driver-level foreign key failures onto
// ErrForeignKeyViolated so services can handle them without knowing which
// database backs the store. Postgres reports SQLSTATE 23503, sqlite a plain
// constraint message.
func translateConstraint(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("%w: %s", ErrForeignKeyViolated, pgErr.ConstraintName)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %v", ErrForeignKeyViolated, err)
	}
	if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return ErrForeignKeyViolated
	}
	return err
}
