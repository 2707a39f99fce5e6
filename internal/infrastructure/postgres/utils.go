package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeOutOfRange          = "22003"
	codeInvalidText         = "22P02"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == codeUniqueViolation
}

// isForeignKeyViolation verifica si un error referencia una fila inexistente (23503).
func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == codeForeignKeyViolation
}

// isOutOfRange verifica si el resultado excede el rango de la columna (22003), p. ej. stock > INTEGER.
func isOutOfRange(err error) bool {
	return pgErrorCode(err) == codeOutOfRange
}

// validID indica si id puede existir en una columna UUID. Un id con otro formato se trata
// como inexistente sin consultar la base, igual que en el almacenamiento en memoria.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// isInvalidID cubre el caso en que el servidor rechaza el texto del parámetro UUID (22P02).
func isInvalidID(err error) bool {
	return pgErrorCode(err) == codeInvalidText
}
