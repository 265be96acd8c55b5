package backend

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kedaya2025/FastNav/internal/domain"
)

// SQLSTATE codes the stores care about.
const (
	codeUndefinedTable      = "42P01"
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"

	// PostgREST codes.
	codeSchemaCacheTable = "PGRST205"
	codeNoSingleRow      = "PGRST116"
)

// Classify maps a driver error onto the domain taxonomy. Already classified
// errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if alreadyClassified(err) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return codeError(pgErr.Code, pgErr.Message, pgErr.Detail, err)
	}

	if isConnectionFailure(err) {
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	return &domain.BackendError{Cause: domain.CauseUnknown, Message: err.Error(), Err: err}
}

// IsUniqueViolation reports whether err is a classified unique-key violation.
func IsUniqueViolation(err error) bool {
	var be *domain.BackendError
	return errors.As(err, &be) && be.Code == codeUniqueViolation
}

func alreadyClassified(err error) bool {
	for _, target := range []error{domain.ErrConnection, domain.ErrBackend, domain.ErrNotFound, domain.ErrDuplicateKey, domain.ErrValidation} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isConnectionFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// codeError builds a BackendError from a SQLSTATE or PostgREST code.
func codeError(code, message, detail string, err error) error {
	if code == codeNoSingleRow {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, message)
	}
	be := &domain.BackendError{Cause: domain.CauseUnknown, Code: code, Message: message, Err: err}
	if detail != "" {
		be.Message = message + ": " + detail
	}
	switch code {
	case codeUndefinedTable, codeSchemaCacheTable:
		be.Cause = domain.CauseMissingRelation
		be.Hint = domain.HintInitialize
	case codeUniqueViolation, codeForeignKeyViolation, codeNotNullViolation, codeCheckViolation:
		be.Cause = domain.CauseConstraint
	}
	return be
}
