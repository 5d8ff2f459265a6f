package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/spaceboard/internal/domain/apperror"
)

// SQLSTATE codes the repositories translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

// conflictMessages names the unique constraints callers can trip.
var conflictMessages = map[string]string{
	"users_email_key":        "email already in use",
	"spaces_space_key_key":   "space key already exists, please choose a different space name",
	"projects_issue_key_key": "issue key already exists, please choose a different one",
	"issues_issue_id_key":    "issue id already allocated",
	"space_members_pkey":     "user is already a member of this space",
	"project_members_pkey":   "user is already a member of this project",
}

// mapErr converts driver errors into apperror kinds. what names the entity
// for not-found messages.
func mapErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound(what + " not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			if msg, ok := conflictMessages[pgErr.ConstraintName]; ok {
				return apperror.Wrap(apperror.KindConflict, msg, err)
			}
			return apperror.Wrap(apperror.KindConflict, what+" already exists", err)
		case codeForeignKeyViolation:
			return apperror.Wrap(apperror.KindNotFound, "referenced record not found", err)
		case codeCheckViolation:
			return apperror.Wrap(apperror.KindValidation, "invalid "+what+" value", err)
		case codeInvalidText:
			// A malformed UUID can never match a row.
			return apperror.Wrap(apperror.KindNotFound, what+" not found", err)
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperror.Internal("database "+what, err)
}
