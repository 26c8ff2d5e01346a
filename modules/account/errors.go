package account

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/accountkit/pkg/auth"
	"github.com/dmitrymomot/accountkit/pkg/dualtoken"
	"github.com/dmitrymomot/accountkit/pkg/jwt"
	"github.com/dmitrymomot/accountkit/pkg/ledger"
)

var errBadRequest = errors.New("bad request")

type errorMapping struct {
	err    error
	status int
	code   string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{errBadRequest, http.StatusBadRequest, "bad_request"},
	{auth.ErrValidation, http.StatusUnprocessableEntity, "validation_failed"},
	{auth.ErrPasswordMismatch, http.StatusUnprocessableEntity, "password_mismatch"},
	{auth.ErrInvalidRole, http.StatusUnprocessableEntity, "invalid_role"},
	{auth.ErrRoleNotAllowed, http.StatusForbidden, "role_not_allowed"},
	{auth.ErrEmailAlreadyExists, http.StatusConflict, "email_taken"},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{auth.ErrAccountInactive, http.StatusForbidden, "account_inactive"},
	{auth.ErrUserAlreadyActive, http.StatusConflict, "already_active"},
	{auth.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{auth.ErrForbidden, http.StatusForbidden, "forbidden"},
	{dualtoken.ErrInvalidToken, http.StatusBadRequest, "invalid_token"},
	{dualtoken.ErrExpired, http.StatusGone, "token_expired"},
	{ledger.ErrAlreadyUsed, http.StatusGone, "token_used"},
	{jwt.ErrMissingToken, http.StatusUnauthorized, "missing_token"},
	{jwt.ErrExpiredToken, http.StatusUnauthorized, "session_expired"},
	{jwt.ErrInvalidToken, http.StatusUnauthorized, "invalid_session"},
	{jwt.ErrWrongTokenType, http.StatusUnauthorized, "invalid_session"},
}

// classify returns the status and response code of err. Unknown errors are
// internal.
func classify(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}
