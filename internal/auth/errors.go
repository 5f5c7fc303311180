package auth

import "errors"

var (
	// ErrUserNotFound means no reachable partition held a matching
	// email. Deliberately indistinguishable from "the one partition
	// that held it was unreachable".
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials means the email matched but the password
	// did not.
	ErrInvalidCredentials = errors.New("invalid password")

	// ErrMissingEmail means a federated assertion arrived without an
	// email claim.
	ErrMissingEmail = errors.New("federated identity missing email")

	// ErrAccountCreationFailed means the customer store rejected or
	// failed the create call for a first federated login.
	ErrAccountCreationFailed = errors.New("account creation failed")

	// ErrRoleNotEligible means a federated login resolved to a
	// non-Customer account.
	ErrRoleNotEligible = errors.New("role not eligible for federated login")
)
