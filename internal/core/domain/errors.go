package domain

import "errors"

// Business errors. Messages are part of the HTTP contract.
var (
	ErrEmailAlreadyExists    = errors.New("Email already exists")
	ErrInvalidCredentials    = errors.New("Invalid credentials")
	ErrInvalidToken          = errors.New("Invalid token")
	ErrUserNotFound          = errors.New("User not found")
	ErrCategoryAlreadyExists = errors.New("Category already exists")
)

// Storage failure kinds carried by DatabaseError.
var (
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrNoRowsAffected      = errors.New("no rows affected")
)

// DatabaseError wraps a storage driver failure. Kind is one of the storage
// failure kinds above, or nil when the failure is not classified.
type DatabaseError struct {
	Kind error
	Err  error
}

func (e *DatabaseError) Error() string {
	switch {
	case e.Err != nil:
		return "database: " + e.Err.Error()
	case e.Kind != nil:
		return "database: " + e.Kind.Error()
	default:
		return "database error"
	}
}

func (e *DatabaseError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// HashingError reports that the password hashing primitive could not run.
type HashingError struct {
	Err error
}

func (e *HashingError) Error() string {
	return "hashing: " + e.Err.Error()
}

func (e *HashingError) Unwrap() error {
	return e.Err
}
