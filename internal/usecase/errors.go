package usecase

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every input-validation failure. All
// specific validation errors wrap it, so callers can match either the
// category or the exact failure.
var ErrValidation = errors.New("invalid input")

var (
	ErrEmailPasswordRequired = fmt.Errorf("%w: email and password cannot be empty", ErrValidation)
	ErrEmailInvalid          = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrPasswordTooShort      = fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	ErrNameRequired          = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrIDTokenRequired       = fmt.Errorf("%w: ID token cannot be empty", ErrValidation)
	ErrUserIDRequired        = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrGenreRequired         = fmt.Errorf("%w: genre cannot be empty", ErrValidation)
	ErrQueryRequired         = fmt.Errorf("%w: search query cannot be empty", ErrValidation)
	ErrQueryTooShort         = fmt.Errorf("%w: search query must be at least 2 characters", ErrValidation)
	ErrBookIDRequired        = fmt.Errorf("%w: book ID cannot be empty", ErrValidation)
	ErrBookInvalid           = fmt.Errorf("%w: book data is invalid", ErrValidation)
)
