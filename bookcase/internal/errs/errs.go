package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	ErrEmptyQuery         = errors.New("Search query is required")
	ErrCatalogUnavailable = errors.New("Failed to search books. Please try again.")
	ErrOpenLibraryID      = errors.New("Book data with open_library_id is required")
	ErrInvalidStatus      = errors.New("Invalid status")
	ErrNegativePage       = errors.New("current_page must not be negative")
	ErrEmptyRatings       = errors.New("At least one rating is required")
	ErrInvalidRating      = errors.New("rating must be between 0.5 and 5.0 in 0.5 steps")
	ErrInvalidSession     = errors.New("pages and duration must not be negative")
	ErrInvalidDate        = errors.New("session_date must be formatted as YYYY-MM-DD")
	ErrInvalidDays        = errors.New("days must be between 1 and 3650")
	ErrInvalidLimit       = errors.New("limit must be a positive integer")
	ErrInvalidGoal        = errors.New("goals must not be negative")
	ErrBioTooLong         = errors.New("bio must be at most 500 characters")

	ErrRegistrationForbidden = errors.New("Invalid registration password. This is a private BookCase instance.")
	ErrRegisterFields        = errors.New("Username, email, and password are required.")
	ErrLoginFields           = errors.New("Username and password are required.")
	ErrUsernameTaken         = errors.New("Username already exists.")
	ErrEmailTaken            = errors.New("Email already registered.")
	ErrInvalidCredentials    = errors.New("Invalid username or password.")
)

// ConflictError is returned when the book is already in the user's library.
type ConflictError struct {
	CurrentStatus string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Book is already in your library (%s)", e.CurrentStatus)
}

// IsValidation reports whether err should be answered with 400.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrEmptyQuery, ErrOpenLibraryID, ErrInvalidStatus, ErrNegativePage,
		ErrEmptyRatings, ErrInvalidRating, ErrInvalidSession, ErrInvalidDate, ErrInvalidDays, ErrInvalidLimit,
		ErrInvalidGoal, ErrBioTooLong, ErrRegisterFields, ErrLoginFields, ErrUsernameTaken, ErrEmailTaken,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
