package service

import "errors"

// Sentinel errors shared across services. Handlers translate these into
// status codes; nothing here is fatal to the process.
var (
	// not found
	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")

	// validation
	ErrUsernameReserved = errors.New("username 'me' is reserved")
	ErrInvalidUsername  = errors.New("username may contain only letters, digits and @/./+/-/_")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidSlug      = errors.New("slug may contain only letters, digits, hyphens and underscores")
	ErrInvalidRole      = errors.New("role must be one of: user, moderator, admin")
	ErrScoreOutOfRange  = errors.New("score is out of range")
	ErrEmptyGenreList   = errors.New("genre list must not be empty")
	ErrYearInFuture     = errors.New("year must not exceed the current year")
	ErrUnknownGenre     = errors.New("unknown genre slug")
	ErrUnknownCategory  = errors.New("unknown category slug")

	// conflict
	ErrAlreadyReviewed = errors.New("you have already reviewed this title")
	ErrNameInUse       = errors.New("username already in use")
	ErrEmailInUse      = errors.New("email already in use")
	ErrSlugInUse       = errors.New("slug already in use")
	ErrEmailMismatch   = errors.New("email does not match this username")

	// authorization
	ErrForbidden    = errors.New("you don't have permission to perform this action")
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidCode  = errors.New("invalid confirmation code")
)
