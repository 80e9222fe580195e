package table

import "errors"

// Errors returned by Table operations. Every error wraps one of these, so
// callers can branch with errors.Is.
var (
	// ErrParse is returned when delimited text cannot be split into cells.
	ErrParse = errors.New("malformed delimited text")

	// ErrUnrecognizedInput is returned when constructor arguments match no input shape.
	ErrUnrecognizedInput = errors.New("unrecognized table input")

	// ErrHeaderMismatch is returned when a header declaration disagrees with the column count.
	ErrHeaderMismatch = errors.New("header mismatch")

	// ErrDuplicateColumn is returned when a column name is already taken.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrRowKeyColumn is returned when the row-key column cannot be resolved.
	ErrRowKeyColumn = errors.New("invalid row key column")

	// ErrRowNotFound is returned when a row reference does not resolve.
	ErrRowNotFound = errors.New("row not found")

	// ErrColumnNotFound is returned when a column reference does not resolve.
	ErrColumnNotFound = errors.New("column not found")

	// ErrInvalidRef is returned for references that can never resolve, such as negative positions.
	ErrInvalidRef = errors.New("invalid reference")

	// ErrPayloadShape is returned when row or column data is neither an array,
	// an object, nor a scalar the table can accept.
	ErrPayloadShape = errors.New("invalid payload shape")

	// ErrZipArity is returned when fewer than two sequences are zipped.
	ErrZipArity = errors.New("can't zip one")

	// ErrTooLarge is returned when a change would take a table past its Limits.
	ErrTooLarge = errors.New("table size limit exceeded")

	// ErrFetch is returned when remote text cannot be retrieved.
	ErrFetch = errors.New("fetch failed")
)
