package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// InvalidArgument is returned when an argument or configuration value is malformed.
	InvalidArgument = ErrorKind("Invalid Argument")

	// MissingConfig is returned when a required configuration value is absent.
	MissingConfig = ErrorKind("Missing Configuration")

	// Unsupported is returned when a feature or value is not supported.
	Unsupported = ErrorKind("Unsupported")

	// Unauthorized is returned when a remote service rejects the credentials.
	Unauthorized = ErrorKind("Unauthorized")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
