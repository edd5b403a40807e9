package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrAccountNotFound indicates that an account with the given ID does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrImportNotFound indicates that a cached import result does not exist or has expired.
	ErrImportNotFound = errors.New("import not found")
)

// Statement processing errors.
var (
	// ErrUnsupportedFileType indicates a file extension other than .csv or .xlsx.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrMissingColumn indicates a lookup of a normalized column that the row does not carry.
	ErrMissingColumn = errors.New("missing column")

	// ErrInvalidNumber indicates a numeric cell that cannot be parsed.
	ErrInvalidNumber = errors.New("invalid number")

	// ErrInvalidDate indicates a date cell that cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrStaleSelection indicates that the result belongs to a superseded file/account selection.
	ErrStaleSelection = errors.New("selection superseded by a newer import")
)

// Business logic errors represent validation failures or constraint violations.
var (
	ErrEmptyID            = errors.New("ID cannot be empty")
	ErrInvalidAccountName = errors.New("account name is required")
	ErrInvalidBroker      = errors.New("broker is required")
	ErrInvalidCurrency    = errors.New("currency must be a 3-letter ISO 4217 code")
	ErrNothingToCommit    = errors.New("import contains no transactions")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveAccounts   = errors.New("failed to retrieve accounts")
	ErrFailedToRetrieveAccount    = errors.New("failed to retrieve account")
	ErrFailedToCreateAccount      = errors.New("failed to create account")
	ErrFailedToRetrieveActivities = errors.New("failed to retrieve activities")
	ErrFailedToRetrieveConfigs    = errors.New("failed to retrieve configs")
	ErrFailedToSaveConfigs        = errors.New("failed to save configs")
	ErrFailedToProcessStatement   = errors.New("failed to process statement")
	ErrFailedToRetrieveImport     = errors.New("failed to retrieve import")
	ErrFailedToCommitImport       = errors.New("failed to commit import")
	ErrFailedToGetVersionInfo     = errors.New("failed to get version information")
)

// ParseErrorType classifies a tabular decoding failure.
type ParseErrorType string

const (
	ParseErrorFile   ParseErrorType = "File"
	ParseErrorHeader ParseErrorType = "Header"
	ParseErrorRow    ParseErrorType = "Row"
	ParseErrorSheet  ParseErrorType = "Sheet"
)

// ParseError is returned by the tabular reader when a file cannot be decoded
// or its header row is not acceptable.
type ParseError struct {
	Type      ParseErrorType `json:"type"`
	Message   string         `json:"message"`
	Row       int            `json:"row"`
	SheetName string         `json:"sheetName,omitempty"`
	Err       error          `json:"-"`
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StructuralError aborts the import of a whole file: wrong extension for the
// broker, empty file, missing required columns or unsupported sheet content.
type StructuralError struct {
	Message string
}

func (e *StructuralError) Error() string {
	return e.Message
}

// NewStructuralError formats a StructuralError.
func NewStructuralError(format string, args ...any) *StructuralError {
	return &StructuralError{Message: fmt.Sprintf(format, args...)}
}

// ConfigurationError lists every symbol mapping that the user has to add
// before the statement can be imported.
type ConfigurationError struct {
	Broker  string
	Missing []string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Missing symbol mappings for %s funds:", e.Broker)
	for _, name := range e.Missing {
		b.WriteString("\n- ")
		b.WriteString(name)
	}
	return b.String()
}

// NoProcessorError is returned when the account's broker has no registered
// processor, or the registered processor declines the file.
type NoProcessorError struct {
	Broker string
}

func (e *NoProcessorError) Error() string {
	return fmt.Sprintf("Support for %s broker hasn't been added yet.", e.Broker)
}

// IsUserFacing reports whether err belongs to the statement error taxonomy
// whose message is shown verbatim to the user.
func IsUserFacing(err error) bool {
	var parseErr *ParseError
	var structuralErr *StructuralError
	var configErr *ConfigurationError
	var noProcessorErr *NoProcessorError
	return errors.As(err, &parseErr) ||
		errors.As(err, &structuralErr) ||
		errors.As(err, &configErr) ||
		errors.As(err, &noProcessorErr) ||
		errors.Is(err, ErrUnsupportedFileType)
}
