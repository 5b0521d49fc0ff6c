package core

// error_messages.go maps parse failures to the file level codes reported to
// the submitter.
//
// # File Errors
//
//	890 - Invalid file headers: the header row is not the expected column
//	      names in the expected order
//	      Errors: ingest.ErrHeaderMismatch
//
//	891 - Empty file: no header at all, or a header with no data rows
//	      Errors: ingest.ErrEmptyFile (the header-only case is detected by
//	      the service after parsing)
//
//	892 - Invalid file format: malformed CSV such as a bad quote or a row
//	      with the wrong number of fields
//	      Errors: *ingest.ParseError
//
// Anything else (blob read failures, unknown row types) has no file level
// code. Those errors are returned to the caller so the message is retried.

import (
	"errors"

	"github.com/JonMunkholm/regvalidate/internal/ingest"
	"github.com/JonMunkholm/regvalidate/internal/rules"
)

type fileErrorMapping struct {
	match func(error) bool
	code  rules.Code
}

// The first match wins.
var fileErrors = []fileErrorMapping{
	{match: func(err error) bool { return errors.Is(err, ingest.ErrEmptyFile) }, code: rules.FileEmpty},
	{match: func(err error) bool { return errors.Is(err, ingest.ErrHeaderMismatch) }, code: rules.InvalidFileHeaders},
	{match: func(err error) bool {
		var pe *ingest.ParseError
		return errors.As(err, &pe)
	}, code: rules.InvalidFileFormat},
}

// FileErrorCode returns the file level code for a parse error. ok is false
// when err is not a file problem and must be treated as fatal.
func FileErrorCode(err error) (code rules.Code, ok bool) {
	if err == nil {
		return "", false
	}
	for _, m := range fileErrors {
		if m.match(err) {
			return m.code, true
		}
	}
	return "", false
}
