// Package core processes registration submission messages.
//
// Each message names one uploaded file of a submission. The service
// handles it in a fixed sequence:
//
//  1. [Message.Validate] rejects malformed messages with [ErrInvalidMessage]
//  2. a [RunLimiter] slot is taken so only a bounded number of files are held
//     in memory at once
//  3. feature flags are resolved into a validation mode
//  4. the file is read from blob storage and parsed against its layout
//  5. the validation phases run and an [event.Outcome] is composed
//  6. the outcome is published to the submission service
//
// # File Level Failures
//
// An empty file, a wrong header or malformed CSV ends the run early with a
// single code (see [FileErrorCode]). The failure is still published.
//
// # Fatal Errors
//
// Any other error is returned from [Service.Process] without publishing.
// The consumer leaves the message uncommitted so it is delivered again.
//
// # Brand and Partner Files
//
// These are checked against the organisation file of the same submission.
// Its location comes from the submission API and it is parsed in identity
// mode to build a [rules.LookupTable]. When the submission has no
// organisation file the cross-file checks are skipped.
package core
