package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/regvalidate/internal/directory"
	"github.com/JonMunkholm/regvalidate/internal/event"
	"github.com/JonMunkholm/regvalidate/internal/featureflag"
	"github.com/JonMunkholm/regvalidate/internal/ingest"
	"github.com/JonMunkholm/regvalidate/internal/logging"
	"github.com/JonMunkholm/regvalidate/internal/rules"
	"github.com/JonMunkholm/regvalidate/internal/schema"
	"github.com/JonMunkholm/regvalidate/internal/submission"
	"github.com/JonMunkholm/regvalidate/internal/validation"
)

// BlobStore opens uploaded files.
type BlobStore interface {
	Open(ctx context.Context, container, name string) (io.ReadCloser, error)
}

// Publisher delivers the outcome of a run.
type Publisher interface {
	Publish(ctx context.Context, ev event.SubmissionEvent) error
}

// OrganisationFiles finds the organisation file of a submission.
type OrganisationFiles interface {
	GetOrganisationFileDetails(ctx context.Context, submissionID string) (*submission.OrganisationFileDetails, error)
}

// Metrics receives run level measurements. *obs.Metrics implements it.
type Metrics interface {
	validation.Observer
	ObserveRun(eventType string, valid bool, rows int, seconds float64)
	FileError(code string)
}

type nopMetrics struct{}

func (nopMetrics) PhaseErrors(string, int)               {}
func (nopMetrics) CrossReferenceDegraded(string)         {}
func (nopMetrics) ObserveRun(string, bool, int, float64) {}
func (nopMetrics) FileError(string)                      {}

// Deps are the collaborators of a Service. Directory may be nil when
// cross-reference is never enabled; Metrics may be nil.
type Deps struct {
	Blobs             BlobStore
	Publisher         Publisher
	OrganisationFiles OrganisationFiles
	Directory         directory.Directory
	Flags             featureflag.Provider
	Metrics           Metrics
}

// Settings holds the configured values of a Service.
type Settings struct {
	// Container is the blob container submitted files live in.
	Container string

	// ErrorLimit is the column error budget per run.
	ErrorLimit int

	MaxConcurrent int
	MaxWait       time.Duration
}

// Service runs the validation pipeline for one message at a time per slot:
// download, parse, validate, compose the outcome, publish.
type Service struct {
	deps     Deps
	settings Settings
	parser   *ingest.Parser
	limiter  *RunLimiter
	now      func() time.Time
}

// DefaultFlags is used when Deps.Flags is nil: row rules on, no
// cross-reference, status leaver codes. It matches validation.DefaultMode.
func DefaultFlags() featureflag.Static {
	return featureflag.Static{featureflag.RowValidation: true}
}

// NewService creates a service.
func NewService(deps Deps, settings Settings) *Service {
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	if deps.Flags == nil {
		deps.Flags = DefaultFlags()
	}
	return &Service{
		deps:     deps,
		settings: settings,
		parser:   ingest.NewParser(schema.Default()),
		limiter:  NewRunLimiter(settings.MaxConcurrent, settings.MaxWait),
		now:      time.Now,
	}
}

// Limiter exposes the run limiter for health output and shutdown.
func (s *Service) Limiter() *RunLimiter { return s.limiter }

// Process validates the file a message points at and publishes the outcome.
//
// File problems (empty, bad header, malformed CSV) become failure outcomes
// and are published like any other. A returned error means the outcome was
// not published; ErrInvalidMessage marks messages that will never succeed.
func (s *Service) Process(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	rt, _ := msg.SubmissionSubType.RowType()

	if err := s.limiter.Acquire(ctx); err != nil {
		return fmt.Errorf("acquire run slot: %w", err)
	}
	defer s.limiter.Release()

	ctx = logging.WithSubmissionID(ctx, msg.SubmissionID)
	logger := logging.WithFields(ctx, "sub_type", msg.SubmissionSubType, "blob", msg.BlobName)
	start := s.now()

	v, err := s.validator(ctx)
	if err != nil {
		return err
	}

	rc, err := s.deps.Blobs.Open(ctx, s.settings.Container, msg.BlobName)
	if err != nil {
		return fmt.Errorf("open submitted file: %w", err)
	}
	defer rc.Close()

	var lookup func(context.Context) (rules.LookupTable, error)
	if rt != schema.Organisation {
		lookup = func(ctx context.Context) (rules.LookupTable, error) {
			return s.organisationLookup(ctx, msg.SubmissionID)
		}
	}

	outcome, rows, err := s.run(ctx, v, rt, rc, msg.Submitter(), lookup)
	if err != nil {
		return err
	}

	ev := outcome.Event(msg.SubmissionID, msg.UserID, event.Blob{Name: msg.BlobName, Container: s.settings.Container})
	if err := s.deps.Publisher.Publish(ctx, ev); err != nil {
		return err
	}

	elapsed := s.now().Sub(start)
	s.deps.Metrics.ObserveRun(string(outcome.Type), outcome.IsValid, rows, elapsed.Seconds())
	logger.Info("validation run finished",
		"type", outcome.Type,
		"is_valid", outcome.IsValid,
		"rows", rows,
		"row_errors", len(outcome.ValidationErrors),
		"codes", len(outcome.Errors),
		"requires_brands", outcome.RequiresBrandsFile,
		"requires_partnerships", outcome.RequiresPartnershipsFile,
		"duration_ms", elapsed.Milliseconds(),
	)
	return nil
}

// ValidateRequest is a synchronous validation of an in-memory file.
type ValidateRequest struct {
	SubType   SubmissionSubType
	Body      io.Reader
	Submitter validation.Submitter

	// OrganisationFile, when set for a brand or partner file, is read to
	// build the cross-file lookup table.
	OrganisationFile io.Reader
}

// ValidateStream runs the pipeline on req.Body and returns the outcome
// without publishing it.
func (s *Service) ValidateStream(ctx context.Context, req ValidateRequest) (event.Outcome, error) {
	rt, ok := req.SubType.RowType()
	if !ok {
		return event.Outcome{}, fmt.Errorf("%w: submissionSubType %q", ErrInvalidMessage, req.SubType)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return event.Outcome{}, fmt.Errorf("acquire run slot: %w", err)
	}
	defer s.limiter.Release()

	v, err := s.validator(ctx)
	if err != nil {
		return event.Outcome{}, err
	}

	var lookup func(context.Context) (rules.LookupTable, error)
	if rt != schema.Organisation {
		lookup = func(ctx context.Context) (rules.LookupTable, error) {
			if req.OrganisationFile == nil {
				return nil, nil
			}
			return s.lookupFrom(ctx, req.OrganisationFile)
		}
	}

	outcome, rows, err := s.run(ctx, v, rt, req.Body, req.Submitter, lookup)
	if err != nil {
		return event.Outcome{}, err
	}
	logging.FromContext(ctx).Info("stream validated",
		"type", outcome.Type, "is_valid", outcome.IsValid, "rows", rows)
	return outcome, nil
}

func (s *Service) validator(ctx context.Context) (*validation.Validator, error) {
	mode, err := featureflag.Mode(ctx, s.deps.Flags, s.settings.ErrorLimit)
	if err != nil {
		return nil, fmt.Errorf("resolve validation mode: %w", err)
	}
	return validation.New(mode, s.deps.Directory,
		validation.WithObserver(s.deps.Metrics),
		validation.WithClock(s.now),
	), nil
}

// run parses r and validates it. It returns the outcome and the number of
// data rows read.
func (s *Service) run(
	ctx context.Context,
	v *validation.Validator,
	rt schema.RowType,
	r io.Reader,
	sub validation.Submitter,
	lookup func(context.Context) (rules.LookupTable, error),
) (event.Outcome, int, error) {
	typ := event.TypeFor(rt)

	res, err := s.parser.Parse(r, rt, ingest.ModeFull)
	if err != nil {
		code, ok := FileErrorCode(err)
		if !ok {
			return event.Outcome{}, 0, fmt.Errorf("parse %s file: %w", rt, err)
		}
		return s.fail(ctx, typ, code, err), 0, nil
	}
	if len(res.Rows) == 0 {
		return s.fail(ctx, typ, rules.FileEmpty, errors.New("header only")), 0, nil
	}

	rows := res.Rows
	logging.FromContext(ctx).Debug("file parsed", "row_type", rt, "rows", len(rows), "bytes", res.BytesRead)

	switch rt {
	case schema.Organisation:
		errs, err := v.ValidateOrganisations(ctx, rows, sub)
		if err != nil {
			return event.Outcome{}, len(rows), err
		}
		return event.NewRegistration(rows, errs), len(rows), nil

	default:
		table, err := lookup(ctx)
		if err != nil {
			return event.Outcome{}, len(rows), err
		}
		var errs []rules.ValidationError
		if rt == schema.Brand {
			errs = v.ValidateBrands(ctx, rows, table)
		} else {
			errs = v.ValidatePartners(ctx, rows, table)
		}
		return event.NewAppendedFile(typ, errs), len(rows), nil
	}
}

func (s *Service) fail(ctx context.Context, typ event.Type, code rules.Code, cause error) event.Outcome {
	logging.FromContext(ctx).Info("file rejected", "type", typ, "code", code, "reason", cause)
	s.deps.Metrics.FileError(string(code))
	return event.NewFailure(typ, code)
}

// organisationLookup builds the lookup table from the submission's
// organisation file. No file, or one that no longer parses, gives an empty
// table and the cross-file checks are skipped.
func (s *Service) organisationLookup(ctx context.Context, submissionID string) (rules.LookupTable, error) {
	if s.deps.OrganisationFiles == nil {
		return nil, nil
	}
	details, err := s.deps.OrganisationFiles.GetOrganisationFileDetails(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("organisation file details: %w", err)
	}
	if details == nil {
		logging.FromContext(ctx).Warn("no organisation file for submission, cross-file checks skipped")
		return nil, nil
	}

	container := details.BlobContainerName
	if container == "" {
		container = s.settings.Container
	}
	rc, err := s.deps.Blobs.Open(ctx, container, details.BlobName)
	if err != nil {
		return nil, fmt.Errorf("open organisation file: %w", err)
	}
	defer rc.Close()
	return s.lookupFrom(ctx, rc)
}

func (s *Service) lookupFrom(ctx context.Context, r io.Reader) (rules.LookupTable, error) {
	res, err := s.parser.Parse(r, schema.Organisation, ingest.ModeIdentity)
	if err != nil {
		if _, ok := FileErrorCode(err); ok {
			logging.FromContext(ctx).Warn("organisation file unreadable, cross-file checks skipped", "error", err)
			return nil, nil
		}
		return nil, fmt.Errorf("parse organisation file: %w", err)
	}
	return rules.BuildLookup(res.Rows), nil
}
