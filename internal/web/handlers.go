package web

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/regvalidate/internal/core"
	"github.com/JonMunkholm/regvalidate/internal/validation"
)

// multipartMemory is how much of a multipart form is held in memory before
// parts spill to temporary files.
const multipartMemory = 10 << 20

// handleValidate validates one file and returns the outcome without
// publishing it.
//
// The file is either the raw request body or the "file" part of a multipart
// form. Brand and partner files may carry the organisation file of the same
// submission as an "organisationFile" part. The submitting organisation is
// taken from the organisationId and complianceSchemeId query parameters.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	subType := core.SubmissionSubType(chi.URLParam(r, "subType"))
	if _, ok := subType.RowType(); !ok {
		respondError(w, r, fmt.Errorf("%w: unknown submission sub-type %q", errBadRequest, subType))
		return
	}

	sub, err := submitterFromQuery(r.URL.Query())
	if err != nil {
		respondError(w, r, err)
		return
	}

	if s.cfg.MaxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodySize)
	}

	req := core.ValidateRequest{SubType: subType, Submitter: sub, Body: r.Body}

	if isMultipart(r) {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if !errors.As(err, &tooLarge) {
				err = fmt.Errorf("%w: invalid multipart form: %v", errBadRequest, err)
			}
			respondError(w, r, err)
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, _, err := r.FormFile("file")
		if err != nil {
			respondError(w, r, fmt.Errorf("%w: no file provided", errBadRequest))
			return
		}
		defer file.Close()
		req.Body = file

		org, _, err := r.FormFile("organisationFile")
		switch {
		case err == nil:
			defer org.Close()
			req.OrganisationFile = org
		case !errors.Is(err, http.ErrMissingFile):
			respondError(w, r, fmt.Errorf("%w: organisationFile: %v", errBadRequest, err))
			return
		}
	}

	outcome, err := s.validator.ValidateStream(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// submitterFromQuery reads the optional submitter ids. Present ids must be
// uuids.
func submitterFromQuery(q url.Values) (validation.Submitter, error) {
	sub := validation.Submitter{
		ProducerID:         q.Get("organisationId"),
		ComplianceSchemeID: q.Get("complianceSchemeId"),
	}
	for name, v := range map[string]string{
		"organisationId":     sub.ProducerID,
		"complianceSchemeId": sub.ComplianceSchemeID,
	} {
		if v == "" {
			continue
		}
		if _, err := uuid.Parse(v); err != nil {
			return validation.Submitter{}, fmt.Errorf("%w: %s must be a uuid", errBadRequest, name)
		}
	}
	return sub, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
