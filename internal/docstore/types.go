package docstore

import (
	"encoding/json"
	"time"

	"github.com/five82/cadre/internal/program"
)

// Document is one stored document as returned by the list endpoint.
type Document struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Snapshot converts the document into its gateway representation.
func (d Document) Snapshot() program.Snapshot {
	return program.Snapshot{ID: d.ID, Data: d.Fields}
}

// ListResponse mirrors the list endpoint payload.
type ListResponse struct {
	Documents []Document `json:"documents"`
}

// CreateRequest is the body posted to create a document.
type CreateRequest struct {
	Fields CreateFields `json:"fields"`
}

// CreateFields is the stored form of a draft.
type CreateFields struct {
	Title                 string            `json:"title"`
	CreatedAt             program.Timestamp `json:"createdAt"`
	PrerequisiteProgramID string            `json:"prerequisiteProgramId,omitempty"`
	TraineeCount          int               `json:"traineeCount"`
	DurationInWeeks       int               `json:"durationInWeeks"`
}

func newCreateRequest(d program.Draft) CreateRequest {
	created := d.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return CreateRequest{Fields: CreateFields{
		Title:                 d.Title,
		CreatedAt:             program.TimestampOf(created),
		PrerequisiteProgramID: d.PrerequisiteProgramID,
		TraineeCount:          d.TraineeCount,
		DurationInWeeks:       d.DurationInWeeks,
	}}
}

// CreateResponse mirrors the create endpoint payload.
type CreateResponse struct {
	ID string `json:"id"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failure. Details are set for validation errors.
type ErrorBody struct {
	Type    string          `json:"type"`
	Message string          `json:"message"`
	Details []program.Issue `json:"details"`
}

// validationError converts a validation body into the program error type.
// ok is false for any other error type.
func (b ErrorBody) validationError() (*program.ValidationError, bool) {
	if b.Type != "validation" || len(b.Details) == 0 {
		return nil, false
	}
	return &program.ValidationError{Issues: b.Details}, true
}

func decodeErrorBody(raw []byte) (ErrorBody, bool) {
	var payload ErrorResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ErrorBody{}, false
	}
	return payload.Error, payload.Error.Type != "" || payload.Error.Message != ""
}
