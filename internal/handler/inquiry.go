package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"zoho-inquiry-relay/internal/model"
	"zoho-inquiry-relay/pkg/logger"
)

// maxBodyBytes caps the inquiry form body
const maxBodyBytes = 1 << 20

// InquirySubmitter relays one inquiry upstream
type InquirySubmitter interface {
	Submit(ctx context.Context, record model.InquiryRecord) *model.RelayOutcome
}

// InquiryHandler handles inquiry form submissions
type InquiryHandler struct {
	submitter InquirySubmitter
	logger    *logger.Logger
}

// NewInquiryHandler creates a new inquiry handler
func NewInquiryHandler(submitter InquirySubmitter, log *logger.Logger) *InquiryHandler {
	return &InquiryHandler{
		submitter: submitter,
		logger:    log,
	}
}

// SubmitInquiry handles POST /submit-inquiry
func (h *InquiryHandler) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	record, err := decodeRecord(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Warn("Rejected inquiry body", "error", err, "remote_addr", r.RemoteAddr)
		h.sendResponse(w, http.StatusBadRequest, model.InquiryResponse{
			Status:  model.StatusError,
			Message: "invalid JSON body",
		})
		return
	}

	outcome := h.submitter.Submit(r.Context(), record)

	switch outcome.Kind {
	case model.OutcomeSuccess:
		h.sendResponse(w, http.StatusOK, model.InquiryResponse{
			Status:  model.StatusSuccess,
			Message: "Inquiry submitted successfully",
			Data:    outcome.Data,
		})
	case model.OutcomeRejected:
		h.sendResponse(w, http.StatusBadRequest, model.InquiryResponse{
			Status:  model.StatusZohoError,
			Message: "Zoho rejected the inquiry",
			Zoho:    outcome.Remote,
		})
	default:
		message := "Failed to submit inquiry"
		if outcome.Err != nil {
			message = outcome.Err.Error()
		}
		h.sendResponse(w, http.StatusInternalServerError, model.InquiryResponse{
			Status:  model.StatusServerError,
			Message: message,
			Zoho:    outcome.Remote,
		})
	}
}

// decodeRecord reads a JSON object, keeping numbers as json.Number
func decodeRecord(body io.Reader) (model.InquiryRecord, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("empty body")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var record model.InquiryRecord
	if err := dec.Decode(&record); err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.New("body is not a JSON object")
	}
	return record, nil
}

// sendResponse writes a JSON response
func (h *InquiryHandler) sendResponse(w http.ResponseWriter, statusCode int, response model.InquiryResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("Failed to write inquiry response")
	}
}
