package service

import (
	"context"
	"errors"

	"zoho-inquiry-relay/internal/model"
	"zoho-inquiry-relay/pkg/logger"
)

// InquiryService relays inquiry submissions to Zoho Creator
type InquiryService struct {
	tokens TokenProvider
	zoho   *ZohoService
	logger *logger.Logger
}

// NewInquiryService creates a new inquiry service
func NewInquiryService(tokens TokenProvider, zoho *ZohoService, log *logger.Logger) *InquiryService {
	return &InquiryService{
		tokens: tokens,
		zoho:   zoho,
		logger: log,
	}
}

// Submit forwards one inquiry and classifies the result. It never retries.
func (s *InquiryService) Submit(ctx context.Context, record model.InquiryRecord) *model.RelayOutcome {
	log := s.logger
	if requestID, ok := logger.RequestIDFromContext(ctx); ok {
		log = log.WithRequestID(requestID)
	}

	token, err := s.tokens.GetValidToken(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to obtain Zoho access token")
		outcome := &model.RelayOutcome{Kind: model.OutcomeServerError, Err: err}
		var refreshErr *TokenRefreshError
		if errors.As(err, &refreshErr) {
			outcome.Remote = refreshErr.Body
		}
		return outcome
	}

	payload := model.BuildPayload(record)

	result, err := s.zoho.AddRecord(ctx, token, payload)
	if err != nil {
		log.WithError(err).Error("Failed to forward inquiry")
		return &model.RelayOutcome{Kind: model.OutcomeServerError, Err: err}
	}

	if result.Accepted() {
		log.Info("Inquiry accepted", "code", result.Code)
		return &model.RelayOutcome{
			Kind:   model.OutcomeSuccess,
			Data:   result.Data,
			Remote: result.Raw,
		}
	}

	rejection := &RemoteRejection{
		Code:    result.Code,
		Message: result.Message,
		Body:    result.Raw,
	}
	log.Warn("Inquiry rejected by Zoho", "code", result.Code, "message", result.Message)

	return &model.RelayOutcome{
		Kind:   model.OutcomeRejected,
		Remote: result.Raw,
		Err:    rejection,
	}
}
