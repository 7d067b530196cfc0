package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"zoho-inquiry-relay/internal/middleware"
	"zoho-inquiry-relay/pkg/logger"
)

// NewRouter wires the public routes behind the logging and CORS middleware
func NewRouter(inquiry *InquiryHandler, health *HealthHandler, allowedOrigins []string, log *logger.Logger) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", health.Liveness).Methods(http.MethodGet)
	router.HandleFunc("/health", health.CheckHealth).Methods(http.MethodGet)
	router.HandleFunc("/submit-inquiry", inquiry.SubmitInquiry).Methods(http.MethodPost)

	router.Use(middleware.Logging(log))

	return middleware.CORS(allowedOrigins)(router)
}
