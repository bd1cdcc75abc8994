// Package httpapi exposes the journal subsystem's operations over HTTP. It
// is a thin layer: authentication middleware turns bearer tokens into the
// (userID, role) pair, handlers translate JSON in and out, and all policy
// decisions stay in the services below.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/anovikov/journalvault/internal/logging"
	"github.com/anovikov/journalvault/internal/server/services"
	"github.com/gorilla/mux"
)

type Server struct {
	address     string
	logger      logging.Logger
	journal     *services.JournalService
	attachments *services.AttachmentService
	jwtSecret   []byte
}

func NewServer(address string, l logging.Logger, journal *services.JournalService, attachments *services.AttachmentService, secretKey string) *Server {
	return &Server{
		address:     address,
		logger:      l.With("module", "http_server"),
		journal:     journal,
		attachments: attachments,
		jwtSecret:   []byte(secretKey),
	}
}

// Router wires all routes. Exposed separately so tests can drive handlers
// through httptest without binding a port.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Use(mux.MiddlewareFunc(s.authenticate))

	api.HandleFunc("/journal/entries", s.CreateEntry).Methods(http.MethodPost)
	api.HandleFunc("/journal/entries/{entryId}", s.GetEntry).Methods(http.MethodGet)
	api.HandleFunc("/journal/entries/{entryId}", s.UpdateEntry).Methods(http.MethodPut)
	api.HandleFunc("/journal/entries/{entryId}", s.DeleteEntry).Methods(http.MethodDelete)
	api.HandleFunc("/students/{studentId}/entries", s.ListEntries).Methods(http.MethodGet)

	api.HandleFunc("/journal/attachments/upload-url", s.NewAttachmentUploadURL).Methods(http.MethodPost)
	api.HandleFunc("/journal/attachments/download-url", s.AttachmentDownloadURL).Methods(http.MethodGet)
	api.HandleFunc("/journal/attachments/{id}/uploaded", s.MarkAttachmentUploaded).Methods(http.MethodPost)

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
