package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/anovikov/journalvault/internal/common"
	"github.com/anovikov/journalvault/internal/server/services"
	"github.com/gorilla/mux"
)

// CreateEntry POST /api/journal/entries
func (s *Server) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, _ := requestingUser(r)

	var p services.CreateEntryParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	// Entries are always created on behalf of the authenticated student.
	if p.StudentID == "" {
		p.StudentID = userID
	}
	if p.StudentID != userID {
		writeError(w, http.StatusForbidden, "cannot create entries for another student")
		return
	}

	view, err := s.journal.Create(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// GetEntry GET /api/journal/entries/{entryId}
func (s *Server) GetEntry(w http.ResponseWriter, r *http.Request) {
	userID, _ := requestingUser(r)
	entryID := mux.Vars(r)["entryId"]

	view, err := s.journal.GetByID(r.Context(), entryID, userID, requestInfo(r))
	if err != nil {
		if errors.Is(err, common.ErrorAccessDenied) {
			writeError(w, http.StatusForbidden, "access denied")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if view == nil {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ListEntries GET /api/students/{studentId}/entries
func (s *Server) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, _ := requestingUser(r)
	studentID := mux.Vars(r)["studentId"]

	opts, err := parseListOptions(r, userID == studentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := s.journal.ListByStudent(r.Context(), studentID, userID, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// UpdateEntry PUT /api/journal/entries/{entryId}
func (s *Server) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, _ := requestingUser(r)
	entryID := mux.Vars(r)["entryId"]

	var p services.UpdateEntryParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	view, err := s.journal.Update(r.Context(), entryID, p, userID, requestInfo(r))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "entry not found")
		case errors.Is(err, common.ErrorAccessDenied):
			writeError(w, http.StatusForbidden, "access denied")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// DeleteEntry DELETE /api/journal/entries/{entryId}
func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, _ := requestingUser(r)
	entryID := mux.Vars(r)["entryId"]

	deleted, err := s.journal.Delete(r.Context(), entryID, userID, requestInfo(r))
	if err != nil {
		if errors.Is(err, common.ErrorAccessDenied) {
			writeError(w, http.StatusForbidden, "access denied")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// NewAttachmentUploadURL POST /api/journal/attachments/upload-url
func (s *Server) NewAttachmentUploadURL(w http.ResponseWriter, r *http.Request) {
	userID, _ := requestingUser(r)

	key, url, err := s.attachments.NewUploadURL(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"storageKey": key, "url": url})
}

// AttachmentDownloadURL GET /api/journal/attachments/download-url?key=...
func (s *Server) AttachmentDownloadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing key")
		return
	}

	url, err := s.attachments.DownloadURL(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// MarkAttachmentUploaded POST /api/journal/attachments/{id}/uploaded
func (s *Server) MarkAttachmentUploaded(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.attachments.MarkUploaded(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"uploaded": true})
}

func parseListOptions(r *http.Request, isOwner bool) (services.ListOptions, error) {
	q := r.URL.Query()
	opts := services.ListOptions{
		SearchQuery: q.Get("searchQuery"),
		SortBy:      q.Get("sortBy"),
		SortOrder:   q.Get("sortOrder"),
		// owners see their private entries unless they opt out
		IncludePrivate: isOwner && q.Get("includePrivate") != "false",
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New("invalid limit")
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New("invalid offset")
		}
		opts.Offset = n
	}
	if v := q.Get("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return opts, errors.New("invalid startDate")
		}
		opts.StartDate = &t
	}
	if v := q.Get("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return opts, errors.New("invalid endDate")
		}
		opts.EndDate = &t
	}
	if v := q.Get("tags"); v != "" {
		opts.Tags = strings.Split(v, ",")
	}
	if v := q.Get("emotions"); v != "" {
		opts.Emotions = strings.Split(v, ",")
	}

	return opts, nil
}
