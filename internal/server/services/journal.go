package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anovikov/journalvault/internal/common"
	"github.com/anovikov/journalvault/internal/cryptox"
	"github.com/anovikov/journalvault/internal/dbx"
	"github.com/anovikov/journalvault/internal/logging"
	"github.com/anovikov/journalvault/internal/server/audit"
	"github.com/anovikov/journalvault/internal/server/keymanager"
	"github.com/anovikov/journalvault/internal/server/models"
	"github.com/anovikov/journalvault/internal/server/policy"
	"github.com/anovikov/journalvault/internal/server/repositories/entries"
	"github.com/anovikov/journalvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// UnreadablePlaceholder is substituted for a content field whose ciphertext
// cannot be decrypted. The read still succeeds so the entry stays
// discoverable even with unrecoverable key material.
const UnreadablePlaceholder = "[content unavailable]"

// wordsPerMinute is the reading-speed constant behind readingTimeMinutes.
const wordsPerMinute = 200

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// JournalService owns the entry lifecycle: it orchestrates the key manager,
// the crypto codec and the audit logger inside transactions, and enforces
// the access policy.
type JournalService struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	keys     *keymanager.Manager
	audit    *audit.Logger
	policy   policy.AccessPolicy
	activity ActivityTracker
	logger   logging.Logger
}

func NewJournalService(
	db *sql.DB,
	rm repomanager.RepositoryManager,
	keys *keymanager.Manager,
	auditLogger *audit.Logger,
	accessPolicy policy.AccessPolicy,
	activity ActivityTracker,
	logger logging.Logger,
) *JournalService {
	return &JournalService{
		db:       db,
		rm:       rm,
		keys:     keys,
		audit:    auditLogger,
		policy:   accessPolicy,
		activity: activity,
		logger:   logger.With("module", "journal_service"),
	}
}

func countWords(plainText string) int {
	return len(strings.Fields(plainText))
}

func readingTime(wordCount int) int {
	return (wordCount + wordsPerMinute - 1) / wordsPerMinute
}

// Create persists a new entry with fresh key material. Entry, emotional
// state, tags and attachment metadata commit in one transaction; the
// activity side effect fires strictly after commit and cannot undo it.
func (s *JournalService) Create(ctx context.Context, p CreateEntryParams) (*EntryView, error) {
	now := time.Now().UTC()

	wc := countWords(p.PlainTextContent)

	entry := &models.JournalEntry{
		ID:                     uuid.NewString(),
		StudentID:              p.StudentID,
		Title:                  p.Title,
		ContentHash:            cryptox.ContentHash(p.Content),
		WordCount:              wc,
		ReadingTimeMinutes:     readingTime(wc),
		PrivacyLevel:           policy.DerivePrivacyLevel(p.IsPrivate, p.IsShareableWithTeacher, p.IsShareableWithParent),
		IsPrivate:              p.IsPrivate,
		IsShareableWithTeacher: p.IsShareableWithTeacher,
		IsShareableWithParent:  p.IsShareableWithParent,
		EncryptionMethod:       keymanager.Algorithm,
		EncryptionVersion:      1,
		CreatedAt:              now,
		UpdatedAt:              now,
		LastEditedAt:           now,
	}

	var attachmentViews []AttachmentView

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		key, err := s.keys.Generate(ctx, tx, p.StudentID)
		if err != nil {
			return err
		}
		material, err := s.keys.Resolve(key.KeyID)
		if err != nil {
			return err
		}
		entry.EncryptionKeyID = key.KeyID

		if entry.EncryptedContent, entry.NonceContent, err = cryptox.Encrypt(p.Content, material); err != nil {
			return err
		}
		if entry.EncryptedPlainText, entry.NoncePlainText, err = cryptox.Encrypt(p.PlainTextContent, material); err != nil {
			return err
		}

		if err := s.rm.Entries(tx).Create(ctx, entry); err != nil {
			return err
		}

		if p.EmotionalState != nil {
			if err := s.insertEmotion(ctx, tx, entry.ID, p.EmotionalState, now); err != nil {
				return err
			}
		}

		if err := s.associateTags(ctx, tx, entry.ID, p.Tags); err != nil {
			return err
		}

		attachRepo := s.rm.Attachments(tx)
		for _, in := range p.Attachments {
			a := &models.Attachment{
				ID:           uuid.NewString(),
				EntryID:      entry.ID,
				FileName:     in.FileName,
				MimeType:     in.MimeType,
				SizeBytes:    in.SizeBytes,
				StorageKey:   in.StorageKey,
				UploadStatus: models.UploadPending,
				CreatedAt:    now,
			}
			if err := attachRepo.Create(ctx, a); err != nil {
				return err
			}
			attachmentViews = append(attachmentViews, attachmentView(a))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	if s.activity != nil {
		if err := s.activity.EntryCreated(ctx, p.StudentID, entry.ID, wc, p.IsPrivate); err != nil {
			s.logger.Warn(ctx, "activity tracking failed", "entry_id", entry.ID, "error", err)
		}
	}

	// The caller just supplied the plaintext, no need to round-trip through
	// decryption.
	view := s.entryView(entry, p.Content, p.PlainTextContent, true)
	if p.EmotionalState != nil {
		view.EmotionalState = emotionViewFromInput(p.EmotionalState)
	}
	view.Tags = normalizeTags(p.Tags)
	view.Attachments = attachmentViews
	return view, nil
}

// GetByID fetches one entry with decrypted content. Absent or soft-deleted
// entries return (nil, nil). A policy denial returns ErrorAccessDenied and
// is itself audited. Decryption failures degrade the affected fields to a
// placeholder instead of failing the read.
func (s *JournalService) GetByID(ctx context.Context, entryID, requestingUserID string, info RequestInfo) (*EntryView, error) {
	entry, err := s.rm.Entries(s.db).GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !s.policy.CanRead(entry, requestingUserID) {
		s.recordAccess(entry.ID, requestingUserID, info, models.AuditActionRead, models.AuditResultDenied, false)
		return nil, common.ErrorAccessDenied
	}

	content, plainText, decryptionOK := s.decryptEntry(ctx, entry)

	emotion, tagNames, attachViews, err := s.loadRelations(ctx, entry.ID)
	if err != nil {
		return nil, err
	}

	s.recordAccess(entry.ID, requestingUserID, info, models.AuditActionRead, models.AuditResultSuccess, decryptionOK)

	view := s.entryView(entry, content, plainText, decryptionOK)
	view.EmotionalState = emotion
	view.Tags = tagNames
	view.Attachments = attachViews
	return view, nil
}

// ListByStudent returns the metadata-only timeline page. Content is never
// decrypted here; that cost is reserved for single-entry reads. Non-owners
// never see private entries regardless of options.
func (s *JournalService) ListByStudent(ctx context.Context, studentID, requestingUserID string, opts ListOptions) (*EntryPage, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	f := entries.Filter{
		StartDate:      opts.StartDate,
		EndDate:        opts.EndDate,
		IncludePrivate: opts.IncludePrivate && requestingUserID == studentID,
		Tags:           opts.Tags,
		Emotions:       opts.Emotions,
		SearchQuery:    opts.SearchQuery,
		SortBy:         opts.SortBy,
		SortOrder:      opts.SortOrder,
		Limit:          limit,
		Offset:         offset,
	}

	repo := s.rm.Entries(s.db)

	var (
		rows  []*models.JournalEntry
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = repo.ListByStudent(gctx, studentID, f)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = repo.CountByStudent(gctx, studentID, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]*EntryListItemView, 0, len(rows))
	for _, e := range rows {
		items = append(items, &EntryListItemView{
			ID:                     e.ID,
			StudentID:              e.StudentID,
			Title:                  e.Title,
			WordCount:              e.WordCount,
			ReadingTimeMinutes:     e.ReadingTimeMinutes,
			PrivacyLevel:           e.PrivacyLevel,
			IsPrivate:              e.IsPrivate,
			IsShareableWithTeacher: e.IsShareableWithTeacher,
			IsShareableWithParent:  e.IsShareableWithParent,
			CreatedAt:              e.CreatedAt,
			UpdatedAt:              e.UpdatedAt,
			LastEditedAt:           e.LastEditedAt,
			PublishedAt:            e.PublishedAt,
		})
	}

	return &EntryPage{
		Entries:    items,
		Total:      total,
		HasMore:    offset+len(items) < total,
		Pagination: Pagination{Limit: limit, Offset: offset},
	}, nil
}

// Update applies a partial update. Only the owner may update. Content
// fields, when supplied, are re-encrypted under the entry's existing key;
// keys are never rotated on update. Emotional state and tags, when supplied,
// are replaced wholesale. lastEditedAt is always bumped.
func (s *JournalService) Update(ctx context.Context, entryID string, p UpdateEntryParams, requestingUserID string, info RequestInfo) (*EntryView, error) {
	entry, err := s.rm.Entries(s.db).GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if entry.StudentID != requestingUserID {
		s.recordAccess(entry.ID, requestingUserID, info, models.AuditActionEdit, models.AuditResultDenied, false)
		return nil, common.ErrorAccessDenied
	}

	now := time.Now().UTC()

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if p.Content != nil || p.PlainTextContent != nil {
			material, err := s.keys.Resolve(entry.EncryptionKeyID)
			if err != nil {
				return err
			}
			if p.Content != nil {
				if entry.EncryptedContent, entry.NonceContent, err = cryptox.Encrypt(*p.Content, material); err != nil {
					return err
				}
				entry.ContentHash = cryptox.ContentHash(*p.Content)
			}
			if p.PlainTextContent != nil {
				if entry.EncryptedPlainText, entry.NoncePlainText, err = cryptox.Encrypt(*p.PlainTextContent, material); err != nil {
					return err
				}
				entry.WordCount = countWords(*p.PlainTextContent)
				entry.ReadingTimeMinutes = readingTime(entry.WordCount)
			}
		}

		if p.Title != nil {
			entry.Title = *p.Title
		}

		if p.IsPrivate != nil || p.IsShareableWithTeacher != nil || p.IsShareableWithParent != nil {
			if p.IsPrivate != nil {
				entry.IsPrivate = *p.IsPrivate
			}
			if p.IsShareableWithTeacher != nil {
				entry.IsShareableWithTeacher = *p.IsShareableWithTeacher
			}
			if p.IsShareableWithParent != nil {
				entry.IsShareableWithParent = *p.IsShareableWithParent
			}
			entry.PrivacyLevel = policy.DerivePrivacyLevel(
				entry.IsPrivate, entry.IsShareableWithTeacher, entry.IsShareableWithParent)
		}

		entry.UpdatedAt = now
		entry.LastEditedAt = now

		if err := s.rm.Entries(tx).Update(ctx, entry); err != nil {
			return err
		}

		if p.EmotionalState != nil {
			if err := s.rm.Emotions(tx).DeleteByEntryID(ctx, entry.ID); err != nil {
				return err
			}
			if err := s.insertEmotion(ctx, tx, entry.ID, p.EmotionalState, now); err != nil {
				return err
			}
		}

		if p.Tags != nil {
			if err := s.rm.Tags(tx).DissociateAll(ctx, entry.ID); err != nil {
				return err
			}
			if err := s.associateTags(ctx, tx, entry.ID, p.Tags); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	s.recordAccess(entry.ID, requestingUserID, info, models.AuditActionEdit, models.AuditResultSuccess, true)

	content, plainText, decryptionOK := s.decryptEntry(ctx, entry)
	if p.Content != nil {
		content = *p.Content
	}
	if p.PlainTextContent != nil {
		plainText = *p.PlainTextContent
	}

	emotion, tagNames, attachViews, err := s.loadRelations(ctx, entry.ID)
	if err != nil {
		return nil, err
	}

	view := s.entryView(entry, content, plainText, decryptionOK)
	view.EmotionalState = emotion
	view.Tags = tagNames
	view.Attachments = attachViews
	return view, nil
}

// Delete soft-deletes an entry, owner-only. The access check reuses GetByID
// semantics, so deleting an already-deleted entry reports false without
// error and a non-owner is denied the same way a private read is.
func (s *JournalService) Delete(ctx context.Context, entryID, requestingUserID string, info RequestInfo) (bool, error) {
	view, err := s.GetByID(ctx, entryID, requestingUserID, info)
	if err != nil {
		return false, err
	}
	if view == nil {
		return false, nil
	}

	if view.StudentID != requestingUserID {
		s.recordAccess(entryID, requestingUserID, info, models.AuditActionDelete, models.AuditResultDenied, false)
		return false, common.ErrorAccessDenied
	}

	if err := s.rm.Entries(s.db).SoftDelete(ctx, entryID, time.Now().UTC()); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// lost a race with another delete, idempotent from the caller's view
			return false, nil
		}
		return false, err
	}

	s.recordAccess(entryID, requestingUserID, info, models.AuditActionDelete, models.AuditResultSuccess, true)
	return true, nil
}

// decryptEntry resolves the entry's key and decrypts both ciphertext fields
// independently. A failure on either field degrades it to the placeholder;
// the read itself never fails on bad key material.
func (s *JournalService) decryptEntry(ctx context.Context, entry *models.JournalEntry) (content, plainText string, ok bool) {
	ok = true
	content, plainText = UnreadablePlaceholder, UnreadablePlaceholder

	material, err := s.keys.Resolve(entry.EncryptionKeyID)
	if err != nil {
		s.logger.Warn(ctx, "key resolution failed", "entry_id", entry.ID, "key_id", entry.EncryptionKeyID, "error", err)
		return content, plainText, false
	}

	if c, err := cryptox.Decrypt(entry.EncryptedContent, entry.NonceContent, material); err != nil {
		s.logger.Warn(ctx, "content decryption failed", "entry_id", entry.ID, "error", err)
		ok = false
	} else {
		content = c
	}

	if t, err := cryptox.Decrypt(entry.EncryptedPlainText, entry.NoncePlainText, material); err != nil {
		s.logger.Warn(ctx, "plain text decryption failed", "entry_id", entry.ID, "error", err)
		ok = false
	} else {
		plainText = t
	}

	return content, plainText, ok
}

// loadRelations fetches the emotional state, tags and attachments
// concurrently. A missing relation is not an error.
func (s *JournalService) loadRelations(ctx context.Context, entryID string) (*EmotionalStateView, []string, []AttachmentView, error) {
	var (
		emotion     *EmotionalStateView
		tagNames    []string
		attachViews []AttachmentView
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		state, err := s.rm.Emotions(s.db).GetByEntryID(gctx, entryID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil
			}
			return err
		}
		emotion = &EmotionalStateView{
			Primary:    state.Primary,
			Intensity:  state.Intensity,
			Confidence: state.Confidence,
			Secondary:  state.Secondary,
			Context:    state.Context,
			MoodBefore: state.MoodBefore,
			MoodAfter:  state.MoodAfter,
			DetectedBy: state.DetectedBy,
		}
		return nil
	})

	g.Go(func() error {
		tagRows, err := s.rm.Tags(s.db).GetByEntryID(gctx, entryID)
		if err != nil {
			return err
		}
		tagNames = make([]string, 0, len(tagRows))
		for _, t := range tagRows {
			tagNames = append(tagNames, t.Name)
		}
		return nil
	})

	g.Go(func() error {
		rows, err := s.rm.Attachments(s.db).GetByEntryID(gctx, entryID)
		if err != nil {
			return err
		}
		attachViews = make([]AttachmentView, 0, len(rows))
		for _, a := range rows {
			attachViews = append(attachViews, attachmentView(a))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return emotion, tagNames, attachViews, nil
}

func (s *JournalService) insertEmotion(ctx context.Context, tx dbx.DBTX, entryID string, in *EmotionalStateInput, now time.Time) error {
	detectedBy := in.DetectedBy
	if detectedBy == "" {
		detectedBy = models.DetectedByManual
	}
	return s.rm.Emotions(tx).Create(ctx, &models.EmotionalState{
		ID:         uuid.NewString(),
		EntryID:    entryID,
		Primary:    in.Primary,
		Intensity:  in.Intensity,
		Confidence: in.Confidence,
		Secondary:  in.Secondary,
		Context:    in.Context,
		MoodBefore: in.MoodBefore,
		MoodAfter:  in.MoodAfter,
		DetectedBy: detectedBy,
		CreatedAt:  now,
	})
}

func (s *JournalService) associateTags(ctx context.Context, tx dbx.DBTX, entryID string, names []string) error {
	tagRepo := s.rm.Tags(tx)
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		tag, err := tagRepo.Upsert(ctx, name)
		if err != nil {
			return err
		}
		if err := tagRepo.Associate(ctx, entryID, tag.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *JournalService) recordAccess(entryID, userID string, info RequestInfo, action, result string, decryptionOK bool) {
	s.audit.Record(audit.Event{
		EntryID:              entryID,
		UserID:               userID,
		UserRole:             info.Role,
		Action:               action,
		Result:               result,
		Source:               info.Source,
		IPAddress:            info.IPAddress,
		UserAgent:            info.UserAgent,
		DecryptionSuccessful: decryptionOK,
	})
}

func (s *JournalService) entryView(e *models.JournalEntry, content, plainText string, decryptionOK bool) *EntryView {
	return &EntryView{
		ID:                     e.ID,
		StudentID:              e.StudentID,
		Title:                  e.Title,
		Content:                content,
		PlainTextContent:       plainText,
		WordCount:              e.WordCount,
		ReadingTimeMinutes:     e.ReadingTimeMinutes,
		PrivacyLevel:           e.PrivacyLevel,
		IsPrivate:              e.IsPrivate,
		IsShareableWithTeacher: e.IsShareableWithTeacher,
		IsShareableWithParent:  e.IsShareableWithParent,
		Tags:                   []string{},
		Attachments:            []AttachmentView{},
		CreatedAt:              e.CreatedAt,
		UpdatedAt:              e.UpdatedAt,
		LastEditedAt:           e.LastEditedAt,
		PublishedAt:            e.PublishedAt,
		EncryptionMetadata: EncryptionMetadata{
			IsEncrypted:          len(e.EncryptedContent) > 0,
			EncryptionMethod:     e.EncryptionMethod,
			EncryptedAt:          e.UpdatedAt,
			KeyID:                e.EncryptionKeyID,
			DecryptionSuccessful: decryptionOK,
		},
	}
}

func attachmentView(a *models.Attachment) AttachmentView {
	return AttachmentView{
		ID:           a.ID,
		FileName:     a.FileName,
		MimeType:     a.MimeType,
		SizeBytes:    a.SizeBytes,
		StorageKey:   a.StorageKey,
		UploadStatus: a.UploadStatus,
	}
}

func emotionViewFromInput(in *EmotionalStateInput) *EmotionalStateView {
	detectedBy := in.DetectedBy
	if detectedBy == "" {
		detectedBy = models.DetectedByManual
	}
	return &EmotionalStateView{
		Primary:    in.Primary,
		Intensity:  in.Intensity,
		Confidence: in.Confidence,
		Secondary:  in.Secondary,
		Context:    in.Context,
		MoodBefore: in.MoodBefore,
		MoodAfter:  in.MoodAfter,
		DetectedBy: detectedBy,
	}
}

func normalizeTags(names []string) []string {
	result := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			result = append(result, name)
		}
	}
	return result
}
