package console

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/raunak-choudhary/portfolio-admin/internal/storage"
)

// UploadAttachment validates and stores a file for an attachment field,
// writing the returned public URL into the draft. Size and content-type
// violations are local rejections: they record a field-scoped error and
// return ErrAttachmentRejected without any storage call. Progress is
// reported on the 0-100 scale when a callback is provided.
//
// Replacing an upload that was never saved releases the superseded
// object immediately; a persisted attachment is only deleted through the
// confirmed removal flow.
func (s *Session) UploadAttachment(ctx context.Context, field, filename string, data []byte, progress func(int)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.draft == nil {
		return ErrNoDraft
	}

	rule, ok := s.collection.Attachments[field]
	if !ok {
		return ErrUnknownField
	}

	report := func(pct int) {
		if progress != nil {
			progress(pct)
		}
	}

	if int64(len(data)) > rule.MaxBytes() {
		s.draft.errors[field] = fmt.Sprintf("file exceeds %s", rule.MaxSize)
		return ErrAttachmentRejected
	}

	contentType := storage.DetectContentType(filename, data)
	if !rule.Allows(contentType) {
		s.draft.errors[field] = fmt.Sprintf("file type %s is not allowed", contentType)
		return ErrAttachmentRejected
	}

	if contentType == "application/pdf" {
		if _, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration()); err != nil {
			s.draft.errors[field] = "file is not a readable PDF"
			return ErrAttachmentRejected
		}
	}

	report(0)

	key := s.attachmentKeyLocked(filename)
	report(50)

	url, err := s.objects.Put(ctx, key, data)
	if err != nil {
		s.draft.errors[field] = err.Error()
		return fmt.Errorf("upload %s: %w", field, err)
	}

	if rule.Multi {
		s.draft.fields.SetList(field, append(s.draft.fields.List(field), url))
	} else {
		if prior := s.draft.fields.Scalar(field); prior != "" && prior != s.baseline.Scalar(field) {
			s.releaseObjectLocked(ctx, prior)
		}
		s.draft.fields.SetScalar(field, url)
	}

	s.draft.touched = true
	delete(s.draft.errors, field)
	report(100)
	return nil
}

// RemoveAttachment clears an attachment reference from the draft. An
// attachment that was never persisted clears immediately with no storage
// call. A persisted attachment requires confirmation, after which the
// object is deleted from storage; a storage failure is logged and does
// not keep the reference — the field always ends up cleared once the
// removal is confirmed.
func (s *Session) RemoveAttachment(ctx context.Context, field, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.draft == nil {
		return ErrNoDraft
	}

	rule, ok := s.collection.Attachments[field]
	if !ok {
		return ErrUnknownField
	}

	persisted := s.baseline.Scalar(field) == url
	if rule.Multi {
		persisted = slices.Contains(s.baseline.List(field), url)
	}

	if persisted {
		if !s.confirm.Confirm("Remove this file? It will be permanently deleted from storage.") {
			return nil
		}
		s.releaseObjectLocked(ctx, url)
	}

	if rule.Multi {
		items := slices.Clone(s.draft.fields.List(field))
		if i := slices.Index(items, url); i >= 0 {
			s.draft.fields.SetList(field, slices.Delete(items, i, i+1))
		}
	} else if s.draft.fields.Scalar(field) == url {
		s.draft.fields.SetScalar(field, "")
	}

	s.draft.touched = true
	delete(s.draft.errors, field)
	return nil
}

// releaseObjectLocked deletes one stored object by public URL,
// best-effort.
func (s *Session) releaseObjectLocked(ctx context.Context, url string) {
	key, ok := s.objects.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.objects.Remove(ctx, key); err != nil {
		s.logger.Error("storage cleanup failed", "key", key, "error", err)
	}
}

// attachmentKeyLocked builds a collision-resistant storage key namespaced
// by collection and a slug of the draft's human-meaningful field.
func (s *Session) attachmentKeyLocked(filename string) string {
	return storage.ObjectKey(s.collection.Name, s.draft.fields.Scalar(s.collection.SlugField), filename)
}
