package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/raunak-choudhary/portfolio-admin/internal/console"
	"github.com/raunak-choudhary/portfolio-admin/internal/schema"
)

func pngData(size int) []byte {
	data := make([]byte, size)
	copy(data, "\x89PNG\r\n\x1a\n")
	return data
}

func TestSession_UploadAttachment_RejectsOversize(t *testing.T) {
	f := newFixture(t, schema.Certifications)
	f.session.EnterAdd()

	// badge_image caps at 5MB.
	data := pngData(6 * 1000 * 1000)
	err := f.session.UploadAttachment(context.Background(), "badge_image", "badge.png", data, nil)
	if !errors.Is(err, console.ErrAttachmentRejected) {
		t.Fatalf("UploadAttachment() error = %v, want ErrAttachmentRejected", err)
	}
	if !strings.Contains(f.session.FieldErrors()["badge_image"], "5MB") {
		t.Errorf("FieldErrors()[badge_image] = %q, want size message", f.session.FieldErrors()["badge_image"])
	}
	if len(f.objects.objects) != 0 {
		t.Error("rejected upload reached storage")
	}
}

func TestSession_UploadAttachment_RejectsDisallowedType(t *testing.T) {
	f := newFixture(t, schema.Certifications)
	f.session.EnterAdd()

	err := f.session.UploadAttachment(context.Background(), "badge_image", "notes.txt", []byte("plain text"), nil)
	if !errors.Is(err, console.ErrAttachmentRejected) {
		t.Fatalf("UploadAttachment() error = %v, want ErrAttachmentRejected", err)
	}
	if !strings.Contains(f.session.FieldErrors()["badge_image"], "not allowed") {
		t.Errorf("FieldErrors()[badge_image] = %q, want type message", f.session.FieldErrors()["badge_image"])
	}
	if len(f.objects.objects) != 0 {
		t.Error("rejected upload reached storage")
	}
}

func TestSession_UploadAttachment_UnknownField(t *testing.T) {
	f := newFixture(t, schema.Certifications)
	f.session.EnterAdd()

	err := f.session.UploadAttachment(context.Background(), "portrait", "p.png", pngData(64), nil)
	if !errors.Is(err, console.ErrUnknownField) {
		t.Errorf("UploadAttachment() error = %v, want ErrUnknownField", err)
	}
}

func TestSession_UploadAttachment_Scalar(t *testing.T) {
	f := newFixture(t, schema.Certifications)
	f.session.EnterAdd()
	f.session.SetField("title", "AWS Certified Cloud Practitioner")

	var progress []int
	err := f.session.UploadAttachment(context.Background(), "badge_image", "badge.png", pngData(64), func(pct int) {
		progress = append(progress, pct)
	})
	if err != nil {
		t.Fatalf("UploadAttachment() error = %v", err)
	}

	url := f.session.FieldValue("badge_image")
	if !strings.HasPrefix(url, testBaseURL+"certifications/aws-certified-cloud-practitioner-") {
		t.Errorf("badge_image URL = %q, want key namespaced by collection and slug", url)
	}
	if !strings.HasSuffix(url, "/badge.png") {
		t.Errorf("badge_image URL = %q, want original filename preserved", url)
	}
	if len(progress) != 3 || progress[0] != 0 || progress[1] != 50 || progress[2] != 100 {
		t.Errorf("progress = %v, want [0 50 100]", progress)
	}
	if !f.session.Dirty() {
		t.Error("Dirty() = false after upload, want true")
	}
}

func TestSession_UploadAttachment_ReplaceReleasesUnsavedObject(t *testing.T) {
	f := newFixture(t, schema.Certifications)
	f.session.EnterAdd()
	f.session.SetField("title", "AWS Certified Cloud Practitioner")

	ctx := context.Background()
	if err := f.session.UploadAttachment(ctx, "badge_image", "first.png", pngData(64), nil); err != nil {
		t.Fatalf("first upload error = %v", err)
	}
	first := f.session.FieldValue("badge_image")

	if err := f.session.UploadAttachment(ctx, "badge_image", "second.png", pngData(64), nil); err != nil {
		t.Fatalf("second upload error = %v", err)
	}

	firstKey, _ := f.objects.KeyFromURL(first)
	if _, stillThere := f.objects.objects[firstKey]; stillThere {
		t.Error("superseded unsaved upload was not released from storage")
	}
	if !strings.HasSuffix(f.session.FieldValue("badge_image"), "/second.png") {
		t.Errorf("badge_image = %q, want the replacement URL", f.session.FieldValue("badge_image"))
	}
}

func TestSession_UploadAttachment_MultiAppends(t *testing.T) {
	f := newFixture(t, schema.Certifications)
	f.session.EnterAdd()
	f.session.SetField("title", "AWS Certified Cloud Practitioner")

	ctx := context.Background()
	for _, name := range []string{"page1.png", "page2.png"} {
		if err := f.session.UploadAttachment(ctx, "certificate_files", name, pngData(64), nil); err != nil {
			t.Fatalf("upload %s error = %v", name, err)
		}
	}

	files := f.session.ListValue("certificate_files")
	if len(files) != 2 {
		t.Fatalf("len(certificate_files) = %d, want 2", len(files))
	}
	if !strings.HasSuffix(files[0], "/page1.png") || !strings.HasSuffix(files[1], "/page2.png") {
		t.Errorf("certificate_files = %v, want uploads in order", files)
	}
}

func TestSession_UploadAttachment_RejectsUnreadablePDF(t *testing.T) {
	f := newFixture(t, schema.Certifications)
	f.session.EnterAdd()

	data := append([]byte("%PDF-1.4"), bytes.Repeat([]byte{0}, 64)...)
	err := f.session.UploadAttachment(context.Background(), "certificate_files", "cert.pdf", data, nil)
	if !errors.Is(err, console.ErrAttachmentRejected) {
		t.Fatalf("UploadAttachment() error = %v, want ErrAttachmentRejected", err)
	}
	if got := f.session.FieldErrors()["certificate_files"]; got != "file is not a readable PDF" {
		t.Errorf("FieldErrors()[certificate_files] = %q, want unreadable PDF message", got)
	}
}

func TestSession_RemoveAttachment_UnpersistedSkipsStorage(t *testing.T) {
	f := newFixture(t, schema.Certifications)
	f.session.EnterAdd()
	f.session.SetField("title", "AWS Certified Cloud Practitioner")

	ctx := context.Background()
	if err := f.session.UploadAttachment(ctx, "badge_image", "badge.png", pngData(64), nil); err != nil {
		t.Fatalf("upload error = %v", err)
	}
	url := f.session.FieldValue("badge_image")
	removedBefore := f.objects.removedCount()

	if err := f.session.RemoveAttachment(ctx, "badge_image", url); err != nil {
		t.Fatalf("RemoveAttachment() error = %v", err)
	}

	if f.confirm.prompts() != 0 {
		t.Errorf("confirm prompts = %d for an unpersisted removal, want 0", f.confirm.prompts())
	}
	if got := f.objects.removedCount(); got != removedBefore {
		t.Errorf("storage removals = %d, want unchanged: unpersisted removal makes no storage call", got)
	}
	if got := f.session.FieldValue("badge_image"); got != "" {
		t.Errorf("badge_image = %q after removal, want empty", got)
	}
}

func TestSession_RemoveAttachment_PersistedConfirmsAndDeletes(t *testing.T) {
	url := testBaseURL + "certifications/aws/badge.png"
	rec := certificationRecord("AWS Certified Cloud Practitioner")
	rec.Fields.SetScalar("badge_image", url)
	f := newFixture(t, schema.Certifications, rec)
	f.objects.objects["certifications/aws/badge.png"] = pngData(64)

	f.session.EnterEdit(rec)
	ctx := context.Background()

	f.confirm.answer = false
	if err := f.session.RemoveAttachment(ctx, "badge_image", url); err != nil {
		t.Fatalf("RemoveAttachment() error = %v", err)
	}
	if got := f.session.FieldValue("badge_image"); got != url {
		t.Errorf("badge_image = %q after declined removal, want unchanged", got)
	}

	f.confirm.answer = true
	if err := f.session.RemoveAttachment(ctx, "badge_image", url); err != nil {
		t.Fatalf("RemoveAttachment() error = %v", err)
	}
	if got := f.session.FieldValue("badge_image"); got != "" {
		t.Errorf("badge_image = %q after confirmed removal, want empty", got)
	}
	if _, stillThere := f.objects.objects["certifications/aws/badge.png"]; stillThere {
		t.Error("persisted object was not deleted from storage")
	}
	if !f.session.Dirty() {
		t.Error("Dirty() = false after removing a persisted attachment, want true")
	}
}
