package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/models"
)

type stubCertificateStore struct {
	created  []*models.Certificate
	byNumber map[string]*models.Certificate
	byID     map[int64]*models.Certificate
}

func newStubCertificateStore() *stubCertificateStore {
	return &stubCertificateStore{
		byNumber: make(map[string]*models.Certificate),
		byID:     make(map[int64]*models.Certificate),
	}
}

func (s *stubCertificateStore) Create(_ context.Context, certificate *models.Certificate) error {
	certificate.ID = int64(len(s.created) + 1)
	s.created = append(s.created, certificate)
	s.byNumber[certificate.Number] = certificate
	s.byID[certificate.ID] = certificate
	return nil
}

func (s *stubCertificateStore) GetByID(_ context.Context, id int64) (*models.Certificate, error) {
	if record, ok := s.byID[id]; ok {
		return record, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubCertificateStore) GetByNumber(_ context.Context, number string) (*models.Certificate, error) {
	if record, ok := s.byNumber[number]; ok {
		return record, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubCertificateStore) ListForRecipient(_ context.Context, recipientID int64) ([]models.Certificate, error) {
	out := make([]models.Certificate, 0)
	for _, record := range s.created {
		if record.RecipientID == recipientID {
			out = append(out, *record)
		}
	}
	return out, nil
}

type stubTemplateStore struct {
	saved map[string]map[string]string
}

func newStubTemplateStore() *stubTemplateStore {
	return &stubTemplateStore{saved: make(map[string]map[string]string)}
}

func (s *stubTemplateStore) key(userID int64, variant string) string {
	return fmt.Sprintf("%d/%s", userID, variant)
}

func (s *stubTemplateStore) Save(_ context.Context, userID int64, variant string, form map[string]string) error {
	s.saved[s.key(userID, variant)] = form
	return nil
}

func (s *stubTemplateStore) Get(_ context.Context, userID int64, variant string) (*models.CertificateTemplate, error) {
	form, ok := s.saved[s.key(userID, variant)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &models.CertificateTemplate{UserID: userID, Variant: variant, Form: form}, nil
}

type stubUserStore struct {
	users map[int64]*models.User
}

func (s *stubUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

type recordingStorage struct {
	uploads  int
	failWith error
}

func (r *recordingStorage) UploadObject(_ context.Context, _ []byte, _ string, _ string) (string, error) {
	r.uploads++
	if r.failWith != nil {
		return "", r.failWith
	}
	return "https://storage.example/object", nil
}

func (r *recordingStorage) DeleteObject(_ context.Context, _ string) error { return nil }

func newCertificateServiceForTest(storage StorageService) (*CertificateService, *stubCertificateStore, *stubTemplateStore) {
	certificates := newStubCertificateStore()
	templates := newStubTemplateStore()
	users := &stubUserStore{users: map[int64]*models.User{
		5: {ID: 5, Name: "Aline Uwase", Role: models.RoleLearner},
	}}
	return NewCertificateService(certificates, templates, users, storage), certificates, templates
}

func TestIssueRequiresTrainerOrAdmin(t *testing.T) {
	service, _, _ := newCertificateServiceForTest(nil)

	_, err := service.Issue(context.Background(), models.RoleLearner, IssueCertificateInput{
		RecipientID: 5,
		CourseTitle: "Advanced Web Development",
		TrainerName: "Jean Bosco",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestIssueAssignsNumberAndRecipientName(t *testing.T) {
	service, _, _ := newCertificateServiceForTest(nil)

	record, err := service.Issue(context.Background(), models.RoleTrainer, IssueCertificateInput{
		RecipientID: 5,
		CourseTitle: "  Advanced Web Development ",
		TrainerName: "Jean Bosco",
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if record.Number == "" {
		t.Fatal("expected a generated certificate number")
	}
	if record.RecipientName != "Aline Uwase" {
		t.Fatalf("expected recipient name from user record, got %q", record.RecipientName)
	}
	if record.CourseTitle != "Advanced Web Development" {
		t.Fatalf("expected trimmed course title, got %q", record.CourseTitle)
	}
	if record.IssuedAt.IsZero() {
		t.Fatal("expected issued_at to be set")
	}
}

func TestIssueUnknownRecipient(t *testing.T) {
	service, _, _ := newCertificateServiceForTest(nil)

	_, err := service.Issue(context.Background(), models.RoleAdmin, IssueCertificateInput{
		RecipientID: 404,
		CourseTitle: "Course",
		TrainerName: "Trainer",
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestVerifyMissIsNotFound(t *testing.T) {
	service, _, _ := newCertificateServiceForTest(nil)

	_, err := service.Verify(context.Background(), "no-such-number")
	if !errors.Is(err, ErrCertificateNotFound) {
		t.Fatalf("expected ErrCertificateNotFound, got %v", err)
	}
}

func TestVerifyFindsIssuedCertificate(t *testing.T) {
	service, _, _ := newCertificateServiceForTest(nil)

	issued, err := service.Issue(context.Background(), models.RoleTrainer, IssueCertificateInput{
		RecipientID: 5,
		CourseTitle: "Course",
		TrainerName: "Trainer",
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	found, err := service.Verify(context.Background(), issued.Number)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if found.ID != issued.ID {
		t.Fatalf("expected certificate %d, got %d", issued.ID, found.ID)
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	service, _, _ := newCertificateServiceForTest(nil)
	ctx := context.Background()

	form := map[string]string{
		"title":       "Certificate of Completion",
		"description": "Awarded for completing the program",
	}

	if err := service.SaveTemplate(ctx, 7, "classic", form); err != nil {
		t.Fatalf("SaveTemplate: %v", err)
	}

	loaded, err := service.LoadTemplate(ctx, 7, "classic")
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if !reflect.DeepEqual(loaded.Form, form) {
		t.Fatalf("round trip mismatch: %+v", loaded.Form)
	}

	if _, err := service.LoadTemplate(ctx, 7, "modern"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound for unsaved variant, got %v", err)
	}
}

func TestSaveTemplateRejectsUnknownVariant(t *testing.T) {
	service, _, _ := newCertificateServiceForTest(nil)

	err := service.SaveTemplate(context.Background(), 7, "vintage", map[string]string{"a": "b"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRenderSurvivesStorageFailure(t *testing.T) {
	storage := &recordingStorage{failWith: errors.New("bucket unavailable")}
	service, _, _ := newCertificateServiceForTest(storage)

	issued, err := service.Issue(context.Background(), models.RoleTrainer, IssueCertificateInput{
		RecipientID: 5,
		CourseTitle: "Course",
		TrainerName: "Trainer",
		IssuedAt:    time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rendered, err := service.Render(context.Background(), issued.ID, "award", nil, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(rendered, []byte("\x89PNG")) {
		t.Fatal("expected PNG output")
	}
	if storage.uploads != 1 {
		t.Fatalf("expected one upload attempt, got %d", storage.uploads)
	}
}
