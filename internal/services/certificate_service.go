package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/certificate"
	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/models"
)

var (
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrTemplateNotFound    = errors.New("template not found")
)

type certificateStore interface {
	Create(ctx context.Context, certificate *models.Certificate) error
	GetByID(ctx context.Context, id int64) (*models.Certificate, error)
	GetByNumber(ctx context.Context, number string) (*models.Certificate, error)
	ListForRecipient(ctx context.Context, recipientID int64) ([]models.Certificate, error)
}

type templateStore interface {
	Save(ctx context.Context, userID int64, variant string, form map[string]string) error
	Get(ctx context.Context, userID int64, variant string) (*models.CertificateTemplate, error)
}

type CertificateService struct {
	certificateRepo certificateStore
	templateRepo    templateStore
	userRepo        userReader
	storage         StorageService
	log             *logrus.Entry
}

func NewCertificateService(
	certificateRepo certificateStore,
	templateRepo templateStore,
	userRepo userReader,
	storage StorageService,
) *CertificateService {
	return &CertificateService{
		certificateRepo: certificateRepo,
		templateRepo:    templateRepo,
		userRepo:        userRepo,
		storage:         storage,
		log:             logrus.WithField("component", "certificate_service"),
	}
}

type IssueCertificateInput struct {
	RecipientID int64
	CourseTitle string
	TrainerName string
	Description string
	IssuedAt    time.Time
}

func (s *CertificateService) Issue(
	ctx context.Context,
	actorRole string,
	input IssueCertificateInput,
) (*models.Certificate, error) {
	if actorRole != models.RoleTrainer && actorRole != models.RoleAdmin {
		return nil, ErrForbidden
	}

	courseTitle := strings.TrimSpace(input.CourseTitle)
	trainerName := strings.TrimSpace(input.TrainerName)
	if input.RecipientID <= 0 || courseTitle == "" || trainerName == "" {
		return nil, ErrInvalidInput
	}

	recipient, err := s.userRepo.GetByID(ctx, input.RecipientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	issuedAt := input.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now().UTC()
	}

	record := &models.Certificate{
		Number:        uuid.NewString(),
		RecipientID:   recipient.ID,
		RecipientName: recipient.Name,
		CourseTitle:   courseTitle,
		TrainerName:   trainerName,
		Description:   strings.TrimSpace(input.Description),
		IssuedAt:      issuedAt,
	}

	if err := s.certificateRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// Verify looks a certificate up by its public number. A miss is a
// normal "not found" result, not a failure.
func (s *CertificateService) Verify(ctx context.Context, number string) (*models.Certificate, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, ErrInvalidInput
	}

	record, err := s.certificateRepo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}

	return record, nil
}

func (s *CertificateService) Get(ctx context.Context, id int64) (*models.Certificate, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}

	record, err := s.certificateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}

	return record, nil
}

func (s *CertificateService) ListForRecipient(ctx context.Context, recipientID int64) ([]models.Certificate, error) {
	if recipientID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.certificateRepo.ListForRecipient(ctx, recipientID)
}

// Render draws the certificate as a PNG. Logo and signature are
// optional overlays. When object storage is configured a copy is kept
// there as well; a failed upload never fails the render.
func (s *CertificateService) Render(
	ctx context.Context,
	certificateID int64,
	variant string,
	logo image.Image,
	signature image.Image,
) ([]byte, error) {
	record, err := s.Get(ctx, certificateID)
	if err != nil {
		return nil, err
	}

	data := certificate.Data{
		Number:        record.Number,
		RecipientName: record.RecipientName,
		CourseTitle:   record.CourseTitle,
		TrainerName:   record.TrainerName,
		Description:   record.Description,
		IssuedAt:      record.IssuedAt,
		Logo:          logo,
		Signature:     signature,
	}

	rendered, err := certificate.RenderPNG(data, variant)
	if err != nil {
		return nil, err
	}

	if s.storage != nil {
		filename := fmt.Sprintf("%s-%s.png", record.Number, variant)
		if _, err := s.storage.UploadObject(ctx, rendered, filename, "certificates"); err != nil {
			s.log.WithError(err).WithField("certificate", record.Number).Warn("store rendered certificate")
		}
	}

	return rendered, nil
}

func (s *CertificateService) SaveTemplate(
	ctx context.Context,
	userID int64,
	variant string,
	form map[string]string,
) error {
	if !certificate.ValidVariant(variant) || form == nil {
		return ErrInvalidInput
	}
	return s.templateRepo.Save(ctx, userID, variant, form)
}

func (s *CertificateService) LoadTemplate(
	ctx context.Context,
	userID int64,
	variant string,
) (*models.CertificateTemplate, error) {
	if !certificate.ValidVariant(variant) {
		return nil, ErrInvalidInput
	}

	template, err := s.templateRepo.Get(ctx, userID, variant)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	return template, nil
}
