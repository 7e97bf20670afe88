package repository

import (
	"context"

	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/models"
)

type CertificateRepository struct {
	db DBTX
}

func NewCertificateRepository(db DBTX) *CertificateRepository {
	return &CertificateRepository{db: db}
}

func (r *CertificateRepository) Create(ctx context.Context, certificate *models.Certificate) error {
	query := `
		INSERT INTO certificates (number, recipient_id, recipient_name, course_title, trainer_name, description, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.db.QueryRow(
		ctx,
		query,
		certificate.Number,
		certificate.RecipientID,
		certificate.RecipientName,
		certificate.CourseTitle,
		certificate.TrainerName,
		certificate.Description,
		certificate.IssuedAt,
	).Scan(&certificate.ID)
}

func (r *CertificateRepository) GetByID(ctx context.Context, id int64) (*models.Certificate, error) {
	query := `
		SELECT id, number, recipient_id, recipient_name, course_title, trainer_name, description, issued_at
		FROM certificates
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *CertificateRepository) GetByNumber(ctx context.Context, number string) (*models.Certificate, error) {
	query := `
		SELECT id, number, recipient_id, recipient_name, course_title, trainer_name, description, issued_at
		FROM certificates
		WHERE number = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, number))
}

func (r *CertificateRepository) ListForRecipient(
	ctx context.Context,
	recipientID int64,
) ([]models.Certificate, error) {
	query := `
		SELECT id, number, recipient_id, recipient_name, course_title, trainer_name, description, issued_at
		FROM certificates
		WHERE recipient_id = $1
		ORDER BY issued_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	certificates := make([]models.Certificate, 0)
	for rows.Next() {
		var certificate models.Certificate
		if err := rows.Scan(
			&certificate.ID,
			&certificate.Number,
			&certificate.RecipientID,
			&certificate.RecipientName,
			&certificate.CourseTitle,
			&certificate.TrainerName,
			&certificate.Description,
			&certificate.IssuedAt,
		); err != nil {
			return nil, err
		}
		certificates = append(certificates, certificate)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return certificates, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *CertificateRepository) scanOne(row rowScanner) (*models.Certificate, error) {
	var certificate models.Certificate
	err := row.Scan(
		&certificate.ID,
		&certificate.Number,
		&certificate.RecipientID,
		&certificate.RecipientName,
		&certificate.CourseTitle,
		&certificate.TrainerName,
		&certificate.Description,
		&certificate.IssuedAt,
	)
	if err != nil {
		return nil, err
	}
	return &certificate, nil
}
