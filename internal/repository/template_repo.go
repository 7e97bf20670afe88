package repository

import (
	"context"
	"encoding/json"

	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/models"
)

// TemplateRepository stores the certificate-editor form values a user
// saved per template variant. One row per (user, variant) key.
type TemplateRepository struct {
	db DBTX
}

func NewTemplateRepository(db DBTX) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Save(
	ctx context.Context,
	userID int64,
	variant string,
	form map[string]string,
) error {
	payload, err := json.Marshal(form)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO certificate_templates (user_id, variant, form)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, variant)
		DO UPDATE SET form = EXCLUDED.form, updated_at = NOW()
	`, userID, variant, payload)
	return err
}

func (r *TemplateRepository) Get(
	ctx context.Context,
	userID int64,
	variant string,
) (*models.CertificateTemplate, error) {
	query := `
		SELECT user_id, variant, form, updated_at
		FROM certificate_templates
		WHERE user_id = $1 AND variant = $2
	`

	var template models.CertificateTemplate
	var payload []byte
	err := r.db.QueryRow(ctx, query, userID, variant).Scan(
		&template.UserID,
		&template.Variant,
		&payload,
		&template.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payload, &template.Form); err != nil {
		return nil, err
	}

	return &template, nil
}
