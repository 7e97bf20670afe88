package handlers

import (
	"context"
	"errors"
	"image"
	"strconv"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/gofiber/fiber/v2"

	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/certificate"
	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/models"
	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/services"
)

type certificateApplicationService interface {
	Issue(ctx context.Context, actorRole string, input services.IssueCertificateInput) (*models.Certificate, error)
	Verify(ctx context.Context, number string) (*models.Certificate, error)
	Get(ctx context.Context, id int64) (*models.Certificate, error)
	ListForRecipient(ctx context.Context, recipientID int64) ([]models.Certificate, error)
	Render(ctx context.Context, certificateID int64, variant string, logo, signature image.Image) ([]byte, error)
	SaveTemplate(ctx context.Context, userID int64, variant string, form map[string]string) error
	LoadTemplate(ctx context.Context, userID int64, variant string) (*models.CertificateTemplate, error)
}

type CertificateHandler struct {
	service certificateApplicationService
}

type issueCertificateRequest struct {
	RecipientID int64  `json:"recipient_id"`
	CourseTitle string `json:"course_title"`
	TrainerName string `json:"trainer_name"`
	Description string `json:"description"`
	IssuedAt    string `json:"issued_at,omitempty"`
}

type saveTemplateRequest struct {
	Form map[string]string `json:"form"`
}

func NewCertificateHandler(service certificateApplicationService) *CertificateHandler {
	return &CertificateHandler{service: service}
}

func (h *CertificateHandler) Issue(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)

	if _, err := parseActorID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req issueCertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input := services.IssueCertificateInput{
		RecipientID: req.RecipientID,
		CourseTitle: req.CourseTitle,
		TrainerName: req.TrainerName,
		Description: req.Description,
	}
	if req.IssuedAt != "" {
		issuedAt, err := time.Parse(time.RFC3339, req.IssuedAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid issued_at"})
		}
		input.IssuedAt = issuedAt
	}

	record, err := h.service.Issue(c.Context(), role, input)
	if err != nil {
		return mapCertificateError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"certificate": record})
}

func (h *CertificateHandler) ListMine(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	certificates, err := h.service.ListForRecipient(c.Context(), userID)
	if err != nil {
		return mapCertificateError(c, err)
	}

	return c.JSON(fiber.Map{"certificates": certificates})
}

func (h *CertificateHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid certificate id"})
	}

	record, err := h.service.Get(c.Context(), id)
	if err != nil {
		return mapCertificateError(c, err)
	}

	return c.JSON(fiber.Map{"certificate": record})
}

// Verify is the public lookup by certificate number. A miss renders as
// a plain not-found result.
func (h *CertificateHandler) Verify(c *fiber.Ctx) error {
	record, err := h.service.Verify(c.Context(), c.Params("number"))
	if err != nil {
		return mapCertificateError(c, err)
	}

	return c.JSON(fiber.Map{"certificate": record})
}

// RenderImage draws the certificate as a PNG. Optional multipart parts
// "logo" and "signature" are composited in when present; anything that
// fails to decode is skipped rather than failing the render.
func (h *CertificateHandler) RenderImage(c *fiber.Ctx) error {
	if _, err := parseActorID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid certificate id"})
	}

	variant := c.Query("variant", certificate.VariantClassic)

	rendered, err := h.service.Render(
		c.Context(),
		id,
		variant,
		h.formImage(c, "logo"),
		h.formImage(c, "signature"),
	)
	if err != nil {
		return mapCertificateError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="certificate.png"`)
	return c.Send(rendered)
}

func (h *CertificateHandler) SaveTemplate(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req saveTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.service.SaveTemplate(c.Context(), userID, c.Params("variant"), req.Form); err != nil {
		return mapCertificateError(c, err)
	}

	return c.JSON(fiber.Map{"saved": true})
}

func (h *CertificateHandler) LoadTemplate(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	template, err := h.service.LoadTemplate(c.Context(), userID, c.Params("variant"))
	if err != nil {
		return mapCertificateError(c, err)
	}

	return c.JSON(fiber.Map{"template": template})
}

func (h *CertificateHandler) formImage(c *fiber.Ctx, field string) image.Image {
	header, err := c.FormFile(field)
	if err != nil {
		return nil
	}

	file, err := header.Open()
	if err != nil {
		return nil
	}
	defer file.Close()

	decoded, _, err := image.Decode(file)
	if err != nil {
		return nil
	}
	return decoded
}

func mapCertificateError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, certificate.ErrUnknownVariant):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, services.ErrCertificateNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not found"})
	case errors.Is(err, services.ErrTemplateNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No saved template"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process certificate request"})
	}
}
