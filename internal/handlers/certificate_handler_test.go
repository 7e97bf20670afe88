package handlers

import (
	"context"
	"encoding/json"
	"image"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/certificate"
	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/models"
	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/services"
)

type stubCertificateService struct {
	issued      *models.Certificate
	issueErr    error
	verified    *models.Certificate
	verifyErr   error
	rendered    []byte
	renderErr   error
	templates   map[string]*models.CertificateTemplate
	lastRole    string
	lastNumber  string
	lastVariant string
	lastForm    map[string]string
}

func (s *stubCertificateService) Issue(_ context.Context, actorRole string, _ services.IssueCertificateInput) (*models.Certificate, error) {
	s.lastRole = actorRole
	return s.issued, s.issueErr
}

func (s *stubCertificateService) Verify(_ context.Context, number string) (*models.Certificate, error) {
	s.lastNumber = number
	return s.verified, s.verifyErr
}

func (s *stubCertificateService) Get(_ context.Context, _ int64) (*models.Certificate, error) {
	return s.verified, s.verifyErr
}

func (s *stubCertificateService) ListForRecipient(_ context.Context, _ int64) ([]models.Certificate, error) {
	if s.verified == nil {
		return nil, nil
	}
	return []models.Certificate{*s.verified}, nil
}

func (s *stubCertificateService) Render(_ context.Context, _ int64, variant string, _, _ image.Image) ([]byte, error) {
	s.lastVariant = variant
	return s.rendered, s.renderErr
}

func (s *stubCertificateService) SaveTemplate(_ context.Context, userID int64, variant string, form map[string]string) error {
	if !certificate.ValidVariant(variant) {
		return certificate.ErrUnknownVariant
	}
	if s.templates == nil {
		s.templates = make(map[string]*models.CertificateTemplate)
	}
	s.lastVariant = variant
	s.lastForm = form
	s.templates[variant] = &models.CertificateTemplate{UserID: userID, Variant: variant, Form: form}
	return nil
}

func (s *stubCertificateService) LoadTemplate(_ context.Context, _ int64, variant string) (*models.CertificateTemplate, error) {
	template, ok := s.templates[variant]
	if !ok {
		return nil, services.ErrTemplateNotFound
	}
	return template, nil
}

func certificateTestApp(service certificateApplicationService, role, userID string) *fiber.App {
	handler := NewCertificateHandler(service)

	app := fiber.New()
	app.Get("/api/verify/:number", handler.Verify)

	authed := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", userID)
		return c.Next()
	})
	authed.Post("/certificates", handler.Issue)
	authed.Get("/certificates/templates/:variant", handler.LoadTemplate)
	authed.Put("/certificates/templates/:variant", handler.SaveTemplate)
	authed.Get("/certificates/:id/image", handler.RenderImage)
	return app
}

func TestIssueCertificateForbiddenForLearner(t *testing.T) {
	service := &stubCertificateService{issueErr: services.ErrForbidden}
	app := certificateTestApp(service, models.RoleLearner, "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/certificates", strings.NewReader(`{"recipient_id":3,"course_title":"Go Basics"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if service.lastRole != models.RoleLearner {
		t.Fatalf("expected role forwarded, got %q", service.lastRole)
	}
}

func TestIssueCertificateCreated(t *testing.T) {
	service := &stubCertificateService{
		issued: &models.Certificate{
			ID:            1,
			Number:        "f3b2",
			RecipientID:   3,
			RecipientName: "Aline U.",
			CourseTitle:   "Go Basics",
			IssuedAt:      time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
		},
	}
	app := certificateTestApp(service, models.RoleTrainer, "7")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/certificates", strings.NewReader(`{"recipient_id":3,"course_title":"Go Basics","trainer_name":"Jean Bosco"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var body struct {
		Certificate models.Certificate `json:"certificate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Certificate.Number != "f3b2" || body.Certificate.RecipientName != "Aline U." {
		t.Fatalf("unexpected certificate payload: %+v", body.Certificate)
	}
}

func TestVerifyUnknownNumberIsNotFound(t *testing.T) {
	service := &stubCertificateService{verifyErr: services.ErrCertificateNotFound}
	app := certificateTestApp(service, models.RoleLearner, "42")

	req := httptest.NewRequest(http.MethodGet, "/api/verify/nope", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if service.lastNumber != "nope" {
		t.Fatalf("expected number forwarded, got %q", service.lastNumber)
	}
}

func TestRenderImageServesPNG(t *testing.T) {
	service := &stubCertificateService{rendered: []byte("\x89PNG\r\n\x1a\nrest")}
	app := certificateTestApp(service, models.RoleTrainer, "7")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/certificates/5/image?variant=modern", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/png" {
		t.Fatalf("expected image/png, got %q", got)
	}
	if service.lastVariant != certificate.VariantModern {
		t.Fatalf("expected modern variant forwarded, got %q", service.lastVariant)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !strings.HasPrefix(string(payload), "\x89PNG") {
		t.Fatalf("response body is not a PNG stream")
	}
}

func TestRenderImageUnknownVariantIsBadRequest(t *testing.T) {
	service := &stubCertificateService{renderErr: certificate.ErrUnknownVariant}
	app := certificateTestApp(service, models.RoleTrainer, "7")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/certificates/5/image?variant=neon", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestTemplateSaveThenLoadRoundTrip(t *testing.T) {
	service := &stubCertificateService{}
	app := certificateTestApp(service, models.RoleTrainer, "7")

	save := httptest.NewRequest(http.MethodPut, "/api/v1/certificates/templates/award", strings.NewReader(`{"form":{"course_title":"Go Basics","trainer_name":"Jean Bosco"}}`))
	save.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(save)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on save, got %d", resp.StatusCode)
	}

	load := httptest.NewRequest(http.MethodGet, "/api/v1/certificates/templates/award", nil)
	resp, err = app.Test(load)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on load, got %d", resp.StatusCode)
	}

	var body struct {
		Template models.CertificateTemplate `json:"template"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Template.Variant != certificate.VariantAward || body.Template.Form["course_title"] != "Go Basics" {
		t.Fatalf("unexpected template payload: %+v", body.Template)
	}
}

func TestLoadTemplateBeforeSaveIsNotFound(t *testing.T) {
	service := &stubCertificateService{}
	app := certificateTestApp(service, models.RoleTrainer, "7")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/certificates/templates/classic", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSaveTemplateUnknownVariantIsBadRequest(t *testing.T) {
	service := &stubCertificateService{}
	app := certificateTestApp(service, models.RoleTrainer, "7")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/certificates/templates/neon", strings.NewReader(`{"form":{}}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
