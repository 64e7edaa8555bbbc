package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cv-forge/internal/domain"
	"cv-forge/internal/model"
	"cv-forge/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

type Handler struct {
	processor *usecase.Processor
	validator *validator.Validate
	log       *zap.Logger
}

func NewHandler(p *usecase.Processor, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{processor: p, validator: validator.New(), log: log}
}

// Register mounts every route on app.
func (h *Handler) Register(app *fiber.App) {
	app.Use(recover.New())
	app.Use(h.requestLogger)

	app.Get("/healthz", h.Health)

	api := app.Group("/api")
	api.Get("/cv/default", h.DefaultCV)
	api.Post("/cv/reconcile", h.Reconcile)
	api.Post("/cv/html", h.RenderHTML)
	api.Post("/generate-pdf", h.GeneratePDF)

	api.Post("/ai/improve-text", h.ImproveText)
	api.Post("/ai/enhance-cv", h.EnhanceCV)
	api.Post("/ai/suggest-skills", h.SuggestSkills)
	api.Post("/ai/extract-cv", h.ExtractCV)

	api.Post("/cvs", h.SaveCV)
	api.Get("/cvs", h.ListCVs)
	api.Get("/cvs/:id", h.GetCV)
	api.Delete("/cvs/:id", h.DeleteCV)
}

func (h *Handler) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	h.log.Info("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("latency", time.Since(start)))
	return err
}

// fail writes err as {"error": ...} with the status its kind maps to.
func (h *Handler) fail(c *fiber.Ctx, err error, extra fiber.Map) error {
	status := domain.HTTPStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		msg = "internal error"
	}
	body := fiber.Map{"error": msg}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

func (h *Handler) parse(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return domain.InvalidInput("invalid payload")
	}
	if err := h.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.InvalidInput("%s failed on %s", verrs[0].Field(), verrs[0].Tag())
		}
		return domain.InvalidInput("invalid request")
	}
	return nil
}

// decodeCV validates a CV body against the schema.
func decodeCV(field string, raw []byte) (model.CV, error) {
	cv, err := model.Decode(raw)
	if err != nil {
		return model.CV{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, field, err)
	}
	return cv, nil
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) DefaultCV(c *fiber.Ctx) error {
	return c.JSON(model.DefaultCV())
}

type reconcileReq struct {
	Original    json.RawMessage `json:"original" validate:"required"`
	Candidate   json.RawMessage `json:"candidate" validate:"required"`
	Instruction string          `json:"instruction" validate:"max=2000"`
}

func (h *Handler) Reconcile(c *fiber.Ctx) error {
	var req reconcileReq
	if err := h.parse(c, &req); err != nil {
		return h.fail(c, err, nil)
	}
	original, err := decodeCV("original", req.Original)
	if err != nil {
		return h.fail(c, err, nil)
	}
	candidate, err := decodeCV("candidate", req.Candidate)
	if err != nil {
		return h.fail(c, err, nil)
	}

	res := h.processor.Reconcile(original, candidate, req.Instruction)
	return c.JSON(withModified(fiber.Map{"cvData": res.CV}, res.ModifiedFields))
}

func (h *Handler) RenderHTML(c *fiber.Ctx) error {
	cv, err := decodeCV("cv", c.Body())
	if err != nil {
		return h.fail(c, err, nil)
	}
	html, err := h.processor.RenderHTML(cv)
	if err != nil {
		return h.fail(c, err, nil)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(html)
}

func (h *Handler) GeneratePDF(c *fiber.Ctx) error {
	cv, err := decodeCV("cv", c.Body())
	if err != nil {
		return h.fail(c, err, nil)
	}
	pdf, err := h.processor.RenderPDF(c.UserContext(), cv)
	if err != nil {
		h.log.Error("generate pdf failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate PDF"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="cv.pdf"`)
	return c.Send(pdf)
}

type improveReq struct {
	Text        string `json:"text" validate:"required"`
	Instruction string `json:"instruction" validate:"max=2000"`
}

func (h *Handler) ImproveText(c *fiber.Ctx) error {
	var req improveReq
	if err := h.parse(c, &req); err != nil {
		return h.fail(c, err, nil)
	}
	out, err := h.processor.ImproveText(c.UserContext(), req.Text, req.Instruction)
	if err != nil {
		return h.fail(c, err, nil)
	}
	return c.JSON(fiber.Map{"improvedText": out})
}

type enhanceReq struct {
	CVData      json.RawMessage `json:"cvData" validate:"required"`
	Instruction string          `json:"instruction" validate:"max=2000"`
}

func (h *Handler) EnhanceCV(c *fiber.Ctx) error {
	var req enhanceReq
	if err := h.parse(c, &req); err != nil {
		return h.fail(c, err, nil)
	}
	cv, err := decodeCV("cvData", req.CVData)
	if err != nil {
		return h.fail(c, err, nil)
	}

	res, err := h.processor.EnhanceCV(c.UserContext(), cv, req.Instruction)
	if err != nil {
		// the unchanged CV goes back so the client can keep editing
		return h.fail(c, err, fiber.Map{"enhancedCvData": res.CV})
	}
	return c.JSON(withModified(fiber.Map{"enhancedCvData": res.CV}, res.ModifiedFields))
}

// withModified adds modifiedFields only when something was restored.
func withModified(body fiber.Map, modified []string) fiber.Map {
	if len(modified) > 0 {
		body["modifiedFields"] = modified
	}
	return body
}

type suggestSkillsReq struct {
	Role           string   `json:"role" validate:"max=200"`
	ExistingSkills []string `json:"existingSkills" validate:"max=200,dive,max=200"`
	Instruction    string   `json:"instruction" validate:"max=2000"`
}

func (h *Handler) SuggestSkills(c *fiber.Ctx) error {
	var req suggestSkillsReq
	if err := h.parse(c, &req); err != nil {
		return h.fail(c, err, nil)
	}
	skills, err := h.processor.SuggestSkills(c.UserContext(), req.Role, req.ExistingSkills, req.Instruction)
	if err != nil {
		return h.fail(c, err, nil)
	}
	return c.JSON(fiber.Map{"suggestedSkills": skills})
}

type extractReq struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	FileContent string `json:"fileContent" validate:"required"`
}

func (h *Handler) ExtractCV(c *fiber.Ctx) error {
	var req extractReq
	if err := h.parse(c, &req); err != nil {
		return h.fail(c, err, nil)
	}
	cv, err := h.processor.ExtractCV(c.UserContext(), req.FileName, req.FileContent)
	if err != nil {
		return h.fail(c, err, nil)
	}
	return c.JSON(fiber.Map{"cvData": cv})
}

type saveReq struct {
	Name   string          `json:"name" validate:"max=200"`
	CVData json.RawMessage `json:"cvData" validate:"required"`
}

func (h *Handler) SaveCV(c *fiber.Ctx) error {
	var req saveReq
	if err := h.parse(c, &req); err != nil {
		return h.fail(c, err, nil)
	}
	cv, err := decodeCV("cvData", req.CVData)
	if err != nil {
		return h.fail(c, err, nil)
	}
	saved, err := h.processor.SaveCV(c.UserContext(), req.Name, cv)
	if err != nil {
		return h.fail(c, err, nil)
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

func (h *Handler) ListCVs(c *fiber.Ctx) error {
	list, err := h.processor.ListCVs(c.UserContext())
	if err != nil {
		return h.fail(c, err, nil)
	}
	return c.JSON(list)
}

func (h *Handler) GetCV(c *fiber.Ctx) error {
	saved, err := h.processor.GetCV(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, nil)
	}
	return c.JSON(saved)
}

func (h *Handler) DeleteCV(c *fiber.Ctx) error {
	if err := h.processor.DeleteCV(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err, nil)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
