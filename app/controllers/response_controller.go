package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chargeward/chargeward/app/models"
	"github.com/chargeward/chargeward/app/repository"
	"github.com/chargeward/chargeward/internal/pkg/aidraft"
	"github.com/chargeward/chargeward/internal/pkg/shopcontext"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HandleGenerateResponse drafts a dispute response via the text-generation
// API. Failures surface as an inline error message; the request never
// crashes.
func HandleGenerateResponse(c *fiber.Ctx) error {
	dispute, errResp := loadOwnedDispute(c)
	if dispute == nil {
		return errResp
	}

	in := aidraft.DraftInput{
		DisputeID:      dispute.RemoteID,
		RawPayloadJSON: dispute.RawPayloadJSON,
	}
	if dispute.OrderName != nil {
		in.OrderName = *dispute.OrderName
	}
	if dispute.Amount != nil {
		in.Amount = strconv.FormatFloat(*dispute.Amount, 'f', 2, 64)
	}
	if dispute.CurrencyCode != nil {
		in.Currency = *dispute.CurrencyCode
	}
	if dispute.Reason != nil {
		in.Reason = *dispute.Reason
	}
	if dispute.Status != nil {
		in.Status = *dispute.Status
	}

	client := aidraft.NewClientFromEnv()
	draft, err := client.GenerateDraft(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "generation_failed",
			"message": fmt.Sprintf("could not generate a draft: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"draft": draft,
		"model": client.Model,
	})
}

type saveResponseRequest struct {
	Draft   string `json:"draft"`
	Model   string `json:"model"`
	IsFinal bool   `json:"is_final"`
}

// HandleSaveResponse appends a drafted response row for a dispute. Every
// save creates a new row; drafts are never updated in place.
func HandleSaveResponse(c *fiber.Ctx) error {
	dispute, errResp := loadOwnedDispute(c)
	if dispute == nil {
		return errResp
	}

	var req saveResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_body",
			"message": "request body must be JSON",
		})
	}
	if strings.TrimSpace(req.Draft) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "empty_draft",
			"message": "draft text is required",
		})
	}

	response := &models.DisputeResponse{
		DisputeID: dispute.ID,
		ShopID:    dispute.ShopID,
		Draft:     req.Draft,
		Model:     req.Model,
		IsFinal:   req.IsFinal,
	}
	if err := repository.GetGlobalRepositories().DisputeResponse.Create(response); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to save response",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// loadOwnedDispute resolves the :id param to a dispute owned by the
// requesting shop. On failure it returns a nil dispute and the already-sent
// error response.
func loadOwnedDispute(c *fiber.Ctx) (*models.Dispute, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_id",
			"message": "dispute id must be numeric",
		})
	}

	dispute, err := repository.GetGlobalRepositories().Dispute.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "dispute not found",
			})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to load dispute",
		})
	}
	if dispute.ShopID != shopcontext.GetShopID(c) {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "dispute not found",
		})
	}
	return dispute, nil
}
