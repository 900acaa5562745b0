package controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/chargeward/chargeward/app/repository"
	"github.com/chargeward/chargeward/internal/pkg/disputesync"
	"github.com/chargeward/chargeward/internal/pkg/shopcontext"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const disputePageSize = 50

// HandleDisputeList syncs the shop's disputes and chargebacks from Shopify
// and returns the persisted rows. A failed sync is logged and swallowed so
// the page still renders previously-persisted data.
func HandleDisputeList(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	shop, err := repos.Shop.GetByID(shopcontext.GetShopID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "shop not found",
		})
	}

	synced := 0
	syncer := disputesync.NewSyncer(shopGraphQLClient(shop), repos.Dispute)
	if n, err := syncer.Sync(c.Context(), shop); err != nil {
		// Sync failures are silent to the merchant; stale data still renders.
		log.Printf("dispute sync failed for %s after %d records: %v", shop.Domain, n, err)
	} else {
		synced = n
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	disputes, err := repos.Dispute.ListByShop(shop.ID, (page-1)*disputePageSize, disputePageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to load disputes",
		})
	}

	total, err := repos.Dispute.CountByShop(shop.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to count disputes",
		})
	}

	return c.JSON(fiber.Map{
		"disputes": disputes,
		"total":    total,
		"page":     page,
		"synced":   synced,
	})
}

// HandleDisputeShow returns one dispute with its drafted responses, most
// recent first, plus the latest draft separately for the editor view.
func HandleDisputeShow(c *fiber.Ctx) error {
	dispute, errResp := loadOwnedDispute(c)
	if dispute == nil {
		return errResp
	}
	repos := repository.GetGlobalRepositories()

	responses, err := repos.DisputeResponse.ListByDispute(dispute.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to load responses",
		})
	}

	latest, err := repos.DisputeResponse.GetLatestByDispute(dispute.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to load responses",
		})
	}

	return c.JSON(fiber.Map{
		"dispute":         dispute,
		"responses":       responses,
		"latest_response": latest,
	})
}
