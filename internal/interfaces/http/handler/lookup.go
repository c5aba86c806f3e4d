package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	applookup "github.com/opticrm/backend/internal/application/lookup"
)

// LookupHandler exposes customer lookup over HTTP
type LookupHandler struct {
	BaseHandler
	service *applookup.LookupService
	logger  *zap.Logger
}

// NewLookupHandler creates a new lookup handler
func NewLookupHandler(service *applookup.LookupService, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{service: service, logger: logger.Named("lookup-handler")}
}

// RegisterRoutes registers lookup routes on the given router group
func (h *LookupHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/lookup")
	{
		group.GET("/search", h.Search)
		group.GET("/customers/:mobile/history", h.History)
		group.GET("/customers/:mobile/billing-draft", h.BillingDraft)
	}
}

// Search resolves a free-text term to merged customer identities
func (h *LookupHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))

	identities, err := h.service.Search(c.Request.Context(), term)
	if err != nil {
		h.logger.Warn("search failed", zap.String("term", term), zap.Error(err))
		h.Error(c, err)
		return
	}

	h.Success(c, h.service.ToIdentityResponses(identities))
}

// History returns the flattened purchase history for a mobile number
func (h *LookupHandler) History(c *gin.Context) {
	mobile := c.Param("mobile")

	lines, err := h.service.GetPurchaseHistory(c.Request.Context(), mobile)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, applookup.ToLineItemResponses(lines))
}

// BillingDraft returns the reconciled payment view for a mobile number
func (h *LookupHandler) BillingDraft(c *gin.Context) {
	mobile := c.Param("mobile")

	draft, err := h.service.GetBillingDraft(c.Request.Context(), mobile)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, applookup.ToBillingDraftResponse(draft))
}
