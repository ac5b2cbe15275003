package billing

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

type PricingResponse struct {
	PriceID     string  `json:"price_id"`
	ProductName string  `json:"product_name"`
	Description string  `json:"description,omitempty"`
	Currency    string  `json:"currency"`
	UnitAmount  float64 `json:"unit_amount"` // major units
	Interval    string  `json:"interval"`
}

// GetPricing returns the configured recurring price for the marketing page.
func (h *Handler) GetPricing(c *gin.Context) {
	params := &stripe.PriceParams{}
	params.AddExpand("product")

	p, err := h.stripe.GetPrice(h.priceID, params)
	if err != nil {
		h.log.Error("failed to fetch Stripe price", slog.String("price_id", h.priceID), slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pricing"})
		return
	}

	resp := PricingResponse{
		PriceID:    p.ID,
		Currency:   string(p.Currency),
		UnitAmount: float64(p.UnitAmount) / 100.0,
	}
	if p.Recurring != nil {
		resp.Interval = string(p.Recurring.Interval)
	}
	if p.Product != nil {
		resp.ProductName = p.Product.Name
		resp.Description = p.Product.Description
	}

	c.JSON(http.StatusOK, resp)
}
