package profiles

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Edition struct {
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Date     string `json:"date"`
	Category string `json:"category"`
}

// Current editions for the dashboard newsstand. Curated by hand until the
// digest pipeline lands.
var editions = []Edition{
	{
		Title:    "Machine Learning Advances",
		Excerpt:  "New neural network architectures outperform traditional models in complex prediction tasks.",
		Date:     "Today",
		Category: "AI & Machine Learning",
	},
	{
		Title:    "Sustainable Material Science",
		Excerpt:  "Biodegradable polymers show promise for reducing plastic waste in oceans.",
		Date:     "Yesterday",
		Category: "Materials Science",
	},
	{
		Title:    "Quantum Computing Breakthrough",
		Excerpt:  "Researchers achieve error correction milestone, bringing practical quantum computing closer.",
		Date:     "2 days ago",
		Category: "Quantum Physics",
	},
}

// GetNewsstand lists the current editions. Subscriber-only; gated by the
// subscription middleware on the route.
func (h *Handler) GetNewsstand(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"editions": editions})
}
