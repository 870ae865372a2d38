package cardapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SlpAus/penny-dreadful-cards-backend/internal/platform/database"
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/rotation"
	"github.com/gin-gonic/gin"
)

// --- API响应模型 ---

type CardResponse struct {
	ID         int64    `json:"id"`
	Layout     string   `json:"layout"`
	Name       string   `json:"name"`
	Names      []string `json:"names"`
	ManaCost   string   `json:"manaCost"`
	CMCs       []string `json:"cmcs"`
	Type       string   `json:"type"`
	Text       string   `json:"text"`
	Power      string   `json:"power,omitempty"`
	Toughness  string   `json:"toughness,omitempty"`
	Loyalty    string   `json:"loyalty,omitempty"`
	ImageName  string   `json:"imageName"`
	Legalities string   `json:"legalities"`
	PDLegal    bool     `json:"pdLegal"`
	Bugs       string   `json:"bugs,omitempty"`
}

type SearchResponse struct {
	Name     string `json:"name"`
	Distance int    `json:"distance"`
	PDLegal  bool   `json:"pdLegal"`
}

type RotationResponse struct {
	CurrentSeason string   `json:"currentSeason"`
	Seasons       []string `json:"seasons"`
}

// GetCard 处理 GET /api/card/:name
func GetCard(c *gin.Context) {
	result, err := LookupCard(c.Param("name"))
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, CardResponse{
		ID:         result.ID,
		Layout:     result.Layout,
		Name:       result.Name,
		Names:      result.Names,
		ManaCost:   result.ManaCost,
		CMCs:       result.CMCs,
		Type:       result.Type,
		Text:       result.Text,
		Power:      result.Power,
		Toughness:  result.Toughness,
		Loyalty:    result.Loyalty,
		ImageName:  result.ImageName,
		Legalities: result.Legalities,
		PDLegal:    result.PDLegal,
		Bugs:       result.Bugs,
	})
}

// Search 处理 GET /api/search?q=...&limit=...
func Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	results, err := SearchCard(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]SearchResponse, 0, len(results))
	for _, r := range results {
		out = append(out, SearchResponse{Name: r.Name, Distance: r.Distance, PDLegal: r.PDLegal})
	}
	c.JSON(http.StatusOK, out)
}

// GetRotation 处理 GET /api/rotation
func GetRotation(c *gin.Context) {
	c.JSON(http.StatusOK, RotationResponse{
		CurrentSeason: rotation.Current().Code,
		Seasons:       rotation.SeasonCodes(),
	})
}

// Health 处理 GET /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"redis": database.IsRedisHealthy(),
	})
}
