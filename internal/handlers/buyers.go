package handlers

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"buyer-lead-portal/internal/apierr"
	"buyer-lead-portal/internal/buyers"
	"buyer-lead-portal/internal/validation"
)

// BuyersHandler handles buyer CRUD, history, and CSV import/export requests
type BuyersHandler struct {
	service *buyers.Service
}

// NewBuyersHandler creates a new buyers handler
func NewBuyersHandler(service *buyers.Service) *BuyersHandler {
	return &BuyersHandler{service: service}
}

// renderError maps application errors onto HTTP responses. Errors
// outside the taxonomy are logged and surface as a plain 500.
func renderError(c *gin.Context, err error) {
	apiErr := apierr.From(err)
	if apiErr.Status == http.StatusInternalServerError {
		log.Printf("Buyers: Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(apiErr.Status, apiErr)
}

// actorID returns the authenticated user ID set by the auth middleware.
func actorID(c *gin.Context) string {
	return c.GetString("userID")
}

// Create handles POST /api/buyers
func (h *BuyersHandler) Create(c *gin.Context) {
	var input validation.BuyerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	buyer, err := h.service.Create(input, actorID(c))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": buyer})
}

// List handles GET /api/buyers
func (h *BuyersHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, pagination, err := h.service.List(
		filtersFromQuery(c),
		page, limit,
		c.Query("sortBy"), c.Query("sortOrder"),
	)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       items,
		"pagination": pagination,
	})
}

// Get handles GET /api/buyers/:id
func (h *BuyersHandler) Get(c *gin.Context) {
	buyer, history, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    buyer,
		"history": history,
	})
}

// Update handles PUT /api/buyers/:id
func (h *BuyersHandler) Update(c *gin.Context) {
	var input validation.BuyerUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	buyer, err := h.service.Update(c.Param("id"), input, actorID(c))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": buyer})
}

// Delete handles DELETE /api/buyers/:id
func (h *BuyersHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id"), actorID(c)); err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Buyer deleted successfully"})
}

// History handles GET /api/buyers/:id/history
func (h *BuyersHandler) History(c *gin.Context) {
	history, err := h.service.History(c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": history})
}

// Import handles POST /api/buyers/import (multipart CSV upload)
func (h *BuyersHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		renderError(c, err)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		renderError(c, err)
		return
	}

	result, err := h.service.ImportCSV(raw, actorID(c))
	if err != nil {
		renderError(c, err)
		return
	}

	log.Printf("Buyers: Imported %d rows (%d rejected) for user %s", result.Imported, len(result.Errors), actorID(c))
	c.JSON(http.StatusOK, result)
}

// Export handles GET /api/buyers/export. The default format is CSV;
// ?format=xlsx switches to a spreadsheet.
func (h *BuyersHandler) Export(c *gin.Context) {
	filters := filtersFromQuery(c)
	sortBy := c.Query("sortBy")
	sortOrder := c.Query("sortOrder")

	if c.Query("format") == "xlsx" {
		data, err := h.service.ExportXLSX(filters, sortBy, sortOrder)
		if err != nil {
			renderError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="buyers.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
		return
	}

	data, err := h.service.ExportCSV(filters, sortBy, sortOrder)
	if err != nil {
		renderError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="buyers.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func filtersFromQuery(c *gin.Context) buyers.Filters {
	return buyers.Filters{
		Search:       c.Query("search"),
		City:         c.Query("city"),
		PropertyType: c.Query("propertyType"),
		Status:       c.Query("status"),
		Timeline:     c.Query("timeline"),
	}
}
