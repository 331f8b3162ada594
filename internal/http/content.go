package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/database/content"
	"github.com/mrlokans/mediashelf/internal/entities"
)

// ContentController serves catalog reads and manual edits.
type ContentController struct {
	reader  ContentReader
	catalog CatalogWriter
	logger  *zap.Logger
}

func NewContentController(reader ContentReader, catalog CatalogWriter, logger *zap.Logger) *ContentController {
	return &ContentController{reader: reader, catalog: catalog, logger: logger}
}

// PageResponse is the paginated envelope shared by list endpoints.
type PageResponse struct {
	Page         int    `json:"page"`
	TotalPages   int    `json:"totalPages"`
	TotalItems   int64  `json:"totalItems"`
	ItemsPerPage int    `json:"itemsPerPage"`
	Data         any    `json:"data"`
	Message      string `json:"message,omitempty"`
}

// typeAll is the filter value clients send for "every type".
const typeAll = "all"

func parseContentType(c *gin.Context) (entities.ContentType, bool) {
	raw := c.Query("type")
	if raw == typeAll {
		return "", true
	}
	t := entities.ContentType(raw)
	if t != "" && !t.Valid() {
		respondBadRequest(c, "invalid type")
		return "", false
	}
	return t, true
}

// List handles GET /api/content
func (cc *ContentController) List(c *gin.Context) {
	contentType, ok := parseContentType(c)
	if !ok {
		return
	}
	page, ok := parseIntQuery(c, "page", 1)
	if !ok {
		return
	}
	limit, ok := parseIntQuery(c, "limit", content.DefaultPageSize)
	if !ok {
		return
	}

	filter := content.ListFilter{
		Type:     contentType,
		Sort:     content.SortOrder(c.Query("sort")),
		Page:     page,
		PageSize: limit,
	}
	items, total, err := cc.reader.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, cc.logger, err)
		return
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = content.DefaultPageSize
	}
	if limit > content.MaxPageSize {
		limit = content.MaxPageSize
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, PageResponse{
		Page:         page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
		Data:         items,
	})
}

// Search handles GET /api/content/search?q=
func (cc *ContentController) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		respondBadRequest(c, "q is required")
		return
	}
	limit, ok := parseIntQuery(c, "limit", content.DefaultSearchLimit)
	if !ok {
		return
	}

	hits, err := cc.reader.Search(c.Request.Context(), q, limit)
	if err != nil {
		respondError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": hits})
}

// Get handles GET /api/content/:id
func (cc *ContentController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	item, err := cc.reader.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateRequest is the body of a manual create. Server-managed fields
// are not accepted.
type CreateRequest struct {
	Type        entities.ContentType     `json:"type"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	ReleaseDate *entities.Date           `json:"releaseDate"`
	Creators    []entities.Creator       `json:"creators"`
	Images      entities.Images          `json:"images"`
	Metadata    entities.ContentMetadata `json:"metadata"`
}

// Create handles POST /api/content
func (cc *ContentController) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	created, err := cc.catalog.CreateContent(c.Request.Context(), &entities.Content{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		ReleaseDate: req.ReleaseDate,
		Creators:    req.Creators,
		Images:      req.Images,
		Metadata:    req.Metadata,
	})
	if err != nil {
		respondError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/content/:id
// Only whitelisted fields are decoded; type, id, origin, timestamps and
// external ids in the body are ignored.
func (cc *ContentController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch content.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	updated, err := cc.catalog.UpdateContent(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/content/:id
func (cc *ContentController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := cc.catalog.DeleteContent(c.Request.Context(), id); err != nil {
		respondError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "content deleted"})
}
