package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/database/library"
)

// LibraryController serves the caller's rated library.
type LibraryController struct {
	library LibraryReader
	logger  *zap.Logger
}

func NewLibraryController(reader LibraryReader, logger *zap.Logger) *LibraryController {
	return &LibraryController{library: reader, logger: logger}
}

// GetLibrary handles GET /api/content/library?type=&sort=&page=&limit=
func (lc *LibraryController) GetLibrary(c *gin.Context) {
	contentType, ok := parseContentType(c)
	if !ok {
		return
	}
	page, ok := parseIntQuery(c, "page", 1)
	if !ok {
		return
	}
	limit, ok := parseIntQuery(c, "limit", library.DefaultPageSize)
	if !ok {
		return
	}

	result, err := lc.library.GetLibrary(c.Request.Context(), library.Query{
		UserID:   GetUserID(c),
		Type:     contentType,
		Sort:     library.SortOrder(c.Query("sort")),
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}

	resp := PageResponse{
		Page:         result.Page,
		TotalPages:   result.TotalPages,
		TotalItems:   result.TotalItems,
		ItemsPerPage: result.PageSize,
		Data:         result.Items,
	}
	if result.Empty {
		resp.Message = "library is empty"
	}
	c.JSON(http.StatusOK, resp)
}
