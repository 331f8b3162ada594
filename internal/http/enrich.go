package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/enrichment"
	"github.com/mrlokans/mediashelf/internal/providers"
	"github.com/mrlokans/mediashelf/internal/tasks"
)

// MaxBatchSize bounds the number of external ids accepted per batch request.
const MaxBatchSize = 100

// BatchEnricher runs a batch inline when no task queue is configured.
type BatchEnricher interface {
	EnrichBatch(ctx context.Context, providerName string, externalIDs []string) ([]enrichment.BatchOutcome, error)
}

// EnrichController exposes provider search and content enrichment.
type EnrichController struct {
	enricher  Enricher
	batch     BatchEnricher
	providers ProviderResolver
	queue     TaskQueue
	logger    *zap.Logger
}

// NewEnrichController creates an EnrichController. queue may be nil, in
// which case batches run within the request.
func NewEnrichController(enricher Enricher, batch BatchEnricher, resolver ProviderResolver, queue TaskQueue, logger *zap.Logger) *EnrichController {
	return &EnrichController{
		enricher:  enricher,
		batch:     batch,
		providers: resolver,
		queue:     queue,
		logger:    logger,
	}
}

// Search handles GET /api/content/enrich/:provider/search
func (ec *EnrichController) Search(c *gin.Context) {
	limit, ok := parseIntQuery(c, "limit", providers.DefaultSearchLimit)
	if !ok {
		return
	}
	page, ok := parseIntQuery(c, "page", 1)
	if !ok {
		return
	}

	results, err := ec.enricher.Search(c.Request.Context(), c.Param("provider"), c.Query("q"),
		providers.SearchOptions{Limit: limit, Page: page})
	if err != nil {
		respondError(c, ec.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Enrich handles POST /api/content/enrich/:provider/:externalId
// Responds 201 when the content was created by this request, 200 when it
// already existed.
func (ec *EnrichController) Enrich(c *gin.Context) {
	result, err := ec.enricher.EnrichByExternalID(c.Request.Context(), c.Param("provider"), c.Param("externalId"))
	if err != nil {
		respondError(c, ec.logger, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result.Content)
}

// BatchRequest is the body of a batch enrichment request.
type BatchRequest struct {
	ExternalIDs []string `json:"externalIds" binding:"required"`
}

// Batch handles POST /api/content/enrich/:provider/batch
func (ec *EnrichController) Batch(c *gin.Context) {
	providerName := c.Param("provider")

	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "externalIds is required")
		return
	}

	ids := make([]string, 0, len(req.ExternalIDs))
	for _, id := range req.ExternalIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		respondBadRequest(c, "externalIds must not be empty")
		return
	}
	if len(ids) > MaxBatchSize {
		respondBadRequest(c, "too many externalIds")
		return
	}

	if _, err := ec.providers.Resolve(providerName); err != nil {
		respondError(c, ec.logger, err)
		return
	}

	if ec.queue == nil {
		outcomes, err := ec.batch.EnrichBatch(c.Request.Context(), providerName, ids)
		if err != nil {
			respondError(c, ec.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": outcomes})
		return
	}

	taskID, err := ec.queue.Enqueue(tasks.EnrichContentTask{Provider: providerName, ExternalIDs: ids})
	if err != nil {
		respondError(c, ec.logger, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"taskId":  taskID,
		"message": "enrichment enqueued",
	})
}
