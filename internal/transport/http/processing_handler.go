package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trainingplatform/internal/application/usecase"
	"trainingplatform/internal/infrastructure/cache"
)

// ProcessingHandler — ручной запуск шагов пайплайна и статистика.
// Те же операции крутятся по расписанию, эндпойнты нужны для
// отладки и догрузки вне окна.
type ProcessingHandler struct {
	ingestor *usecase.Ingestor
	pipeline *usecase.Pipeline
	runLock  *cache.RunLock
}

func NewProcessingHandler(ingestor *usecase.Ingestor, pipeline *usecase.Pipeline, runLock *cache.RunLock) *ProcessingHandler {
	return &ProcessingHandler{ingestor: ingestor, pipeline: pipeline, runLock: runLock}
}

func (h *ProcessingHandler) Ingest(c *gin.Context) {
	summary, err := h.ingestor.IngestAll(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Process держит ту же блокировку, что и прогон по расписанию:
// одновременно выполняется не больше одного прогона пайплайна.
func (h *ProcessingHandler) Process(c *gin.Context) {
	acquired, err := h.runLock.TryAcquire(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !acquired {
		c.JSON(http.StatusConflict, gin.H{"error": "processing run already in progress"})
		return
	}
	defer h.runLock.Release(c)

	summary, err := h.pipeline.ProcessStaging(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ProcessingHandler) Stats(c *gin.Context) {
	stats, err := h.pipeline.Stats(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ProcessingHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
