package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-upper-limit-tracker/internal/tracker/dto"
	"golang-upper-limit-tracker/internal/tracker/service"
	"golang-upper-limit-tracker/pkg/common"
	"golang-upper-limit-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StockHandler handles HTTP requests for upper-limit stock snapshots.
type StockHandler struct {
	stockService     service.StockService
	ingestionService service.IngestionService
	logger           *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, ingestionService service.IngestionService, log *logger.Logger) *StockHandler {
	return &StockHandler{
		stockService:     stockService,
		ingestionService: ingestionService,
		logger:           log,
	}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/stocks", h.ListStocks)
	g.GET("/stocks/:id", h.GetStock)
	g.POST("/stocks/:id/analyze", h.AnalyzeStock)
	g.POST("/stocks/crawl", h.TriggerCrawl)
	g.GET("/ingestions", h.ListIngestions)
}

// ListStocks godoc
// @Summary List upper-limit stock snapshots
// @Description List snapshots with their news, biggest movers first
// @Tags stocks
// @Produce json
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Success 200 {array} entity.StockSnapshot
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks [get]
func (h *StockHandler) ListStocks(c echo.Context) error {
	stocks, err := h.stockService.List(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		h.logger.Error("failed to list stocks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list stocks"})
	}
	return c.JSON(http.StatusOK, stocks)
}

// GetStock godoc
// @Summary Get one snapshot
// @Description Get a single snapshot with its news by id
// @Tags stocks
// @Produce json
// @Param id path int true "Snapshot ID"
// @Success 200 {object} entity.StockSnapshot
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{id} [get]
func (h *StockHandler) GetStock(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid stock ID"})
	}

	stock, err := h.stockService.Get(c.Request().Context(), id)
	if errors.Is(err, dto.ErrStockNotFound) {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Stock not found"})
	}
	if err != nil {
		h.logger.Error("failed to get stock", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to get stock"})
	}
	return c.JSON(http.StatusOK, stock)
}

// AnalyzeStock godoc
// @Summary Analyze a snapshot
// @Description Fetch fresh news and generate the AI surge explanation
// @Tags stocks
// @Produce json
// @Param id path int true "Snapshot ID"
// @Success 200 {object} entity.StockSnapshot
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{id}/analyze [post]
func (h *StockHandler) AnalyzeStock(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid stock ID"})
	}

	stock, err := h.stockService.Analyze(c.Request().Context(), id)
	if errors.Is(err, dto.ErrStockNotFound) {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Stock not found"})
	}
	if err != nil {
		h.logger.Error("analysis failed", logger.ErrorField(err), logger.Field("stock_id", id))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "AI analysis failed"})
	}
	return c.JSON(http.StatusOK, stock)
}

// TriggerCrawl godoc
// @Summary Trigger batch ingestion
// @Description Scrape the upper-limit movers listing and ingest every row
// @Tags stocks
// @Produce json
// @Success 200 {object} dto.CrawlResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/crawl [post]
func (h *StockHandler) TriggerCrawl(c echo.Context) error {
	result, err := h.ingestionService.Run(c.Request().Context(), common.TriggerManual)
	if errors.Is(err, dto.ErrIngestionInProgress) {
		return c.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Ingestion already in progress"})
	}
	if err != nil {
		h.logger.Error("batch ingestion failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Crawl failed"})
	}
	return c.JSON(http.StatusOK, dto.CrawlResponse{Message: "Crawl completed", Count: result.Count})
}

// ListIngestions godoc
// @Summary List ingestion runs
// @Description List recent batch ingestion audit records
// @Tags stocks
// @Produce json
// @Param limit query int false "Maximum rows (default 20)"
// @Success 200 {array} entity.IngestionRun
// @Failure 500 {object} dto.ErrorResponse
// @Router /ingestions [get]
func (h *StockHandler) ListIngestions(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	runs, err := h.ingestionService.History(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("failed to list ingestion runs", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list ingestion runs"})
	}
	return c.JSON(http.StatusOK, runs)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
