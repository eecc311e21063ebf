package sales

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"cavina.GO/api"
	"cavina.GO/config"
	"cavina.GO/core/apperr"
	"cavina.GO/core/auth"
	salesEntity "cavina.GO/model/entity/sales"
	catalogRepo "cavina.GO/model/repository/catalog"
	salesRepo "cavina.GO/model/repository/sales"
	stockRepo "cavina.GO/model/repository/stock"
	salesService "cavina.GO/service/sales"
	stockService "cavina.GO/service/stock"
	"cavina.GO/service/units"
)

func init() {
	api.RegisterRoute(RegisterSalesRoutes)
}

// RegisterSalesRoutes mounts the terminal-facing endpoints at root level;
// they bypass the /api auth middleware and are protected by signed terminal
// headers instead.
func RegisterSalesRoutes(e *echo.Echo, db *gorm.DB) {
	if db == nil {
		return
	}
	cfg := config.LoadAppConfig()
	log := config.GetLogger()

	catalog := catalogRepo.NewCatalogRepository(db)
	stocks := stockRepo.NewStockRepository(db)
	events := salesRepo.NewSalesRepository(db)
	converter := units.NewConverterForSource(cfg.UnitRatioSource, catalog)
	ledger := stockService.NewLedger(stocks, catalog, converter, log)
	expander := salesService.NewExpander(catalog)
	svc := salesService.NewService(db, events, expander, ledger, config.RedisLocker(), log)

	terminalAuth := auth.TerminalAuth(db)

	// POST /terminal/sales – ingest one event, no stock movement
	e.POST("/terminal/sales", func(c echo.Context) error {
		start := time.Now()
		terminal := c.Get(auth.ContextTerminal).(*salesEntity.Terminal)

		raw, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
		}
		input, err := salesService.DecodeEvent(raw)
		if err != nil {
			return respondError(c, err)
		}
		event, err := svc.IngestSale(terminal, input)
		if err != nil {
			return respondError(c, err)
		}
		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusCreated, echo.Map{
			"event_id": event.EventID,
			"status":   event.Status,
		})
	}, terminalAuth)

	// POST /terminal/sales/daily-log – reconcile a full day's events
	e.POST("/terminal/sales/daily-log", func(c echo.Context) error {
		start := time.Now()
		terminal := c.Get(auth.ContextTerminal).(*salesEntity.Terminal)

		var body struct {
			Events []json.RawMessage `json:"events"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if len(body.Events) == 0 {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"code": apperr.CodeValidation, "error": "events array is required and must not be empty"})
		}
		inputs := make([]*salesService.EventInput, 0, len(body.Events))
		for _, raw := range body.Events {
			input, err := salesService.DecodeEvent(raw)
			if err != nil {
				return respondError(c, err)
			}
			inputs = append(inputs, input)
		}

		result, err := svc.ReconcileDaily(c.Request().Context(), terminal, inputs)
		if err != nil {
			return respondError(c, err)
		}
		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, echo.Map{
			"ingested":            result.Ingested,
			"skipped":             result.Skipped,
			"confirmed":           result.Confirmed,
			"confirmed_event_ids": result.ConfirmedEventIDs,
			"touched_product_ids": result.TouchedProductIDs,
			"request_duration_ms": duration,
		})
	}, terminalAuth)
}

func respondError(c echo.Context, err error) error {
	appErr := apperr.From(err)
	return c.JSON(appErr.HTTPStatus(), echo.Map{"code": appErr.Code, "error": appErr.Message})
}
