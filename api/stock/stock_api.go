package stock

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cavina.GO/api"
	"cavina.GO/config"
	"cavina.GO/core/apperr"
	"cavina.GO/core/auth"
	catalogRepo "cavina.GO/model/repository/catalog"
	stockRepo "cavina.GO/model/repository/stock"
	stockService "cavina.GO/service/stock"
	"cavina.GO/service/units"
)

func init() {
	api.RegisterModule(RegisterStockRoutes)
}

type adjustRequest struct {
	LocationID uint   `json:"location_id" validate:"required"`
	ProductID  uint   `json:"product_id" validate:"required"`
	Delta      string `json:"delta" validate:"required"`
	UnitCode   string `json:"unit_code" validate:"required"`
	Reason     string `json:"reason"`
}

type transferRequest struct {
	FromLocationID uint   `json:"from_location_id" validate:"required"`
	ToLocationID   uint   `json:"to_location_id" validate:"required"`
	ProductID      uint   `json:"product_id" validate:"required"`
	Quantity       string `json:"quantity" validate:"required"`
	UnitCode       string `json:"unit_code" validate:"required"`
}

func RegisterStockRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/stock")
	cfg := config.LoadAppConfig()
	log := config.GetLogger()
	validate := validator.New()

	catalog := catalogRepo.NewCatalogRepository(db)
	stocks := stockRepo.NewStockRepository(db)
	converter := units.NewConverterForSource(cfg.UnitRatioSource, catalog)
	ledger := stockService.NewLedger(stocks, catalog, converter, log)

	// POST /api/stock/adjust – manual correction, positive or negative delta
	g.POST("/adjust", func(c echo.Context) error {
		start := time.Now()

		var body adjustRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := validate.Struct(&body); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"code": apperr.CodeValidation, "error": err.Error()})
		}
		delta, err := decimal.NewFromString(body.Delta)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"code": apperr.CodeValidation, "error": "delta must be a decimal string"})
		}

		row, err := ledger.ManualAdjust(db, body.LocationID, body.ProductID, delta, body.UnitCode, body.Reason)
		duration := time.Since(start).Milliseconds()
		if err != nil {
			return respondError(c, err, duration)
		}

		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, echo.Map{
			"location_id":         row.LocationID,
			"product_id":          row.ProductID,
			"quantity":            row.Quantity.String(),
			"unit_code":           row.UnitCode,
			"request_duration_ms": duration,
		})
	}, auth.RequirePermission(db, "stock.write"))

	// POST /api/stock/transfer – move quantity between locations
	g.POST("/transfer", func(c echo.Context) error {
		var body transferRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := validate.Struct(&body); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"code": apperr.CodeValidation, "error": err.Error()})
		}
		qty, err := decimal.NewFromString(body.Quantity)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"code": apperr.CodeValidation, "error": "quantity must be a decimal string"})
		}
		if err := ledger.Transfer(db, body.FromLocationID, body.ToLocationID, body.ProductID, qty, body.UnitCode); err != nil {
			return respondError(c, err, 0)
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "transferred"})
	}, auth.RequirePermission(db, "stock.write"))

	// GET /api/stock/locations/:id – stock levels at one location
	g.GET("/locations/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
		}
		location, err := stocks.FindLocationByID(uint(id))
		if err != nil {
			return respondError(c, err, 0)
		}
		if location == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		rows, err := stocks.ByLocation(uint(id))
		if err != nil {
			return respondError(c, err, 0)
		}
		items := make([]echo.Map, 0, len(rows))
		for _, r := range rows {
			items = append(items, echo.Map{
				"product_id": r.ProductID,
				"quantity":   r.Quantity.String(),
				"unit_code":  r.UnitCode,
			})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"location": echo.Map{"id": location.ID, "name": location.Name, "kind": location.Kind},
			"stock":    items,
		})
	})
}

func respondError(c echo.Context, err error, duration int64) error {
	appErr := apperr.From(err)
	body := echo.Map{"code": appErr.Code, "error": appErr.Message}
	if duration > 0 {
		body["request_duration_ms"] = duration
	}
	return c.JSON(appErr.HTTPStatus(), body)
}
