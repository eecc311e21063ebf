package realtime

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"cavina.GO/api"
	"cavina.GO/config"
	catalogEntity "cavina.GO/model/entity/catalog"
	stockEntity "cavina.GO/model/entity/stock"
	catalogRepo "cavina.GO/model/repository/catalog"
	stockRepo "cavina.GO/model/repository/stock"
)

func init() {
	api.RegisterModule(RegisterRealtimeRoutes)
}

// Response for the combined price+stock endpoint
type PriceStockResponse struct {
	SKU      string `json:"sku"`
	Price    string `json:"price,omitempty"`
	Currency string `json:"currency,omitempty"`
	Stock    string `json:"stock,omitempty"`
	UnitCode string `json:"unit_code,omitempty"`
}

// Singleton repositories (created once per DB)
var (
	catalogRepoInstance *catalogRepo.CatalogRepository
	stockRepoInstance   *stockRepo.StockRepository
	repoOnce            sync.Once
)

func getRepositories(db *gorm.DB) (*catalogRepo.CatalogRepository, *stockRepo.StockRepository) {
	repoOnce.Do(func() {
		catalogRepoInstance = catalogRepo.NewCatalogRepository(db)
		stockRepoInstance = stockRepo.NewStockRepository(db)
	})
	return catalogRepoInstance, stockRepoInstance
}

func resolveLocation(stocks *stockRepo.StockRepository, name string) (*stockEntity.Location, error) {
	if name == "" {
		name = config.LoadAppConfig().DefaultLocation
	}
	return stocks.FindLocationByName(name)
}

// RegisterRealtimeRoutes sets up the low-latency price/stock lookup API used
// by terminal UIs between syncs.
func RegisterRealtimeRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/realtime")

	// GET /api/realtime/price-stock?sku=XXX&location=Bar
	g.GET("/price-stock", func(c echo.Context) error {
		start := time.Now()

		sku := c.QueryParam("sku")
		if sku == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sku required"})
		}

		catalog, stocks := getRepositories(db)
		location, err := resolveLocation(stocks, c.QueryParam("location"))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if location == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		product, err := catalog.FindProductBySKU(sku)
		if err != nil {
			duration := time.Since(start).Milliseconds()
			return c.JSON(http.StatusNotFound, echo.Map{
				"error":               "product not found",
				"request_duration_ms": duration,
			})
		}

		var price *catalogEntity.PriceList
		var row *stockEntity.Stock

		// Parallel fetch using errgroup
		eg := new(errgroup.Group)

		eg.Go(func() error {
			var err error
			price, err = catalog.LowestPriceFor(location.ID, product.ID)
			return err
		})

		eg.Go(func() error {
			var err error
			row, err = stocks.Get(location.ID, product.ID)
			return err
		})

		if err := eg.Wait(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		resp := PriceStockResponse{SKU: sku}
		if price != nil {
			resp.Price = price.Amount.String()
			resp.Currency = price.Currency
		}
		if row != nil {
			resp.Stock = row.Quantity.String()
			resp.UnitCode = row.UnitCode
		}
		return c.JSON(http.StatusOK, resp)
	})

	// GET /api/realtime/price?sku=XXX&location=Bar&unit=glass - price only
	g.GET("/price", func(c echo.Context) error {
		start := time.Now()

		sku := c.QueryParam("sku")
		if sku == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sku required"})
		}

		catalog, stocks := getRepositories(db)
		location, err := resolveLocation(stocks, c.QueryParam("location"))
		if err != nil || location == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		product, err := catalog.FindProductBySKU(sku)
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}

		var price *catalogEntity.PriceList
		if unit := c.QueryParam("unit"); unit != "" {
			price, err = catalog.PriceFor(location.ID, product.ID, unit)
		} else {
			price, err = catalog.LowestPriceFor(location.ID, product.ID)
		}
		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if price == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "price not found"})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"sku":       sku,
			"price":     price.Amount.String(),
			"currency":  price.Currency,
			"unit_code": price.UnitCode,
		})
	})

	// GET /api/realtime/stock?sku=XXX&location=Bar - stock only
	g.GET("/stock", func(c echo.Context) error {
		start := time.Now()

		sku := c.QueryParam("sku")
		if sku == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sku required"})
		}

		catalog, stocks := getRepositories(db)
		location, err := resolveLocation(stocks, c.QueryParam("location"))
		if err != nil || location == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		product, err := catalog.FindProductBySKU(sku)
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}

		row, err := stocks.Get(location.ID, product.ID)
		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if row == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stock not tracked"})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"sku":       sku,
			"stock":     row.Quantity.String(),
			"unit_code": row.UnitCode,
			"location":  location.Name,
		})
	})
}
