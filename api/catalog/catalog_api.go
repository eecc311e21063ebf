package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cavina.GO/api"
	"cavina.GO/core/apperr"
	catalogEntity "cavina.GO/model/entity/catalog"
	catalogRepo "cavina.GO/model/repository/catalog"
)

func init() {
	api.RegisterModule(RegisterCatalogRoutes)
}

type componentRequest struct {
	ComponentProductID  uint   `json:"component_product_id" validate:"required"`
	Quantity            string `json:"quantity" validate:"required"`
	UnitCode            string `json:"unit_code" validate:"required"`
	SubstitutionAllowed bool   `json:"substitution_allowed"`
}

func RegisterCatalogRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/catalog")
	validate := validator.New()
	repo := catalogRepo.NewCatalogRepository(db)

	// GET /api/catalog/products?limit=&offset=
	g.GET("/products", func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		offset, _ := strconv.Atoi(c.QueryParam("offset"))
		items, total, err := repo.ListProducts(limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total})
	})

	// GET /api/catalog/products/:id – includes recipe when composite
	g.GET("/products/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
		}
		product, err := repo.FindProductByID(uint(id))
		if err != nil {
			return respondError(c, err)
		}
		resp := echo.Map{"product": product}
		if product.IsComposite() {
			components, err := repo.ComponentsOf(product.ID)
			if err != nil {
				return respondError(c, err)
			}
			resp["components"] = components
		}
		attributes, err := repo.AttributesOf(product.ID)
		if err != nil {
			return respondError(c, err)
		}
		if len(attributes) > 0 {
			resp["attributes"] = attributes
		}
		return c.JSON(http.StatusOK, resp)
	})

	// GET /api/catalog/products/sku/:sku
	g.GET("/products/sku/:sku", func(c echo.Context) error {
		product, err := repo.FindProductBySKU(c.Param("sku"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"product": product})
	})

	// GET /api/catalog/units
	g.GET("/units", func(c echo.Context) error {
		list, err := repo.ListUnits()
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"units": list})
	})

	// POST /api/catalog/products/:id/components – attach a recipe line
	g.POST("/products/:id/components", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
		}
		var body componentRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := validate.Struct(&body); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"code": apperr.CodeValidation, "error": err.Error()})
		}
		qty, err := decimal.NewFromString(body.Quantity)
		if err != nil || !qty.IsPositive() {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"code": apperr.CodeValidation, "error": "quantity must be a positive decimal string"})
		}
		comp := &catalogEntity.CompositeComponent{
			ParentProductID:     uint(id),
			ComponentProductID:  body.ComponentProductID,
			Quantity:            qty,
			UnitCode:            body.UnitCode,
			SubstitutionAllowed: body.SubstitutionAllowed,
		}
		if err := repo.CreateComponent(comp); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{"component": comp})
	})

	// DELETE /api/catalog/products/:id – refused while referenced by recipes
	g.DELETE("/products/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
		}
		if err := repo.DeleteProduct(uint(id)); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "deleted"})
	})
}

func respondError(c echo.Context, err error) error {
	appErr := apperr.From(err)
	return c.JSON(appErr.HTTPStatus(), echo.Map{"code": appErr.Code, "error": appErr.Message})
}
