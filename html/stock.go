package html

import (
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	catalogRepo "cavina.GO/model/repository/catalog"
	stockRepo "cavina.GO/model/repository/stock"
)

type Template struct {
	Templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.Templates.ExecuteTemplate(w, name, data)
}

type stockBoardRow struct {
	ProductName string
	SKU         string
	Quantity    string
	UnitCode    string
}

// RegisterStockHTMLRoutes serves the read-only stock board for a location.
func RegisterStockHTMLRoutes(e *echo.Echo, db *gorm.DB) {
	stocks := stockRepo.NewStockRepository(db)
	catalog := catalogRepo.NewCatalogRepository(db)
	e.GET("/board/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return c.String(http.StatusBadRequest, "Invalid location ID")
		}
		location, err := stocks.FindLocationByID(uint(id))
		if err != nil || location == nil {
			return c.String(http.StatusNotFound, "Location not found")
		}
		rows, err := stocks.ByLocation(location.ID)
		if err != nil {
			return c.String(http.StatusInternalServerError, "Error fetching stock")
		}
		board := make([]stockBoardRow, 0, len(rows))
		for _, r := range rows {
			row := stockBoardRow{Quantity: r.Quantity.String(), UnitCode: r.UnitCode}
			if p, err := catalog.FindProductByID(r.ProductID); err == nil {
				row.ProductName = p.Name
				row.SKU = p.SKU
			}
			board = append(board, row)
		}
		return c.Render(http.StatusOK, "board.html", map[string]interface{}{
			"Location": location,
			"Rows":     board,
		})
	})
}
