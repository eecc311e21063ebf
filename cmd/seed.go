package cmd

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"cavina.GO/config"
	entity "cavina.GO/model/entity"
	catalogEntity "cavina.GO/model/entity/catalog"
	stockEntity "cavina.GO/model/entity/stock"
)

var seedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Load a small bar dataset: units, products, a composite recipe, stock and prices",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}
		if err := Seed(db); err != nil {
			fmt.Printf("Seed failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Sample dataset loaded.")
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// Seed inserts the sample dataset. Idempotent: rows are looked up by their
// natural keys first.
func Seed(db *gorm.DB) error {
	cfg := config.LoadAppConfig()

	glassRatio := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(cfg.GlassesPerBottle)))
	tenth, err := decimal.NewFromString(cfg.LoafFraction)
	if err != nil {
		return err
	}

	units := []catalogEntity.Unit{
		{Code: "piece", Description: "Single item", RatioToBase: decimal.NewFromInt(1)},
		{Code: "bottle", Description: "Bottle (75cl)", RatioToBase: decimal.NewFromInt(1)},
		{Code: "glass", Description: "Glass pour", RatioToBase: glassRatio, DiscreteStep: &glassRatio},
		{Code: "loaf", Description: "Bread loaf", RatioToBase: decimal.NewFromInt(1), DiscreteStep: &tenth},
		{Code: "jar", Description: "Butter jar", RatioToBase: decimal.NewFromInt(1), DiscreteStep: &tenth},
	}
	for i := range units {
		if err := db.Where("code = ?", units[i].Code).FirstOrCreate(&units[i]).Error; err != nil {
			return err
		}
	}

	simple := catalogEntity.ProductType{Name: "simple"}
	recipe := catalogEntity.ProductType{Name: "recipe", IsComposite: true}
	for _, pt := range []*catalogEntity.ProductType{&simple, &recipe} {
		if err := db.Where("name = ?", pt.Name).FirstOrCreate(pt).Error; err != nil {
			return err
		}
	}

	merlot := catalogEntity.Product{Name: "Merlot", SKU: "WINE-MERLOT", PrimaryCategory: "wine", ProductTypeID: simple.ID, BaseUnitCode: "bottle", IsActive: true}
	bread := catalogEntity.Product{Name: "Sourdough Bread", SKU: "BREAD-SD", PrimaryCategory: "bakery", ProductTypeID: simple.ID, BaseUnitCode: "loaf", IsActive: true}
	butter := catalogEntity.Product{Name: "Butter", SKU: "DAIRY-BUTTER", PrimaryCategory: "dairy", ProductTypeID: simple.ID, BaseUnitCode: "jar", IsActive: true}
	sandwich := catalogEntity.Product{Name: "Sandwich", SKU: "FOOD-SANDWICH", PrimaryCategory: "food", ProductTypeID: recipe.ID, BaseUnitCode: "piece", IsActive: true}
	for _, p := range []*catalogEntity.Product{&merlot, &bread, &butter, &sandwich} {
		if err := db.Where("sku = ?", p.SKU).FirstOrCreate(p).Error; err != nil {
			return err
		}
	}

	components := []catalogEntity.CompositeComponent{
		{ParentProductID: sandwich.ID, ComponentProductID: bread.ID, Quantity: tenth, UnitCode: "loaf"},
		{ParentProductID: sandwich.ID, ComponentProductID: butter.ID, Quantity: tenth, UnitCode: "jar"},
	}
	for i := range components {
		err := db.Where("parent_product_id = ? AND component_product_id = ?",
			components[i].ParentProductID, components[i].ComponentProductID).
			FirstOrCreate(&components[i]).Error
		if err != nil {
			return err
		}
	}

	conversion := catalogEntity.UnitConversion{FromUnit: "glass", ToUnit: "bottle", Ratio: glassRatio}
	if err := db.Where("from_unit = ? AND to_unit = ?", "glass", "bottle").FirstOrCreate(&conversion).Error; err != nil {
		return err
	}

	bar := stockEntity.Location{Name: cfg.DefaultLocation, Kind: "bar", IsActive: true}
	warehouse := stockEntity.Location{Name: "Warehouse", Kind: "warehouse", IsActive: true}
	for _, l := range []*stockEntity.Location{&bar, &warehouse} {
		if err := db.Where("name = ?", l.Name).FirstOrCreate(l).Error; err != nil {
			return err
		}
	}

	stocks := []stockEntity.Stock{
		{LocationID: bar.ID, ProductID: merlot.ID, Quantity: decimal.NewFromInt(10), UnitCode: "bottle"},
		{LocationID: bar.ID, ProductID: bread.ID, Quantity: decimal.NewFromInt(2), UnitCode: "loaf"},
		{LocationID: bar.ID, ProductID: butter.ID, Quantity: decimal.NewFromInt(1), UnitCode: "jar"},
		{LocationID: warehouse.ID, ProductID: merlot.ID, Quantity: decimal.NewFromInt(48), UnitCode: "bottle"},
	}
	for i := range stocks {
		err := db.Where("location_id = ? AND product_id = ?", stocks[i].LocationID, stocks[i].ProductID).
			FirstOrCreate(&stocks[i]).Error
		if err != nil {
			return err
		}
	}

	prices := []catalogEntity.PriceList{
		{LocationID: bar.ID, ProductID: merlot.ID, UnitCode: "bottle", Currency: cfg.DefaultCurrency, Amount: decimal.NewFromFloat(25)},
		{LocationID: bar.ID, ProductID: merlot.ID, UnitCode: "glass", Currency: cfg.DefaultCurrency, Amount: decimal.NewFromFloat(6.5)},
		{LocationID: bar.ID, ProductID: sandwich.ID, UnitCode: "piece", Currency: cfg.DefaultCurrency, Amount: decimal.NewFromFloat(4.5)},
	}
	for i := range prices {
		err := db.Where("location_id = ? AND product_id = ? AND unit_code = ?",
			prices[i].LocationID, prices[i].ProductID, prices[i].UnitCode).
			FirstOrCreate(&prices[i]).Error
		if err != nil {
			return err
		}
	}

	admin := entity.Role{RoleName: "admin"}
	if err := db.Where("role_name = ?", admin.RoleName).FirstOrCreate(&admin).Error; err != nil {
		return err
	}
	for _, perm := range []string{"stock.write", "catalog.write"} {
		grant := entity.RolePermission{RoleID: admin.RoleID, Permission: perm}
		err := db.Where("role_id = ? AND permission = ?", admin.RoleID, perm).FirstOrCreate(&grant).Error
		if err != nil {
			return err
		}
	}
	return nil
}
