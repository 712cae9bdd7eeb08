package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/store"
	"github.com/talkincode/stockledger/internal/webserver"
)

type productPayload struct {
	Name          string              `json:"name" validate:"required,min=1,max=200"`
	Description   string              `json:"description" validate:"max=1000"`
	SKU           string              `json:"sku" validate:"max=64"`
	CategoryID    int64               `json:"category_id,string" validate:"required"`
	Price         decimal.Decimal     `json:"price" swaggertype:"string"`
	CostPrice     decimal.NullDecimal `json:"cost_price" swaggertype:"string"`
	Quantity      int                 `json:"quantity" validate:"gte=0"`
	MinStockLevel *int                `json:"min_stock_level" validate:"omitempty,gte=0"`
	ImageURL      string              `json:"image_url" validate:"omitempty,url,max=1024"`
	IsActive      *bool               `json:"is_active"`
}

func (p *productPayload) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.SKU = strings.TrimSpace(p.SKU)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/catalog/products", listProducts)
	webserver.ApiGET("/catalog/products/:id", getProduct)
	webserver.ApiPOST("/catalog/products", createProduct)
	webserver.ApiPUT("/catalog/products/:id", updateProduct)
	webserver.ApiDELETE("/catalog/products/:id", deactivateProduct)
}

// listProducts lists products
// @Summary list products
// @Tags Catalog
// @Param page query int false "Page number"
// @Param perPage query int false "Items per page"
// @Param q query string false "Search name, SKU and description"
// @Param category query string false "Category ID"
// @Param active query bool false "Only active products"
// @Param stock query string false "in_stock, low_stock or out_of_stock"
// @Param sort query string false "Sort field, prefix with - for descending"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/catalog/products [get]
func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	filter := store.ProductFilter{
		Search:     strings.TrimSpace(c.QueryParam("q")),
		ActiveOnly: cast.ToBool(c.QueryParam("active")),
		Sort:       strings.TrimSpace(c.QueryParam("sort")),
	}
	if cat := strings.TrimSpace(c.QueryParam("category")); cat != "" {
		id, err := strconv.ParseInt(cat, 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid category filter", cat)
		}
		filter.CategoryID = store.Int64(id)
	}
	switch stock := strings.TrimSpace(c.QueryParam("stock")); stock {
	case "", "all":
	case domain.StockIn, domain.StockLow, domain.StockOut:
		filter.StockLevel = stock
	default:
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid stock filter", stock)
	}

	catalog := GetAppContext(c).Catalog()
	ctx := c.Request().Context()
	total, err := catalog.CountProducts(ctx, filter)
	if err != nil {
		return failErr(c, err, "Failed to query products")
	}
	filter.Offset, filter.Limit = (page-1)*pageSize, pageSize
	rows, err := catalog.ListProducts(ctx, filter)
	if err != nil {
		return failErr(c, err, "Failed to query products")
	}
	return paged(c, rows, total, page, pageSize)
}

// getProduct returns one product
// @Summary get product detail
// @Tags Catalog
// @Param id path int true "Product ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/catalog/products/{id} [get]
func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := GetAppContext(c).Catalog().GetProduct(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err, "Product not found")
	}
	return ok(c, p)
}

// checkProductPayload validates what struct tags cannot express.
func checkProductPayload(c echo.Context, payload *productPayload) (bool, error) {
	if payload.Price.IsNegative() {
		return false, fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Price must not be negative", map[string]string{"field": "price"})
	}
	if payload.CostPrice.Valid && payload.CostPrice.Decimal.IsNegative() {
		return false, fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cost price must not be negative", map[string]string{"field": "cost_price"})
	}
	if _, err := GetAppContext(c).Catalog().GetCategory(c.Request().Context(), payload.CategoryID); err != nil {
		if store.Kind(err) == store.ErrNotFound {
			return false, fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Category does not exist", map[string]string{"field": "category_id"})
		}
		return false, failErr(c, err, "Failed to check category")
	}
	return true, nil
}

func (p *productPayload) apply(dst *domain.Product) {
	dst.Name = p.Name
	dst.Description = p.Description
	dst.SKU = nil
	if p.SKU != "" {
		sku := p.SKU
		dst.SKU = &sku
	}
	dst.CategoryID = p.CategoryID
	dst.Price = p.Price.Round(2)
	dst.CostPrice = p.CostPrice
	dst.Quantity = p.Quantity
	if p.MinStockLevel != nil {
		dst.MinStockLevel = *p.MinStockLevel
	}
	dst.ImageURL = p.ImageURL
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
}

// createProduct adds a product
// @Summary create a product
// @Tags Catalog
// @Param product body productPayload true "Product information"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/catalog/products [post]
func createProduct(c echo.Context) error {
	var payload productPayload
	if valid, err := bindAndValidate(c, &payload); !valid {
		return err
	}
	if valid, err := checkProductPayload(c, &payload); !valid {
		return err
	}
	p := domain.Product{MinStockLevel: domain.DefaultMinStockLevel, IsActive: true}
	payload.apply(&p)
	if err := GetAppContext(c).Catalog().CreateProduct(c.Request().Context(), &p); err != nil {
		return failErr(c, err, "Failed to create product")
	}
	return ok(c, p)
}

// updateProduct replaces the product fields
// @Summary update a product
// @Tags Catalog
// @Param id path int true "Product ID"
// @Param product body productPayload true "Product information"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/catalog/products/{id} [put]
func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	catalog := GetAppContext(c).Catalog()
	p, err := catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err, "Product not found")
	}

	var payload productPayload
	if valid, err := bindAndValidate(c, &payload); !valid {
		return err
	}
	if valid, err := checkProductPayload(c, &payload); !valid {
		return err
	}
	payload.apply(p)
	if err := catalog.UpdateProduct(c.Request().Context(), p); err != nil {
		return failErr(c, err, "Failed to update product")
	}
	return ok(c, p)
}

// deactivateProduct is a soft delete; sales keep referencing the product.
//
// @Summary deactivate a product
// @Tags Catalog
// @Param id path int true "Product ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/catalog/products/{id} [delete]
func deactivateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	catalog := GetAppContext(c).Catalog()
	p, err := catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err, "Product not found")
	}
	p.IsActive = false
	if err := catalog.UpdateProduct(c.Request().Context(), p); err != nil {
		return failErr(c, err, "Failed to deactivate product")
	}
	writeOprLog(c, "deactivate_product", p.Name)
	return ok(c, p)
}
