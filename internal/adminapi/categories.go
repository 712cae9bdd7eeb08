package adminapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/store"
	"github.com/talkincode/stockledger/internal/webserver"
	"go.uber.org/zap"
)

type categoryPayload struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Description string `json:"description" validate:"max=200"`
	IsActive    *bool  `json:"is_active"`
}

func (p *categoryPayload) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
}

type activePayload struct {
	IsActive bool `json:"is_active"`
}

func registerCategoryRoutes() {
	webserver.ApiGET("/catalog/categories", listCategories)
	webserver.ApiGET("/catalog/categories/:id", getCategory)
	webserver.ApiGET("/catalog/categories/:id/products", listSelectableProducts)
	webserver.ApiPOST("/catalog/categories", createCategory)
	webserver.ApiPUT("/catalog/categories/:id", updateCategory)
	webserver.ApiPATCH("/catalog/categories/:id/active", setCategoryActive)
	webserver.ApiDELETE("/catalog/categories/:id", deleteCategory)
}

// listCategories lists categories
// @Summary list categories
// @Tags Catalog
// @Param active query bool false "Only active categories"
// @Param q query string false "Search term"
// @Success 200 {object} Response
// @Router /api/v1/catalog/categories [get]
func listCategories(c echo.Context) error {
	filter := store.CategoryFilter{
		ActiveOnly: cast.ToBool(c.QueryParam("active")),
		Search:     strings.TrimSpace(c.QueryParam("q")),
	}
	rows, err := GetAppContext(c).Catalog().ListCategories(c.Request().Context(), filter)
	if err != nil {
		return failErr(c, err, "Failed to query categories")
	}
	return ok(c, rows)
}

// getCategory returns one category
// @Summary get category detail
// @Tags Catalog
// @Param id path int true "Category ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/catalog/categories/{id} [get]
func getCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	cat, err := GetAppContext(c).Catalog().GetCategory(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err, "Category not found")
	}
	return ok(c, cat)
}

// listSelectableProducts returns what the sale composer may offer: active
// products of the category with stock on hand, by name.
//
// @Summary list products available for sale in a category
// @Tags Catalog
// @Param id path int true "Category ID"
// @Success 200 {object} Response
// @Router /api/v1/catalog/categories/{id}/products [get]
func listSelectableProducts(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	rows, err := GetAppContext(c).Catalog().ListProducts(c.Request().Context(), store.ProductFilter{
		CategoryID:          store.Int64(id),
		ActiveOnly:          true,
		QuantityGreaterThan: store.Int(0),
	})
	if err != nil {
		return failErr(c, err, "Failed to query products")
	}
	return ok(c, rows)
}

// createCategory adds a category
// @Summary create a category
// @Tags Catalog
// @Param category body categoryPayload true "Category information"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/catalog/categories [post]
func createCategory(c echo.Context) error {
	var payload categoryPayload
	if valid, err := bindAndValidate(c, &payload); !valid {
		return err
	}
	cat := domain.Category{
		Name:        payload.Name,
		Description: payload.Description,
		IsActive:    payload.IsActive == nil || *payload.IsActive,
	}
	if err := GetAppContext(c).Catalog().CreateCategory(c.Request().Context(), &cat); err != nil {
		return categoryWriteFail(c, err, cat.Name)
	}
	zap.L().Info("category created", zap.Int64("id", cat.ID), zap.String("name", cat.Name))
	return ok(c, cat)
}

// updateCategory replaces name, description and active flag
// @Summary update a category
// @Tags Catalog
// @Param id path int true "Category ID"
// @Param category body categoryPayload true "Category information"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/catalog/categories/{id} [put]
func updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	catalog := GetAppContext(c).Catalog()
	cat, err := catalog.GetCategory(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err, "Category not found")
	}
	var payload categoryPayload
	if valid, err := bindAndValidate(c, &payload); !valid {
		return err
	}
	cat.Name = payload.Name
	cat.Description = payload.Description
	if payload.IsActive != nil {
		cat.IsActive = *payload.IsActive
	}
	if err := catalog.UpdateCategory(c.Request().Context(), cat); err != nil {
		return categoryWriteFail(c, err, cat.Name)
	}
	return ok(c, cat)
}

// setCategoryActive toggles the active flag
// @Summary activate or deactivate a category
// @Tags Catalog
// @Param id path int true "Category ID"
// @Param active body activePayload true "Active flag"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/catalog/categories/{id}/active [patch]
func setCategoryActive(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var payload activePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request body", err.Error())
	}
	catalog := GetAppContext(c).Catalog()
	cat, err := catalog.GetCategory(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err, "Category not found")
	}
	cat.IsActive = payload.IsActive
	if err := catalog.UpdateCategory(c.Request().Context(), cat); err != nil {
		return failErr(c, err, "Failed to update category")
	}
	return ok(c, cat)
}

// deleteCategory refuses while products still reference the category
// @Summary delete a category
// @Tags Catalog
// @Param id path int true "Category ID"
// @Success 200 {object} Response
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/catalog/categories/{id} [delete]
func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	ctx := c.Request().Context()
	catalog := GetAppContext(c).Catalog()
	err = catalog.DeleteCategory(ctx, id)
	if errors.Is(err, store.ErrInUse) {
		n, _ := catalog.CountProductsInCategory(ctx, id)
		return fail(c, http.StatusConflict, "CATEGORY_IN_USE",
			"Category still has products and cannot be deleted",
			map[string]int64{"product_count": n})
	}
	if err != nil {
		return failErr(c, err, "Failed to delete category")
	}
	writeOprLog(c, "delete_category", cast.ToString(id))
	return ok(c, map[string]interface{}{"id": cast.ToString(id)})
}

func categoryWriteFail(c echo.Context, err error, name string) error {
	if errors.Is(err, store.ErrConstraint) {
		return fail(c, http.StatusConflict, "CATEGORY_EXISTS", "A category with this name already exists", name)
	}
	return failErr(c, err, "Failed to save category")
}
