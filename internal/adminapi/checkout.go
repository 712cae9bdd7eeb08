package adminapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/sale"
	"github.com/talkincode/stockledger/internal/store"
	"github.com/talkincode/stockledger/internal/webserver"
	"go.uber.org/zap"
)

const sessionDraftKey = "draft_id"

// draftView is a composer snapshot plus the draft id.
type draftView struct {
	ID string `json:"id"`
	sale.View
}

type selectPayload struct {
	ProductID int64 `json:"product_id,string" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,gte=1"`
}

type customerPayload struct {
	Name  string `json:"name" validate:"max=200"`
	Email string `json:"email" validate:"max=200"`
	Phone string `json:"phone" validate:"max=64"`
}

type paymentPayload struct {
	Method   domain.PaymentMethod `json:"payment_method" swaggertype:"string"`
	Status   domain.PaymentStatus `json:"payment_status" swaggertype:"string"`
	Discount decimal.Decimal      `json:"discount" swaggertype:"string"`
	Notes    string               `json:"notes" validate:"max=1000"`
}

func registerCheckoutRoutes() {
	webserver.ApiPOST("/checkout", createDraft)
	webserver.ApiGET("/checkout/current", currentDraft)
	webserver.ApiGET("/checkout/:id", getDraft)
	webserver.ApiPUT("/checkout/:id/product", selectDraftProduct)
	webserver.ApiPUT("/checkout/:id/customer", setDraftCustomer)
	webserver.ApiPUT("/checkout/:id/payment", updateDraftPayment)
	webserver.ApiPOST("/checkout/:id/back", draftBack)
	webserver.ApiPOST("/checkout/:id/confirm", confirmDraft)
	webserver.ApiDELETE("/checkout/:id", cancelDraft)
}

func viewOf(d *sale.Draft) draftView {
	return draftView{ID: d.ID, View: d.Composer.Snapshot()}
}

// rememberDraft keeps the draft id in the cookie session so a reload finds it.
func rememberDraft(c echo.Context, id string) {
	sess, err := session.Get(webserver.SessionName, c)
	if err != nil {
		zap.L().Debug("checkout session unavailable", zap.Error(err), zap.String("namespace", "api"))
		return
	}
	if id == "" {
		delete(sess.Values, sessionDraftKey)
	} else {
		sess.Values[sessionDraftKey] = id
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		zap.L().Debug("checkout session save failed", zap.Error(err), zap.String("namespace", "api"))
	}
}

func lookupDraft(c echo.Context) (*sale.Draft, error) {
	d, found := GetAppContext(c).Drafts().Get(c.Param("id"))
	if !found {
		return nil, fail(c, http.StatusNotFound, sale.CodeNotFound, "Checkout draft not found", nil)
	}
	return d, nil
}

// createDraft opens a checkout draft and remembers it in the session
// @Summary open a checkout draft
// @Tags Checkout
// @Success 201 {object} Response
// @Router /api/v1/checkout [post]
func createDraft(c echo.Context) error {
	d := GetAppContext(c).Drafts().Create()
	rememberDraft(c, d.ID)
	return c.JSON(http.StatusCreated, Response{Data: viewOf(d)})
}

// currentDraft returns the draft tracked by the session
// @Summary get the current checkout draft
// @Tags Checkout
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/checkout/current [get]
func currentDraft(c echo.Context) error {
	sess, err := session.Get(webserver.SessionName, c)
	if err == nil {
		if id, _ := sess.Values[sessionDraftKey].(string); id != "" {
			if d, found := GetAppContext(c).Drafts().Get(id); found {
				return ok(c, viewOf(d))
			}
		}
	}
	return fail(c, http.StatusNotFound, sale.CodeNotFound, "No open checkout draft", nil)
}

// getDraft returns the state of a draft
// @Summary get a checkout draft
// @Tags Checkout
// @Param id path string true "Draft ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/checkout/{id} [get]
func getDraft(c echo.Context) error {
	d, err := lookupDraft(c)
	if d == nil {
		return err
	}
	return ok(c, viewOf(d))
}

// selectDraftProduct reads the product fresh and selects it. During review the
// same product only changes the quantity.
//
// @Summary select the product and quantity
// @Tags Checkout
// @Param id path string true "Draft ID"
// @Param selection body selectPayload true "Product and quantity"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/checkout/{id}/product [put]
func selectDraftProduct(c echo.Context) error {
	d, err := lookupDraft(c)
	if d == nil {
		return err
	}
	var payload selectPayload
	if valid, err := bindAndValidate(c, &payload); !valid {
		return err
	}

	if rp, reviewing := d.Composer.State().(sale.ReviewingPayment); reviewing && rp.Selection.Product.ID == payload.ProductID {
		if err := d.Composer.UpdateQuantity(payload.Quantity); err != nil {
			return failErr(c, err, "Quantity rejected")
		}
		return ok(c, viewOf(d))
	}

	product, err := GetAppContext(c).Catalog().GetProduct(c.Request().Context(), payload.ProductID)
	if err != nil {
		if store.Kind(err) == store.ErrNotFound {
			return fail(c, http.StatusBadRequest, sale.CodeValidation, "Product does not exist", map[string]string{"field": "product_id"})
		}
		return failErr(c, err, "Failed to read product")
	}
	if err := d.Composer.SelectProduct(*product, payload.Quantity); err != nil {
		return failErr(c, err, "Selection rejected")
	}
	return ok(c, viewOf(d))
}

// setDraftCustomer stores the optional customer contact
// @Summary set customer information
// @Tags Checkout
// @Param id path string true "Draft ID"
// @Param customer body customerPayload true "Customer information"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/checkout/{id}/customer [put]
func setDraftCustomer(c echo.Context) error {
	d, err := lookupDraft(c)
	if d == nil {
		return err
	}
	var payload customerPayload
	if valid, err := bindAndValidate(c, &payload); !valid {
		return err
	}
	err = d.Composer.SetCustomer(sale.Customer{Name: payload.Name, Email: payload.Email, Phone: payload.Phone})
	if err != nil {
		return failErr(c, err, "Customer rejected")
	}
	return ok(c, viewOf(d))
}

// updateDraftPayment changes method, status, discount and notes
// @Summary update payment details
// @Tags Checkout
// @Param id path string true "Draft ID"
// @Param payment body paymentPayload true "Payment details"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/checkout/{id}/payment [put]
func updateDraftPayment(c echo.Context) error {
	d, err := lookupDraft(c)
	if d == nil {
		return err
	}
	var payload paymentPayload
	if valid, err := bindAndValidate(c, &payload); !valid {
		return err
	}
	err = d.Composer.UpdatePayment(sale.Payment{
		Method:   payload.Method,
		Status:   payload.Status,
		Discount: payload.Discount,
		Notes:    payload.Notes,
	})
	if err != nil {
		return failErr(c, err, "Payment rejected")
	}
	return ok(c, viewOf(d))
}

// draftBack returns to the previous step
// @Summary go back one step
// @Tags Checkout
// @Param id path string true "Draft ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/checkout/{id}/back [post]
func draftBack(c echo.Context) error {
	d, err := lookupDraft(c)
	if d == nil {
		return err
	}
	if err := d.Composer.Back(); err != nil {
		return failErr(c, err, "Cannot go back")
	}
	return ok(c, viewOf(d))
}

// confirmDraft completes the sale
// @Summary confirm the sale
// @Tags Checkout
// @Param id path string true "Draft ID"
// @Success 200 {object} Response
// @Success 202 {object} PartialResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/checkout/{id}/confirm [post]
func confirmDraft(c echo.Context) error {
	d, err := lookupDraft(c)
	if d == nil {
		return err
	}
	record, err := d.Composer.Confirm(c.Request().Context())
	switch {
	case errors.Is(err, sale.ErrPartialCommit):
		rememberDraft(c, "")
		return partial(c, record)
	case err != nil:
		return failErr(c, err, "Sale failed")
	}
	rememberDraft(c, "")
	return ok(c, viewOf(d))
}

// cancelDraft discards the draft
// @Summary cancel a checkout draft
// @Tags Checkout
// @Param id path string true "Draft ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/checkout/{id} [delete]
func cancelDraft(c echo.Context) error {
	d, err := lookupDraft(c)
	if d == nil {
		return err
	}
	if err := d.Composer.Cancel(); err != nil {
		return failErr(c, err, "Cannot cancel")
	}
	GetAppContext(c).Drafts().Remove(d.ID)
	rememberDraft(c, "")
	return c.NoContent(http.StatusNoContent)
}
