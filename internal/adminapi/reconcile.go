package adminapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/saga"
	"github.com/talkincode/stockledger/internal/webserver"
)

type resolvePayload struct {
	Note string `json:"note" validate:"required,max=500"`
}

func (p *resolvePayload) normalize() {
	p.Note = strings.TrimSpace(p.Note)
}

func registerReconcileRoutes() {
	webserver.ApiGET("/reconcile/entries", listSagaEntries)
	webserver.ApiGET("/reconcile/entries/:id", getSagaEntry)
	webserver.ApiPOST("/reconcile/run", runReconcile)
	webserver.ApiPOST("/reconcile/entries/:id/resolve", resolveSagaEntry)
}

var sagaStatuses = map[string]bool{
	domain.SagaSaleWritten:        true,
	domain.SagaInventoryPending:   true,
	domain.SagaInventoryConfirmed: true,
	domain.SagaManual:             true,
	domain.SagaResolved:           true,
}

// listSagaEntries lists inventory journal entries
// @Summary list reconciliation entries
// @Tags Reconcile
// @Param page query int false "Page number"
// @Param perPage query int false "Items per page"
// @Param status query string false "Entry status"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/reconcile/entries [get]
func listSagaEntries(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	if status != "" && !sagaStatuses[status] {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown saga status", status)
	}
	page, pageSize := parsePagination(c)
	entries, total, err := GetAppContext(c).Journal().List(c.Request().Context(), status, page, pageSize)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to query reconcile entries", err.Error())
	}
	return paged(c, entries, total, page, pageSize)
}

func sagaFail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, saga.ErrEntryNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Reconcile entry not found", nil)
	case errors.Is(err, saga.ErrNotManual):
		return fail(c, http.StatusConflict, "INVALID_TRANSITION", err.Error(), nil)
	}
	return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Reconcile journal failure", err.Error())
}

// getSagaEntry returns an entry with its attempt log
// @Summary get a reconciliation entry
// @Tags Reconcile
// @Param id path int true "Entry ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/reconcile/entries/{id} [get]
func getSagaEntry(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid entry ID", nil)
	}
	journal := GetAppContext(c).Journal()
	entry, err := journal.Get(c.Request().Context(), id)
	if err != nil {
		return sagaFail(c, err)
	}
	logs, err := journal.Logs(c.Request().Context(), id)
	if err != nil {
		return sagaFail(c, err)
	}
	return ok(c, map[string]interface{}{"entry": entry, "logs": logs})
}

// runReconcile runs a reconciliation pass now
// @Summary run reconciliation
// @Tags Reconcile
// @Success 200 {object} Response
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/reconcile/run [post]
func runReconcile(c echo.Context) error {
	rep, err := GetAppContext(c).Reconciler().RunOnce(c.Request().Context())
	if errors.Is(err, saga.ErrPassRunning) {
		return fail(c, http.StatusConflict, "PASS_RUNNING", err.Error(), nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Reconciliation failed", err.Error())
	}
	return ok(c, rep)
}

// resolveSagaEntry closes a manual entry after an operator fixed the stock
// @Summary resolve a manual entry
// @Tags Reconcile
// @Param id path int true "Entry ID"
// @Param resolution body resolvePayload true "Resolution note"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/reconcile/entries/{id}/resolve [post]
func resolveSagaEntry(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid entry ID", nil)
	}
	var payload resolvePayload
	if valid, err := bindAndValidate(c, &payload); !valid {
		return err
	}
	entry, err := GetAppContext(c).Reconciler().Resolve(c.Request().Context(), id, payload.Note)
	if err != nil {
		return sagaFail(c, err)
	}
	writeOprLog(c, "resolve_saga", fmt.Sprintf("sale %d: %s", entry.SaleID, payload.Note))
	return ok(c, entry)
}
