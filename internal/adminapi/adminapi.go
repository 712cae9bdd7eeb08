// Package adminapi implements the JSON endpoints of the shop back office:
// catalog maintenance, checkout drafts, sales history and reconciliation.
package adminapi

// Init registers every admin route. Call it before building the server.
func Init() {
	registerCategoryRoutes()
	registerProductRoutes()
	registerSaleRoutes()
	registerCheckoutRoutes()
	registerDashboardRoutes()
	registerReconcileRoutes()
	registerSettingsRoutes()
	registerSystemRoutes()
}
