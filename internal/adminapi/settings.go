package adminapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/stockledger/internal/sale"
	"github.com/talkincode/stockledger/internal/webserver"
)

type settingItem struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

func registerSettingsRoutes() {
	webserver.ApiGET("/system/settings", listSettings)
	webserver.ApiPUT("/system/settings", saveSettings)
}

// listSettings returns every setting with its schema
// @Summary list settings
// @Tags System
// @Success 200 {object} Response{data=[]settingItem}
// @Router /api/v1/system/settings [get]
func listSettings(c echo.Context) error {
	mgr := GetAppContext(c).ConfigMgr()
	values := mgr.All()
	items := make([]settingItem, 0, len(values))
	for key, s := range mgr.Schemas() {
		items = append(items, settingItem{Key: key, Value: values[key], Type: s.Type, Description: s.Description})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	return ok(c, items)
}

// saveSettings updates settings by key
// @Summary update settings
// @Tags System
// @Param settings body map[string]string true "Setting values by key"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/system/settings [put]
func saveSettings(c echo.Context) error {
	payload := map[string]string{}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request body", err.Error())
	}
	if len(payload) == 0 {
		return fail(c, http.StatusBadRequest, sale.CodeValidation, "No settings given", nil)
	}
	if err := GetAppContext(c).SaveSettings(payload); err != nil {
		return fail(c, http.StatusBadRequest, sale.CodeValidation, err.Error(), nil)
	}
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	writeOprLog(c, "update_settings", strings.Join(keys, ","))
	return listSettings(c)
}
