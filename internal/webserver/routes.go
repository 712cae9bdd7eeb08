package webserver

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
)

type apiRoute struct {
	method  string
	path    string
	handler echo.HandlerFunc
}

var (
	routesMu  sync.Mutex
	apiRoutes []apiRoute
)

func addRoute(method, path string, h echo.HandlerFunc) {
	routesMu.Lock()
	defer routesMu.Unlock()
	for i, r := range apiRoutes {
		if r.method == method && r.path == path {
			apiRoutes[i].handler = h
			return
		}
	}
	apiRoutes = append(apiRoutes, apiRoute{method: method, path: path, handler: h})
}

// ApiGET registers a GET handler under /api/v1
func ApiGET(path string, h echo.HandlerFunc) { addRoute(http.MethodGet, path, h) }

// ApiPOST registers a POST handler under /api/v1
func ApiPOST(path string, h echo.HandlerFunc) { addRoute(http.MethodPost, path, h) }

// ApiPUT registers a PUT handler under /api/v1
func ApiPUT(path string, h echo.HandlerFunc) { addRoute(http.MethodPut, path, h) }

// ApiPATCH registers a PATCH handler under /api/v1
func ApiPATCH(path string, h echo.HandlerFunc) { addRoute(http.MethodPatch, path, h) }

// ApiDELETE registers a DELETE handler under /api/v1
func ApiDELETE(path string, h echo.HandlerFunc) { addRoute(http.MethodDelete, path, h) }

func registeredRoutes() []apiRoute {
	routesMu.Lock()
	defer routesMu.Unlock()
	out := make([]apiRoute, len(apiRoutes))
	copy(out, apiRoutes)
	return out
}
