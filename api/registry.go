package api

import (
	"sync"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"cavina.GO/core/registry"
)

var registerMu sync.Mutex

// ModuleFunc mounts a feature's routes onto the authenticated /api group.
// Catalog, stock and sales each contribute one of these from init().
type ModuleFunc func(g *echo.Group, db *gorm.DB)

func registeredModules() []ModuleFunc {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryAPI); ok && v != nil {
		return v.([]ModuleFunc)
	}
	return nil
}

// RegisterModule queues an /api module for mounting. Only valid during init();
// once the server has applied the modules the set is sealed.
func RegisterModule(fn ModuleFunc) {
	registerMu.Lock()
	defer registerMu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryAPI) {
		panic("api/registry: module set sealed, RegisterModule must run during init")
	}
	list := append(registeredModules(), fn)
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryAPI, list)
}

// ApplyModules mounts every queued /api module and seals the set.
func ApplyModules(g *echo.Group, db *gorm.DB) {
	for _, fn := range registeredModules() {
		fn(g, db)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryAPI)
}

// RouteFunc mounts routes directly on the Echo root, outside /api. Used for
// health checks, the terminal ingest endpoint and HTML pages.
type RouteFunc func(e *echo.Echo, db *gorm.DB)

func registeredRoutes() []RouteFunc {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryRoutes); ok && v != nil {
		return v.([]RouteFunc)
	}
	return nil
}

// RegisterRoute queues a root-level route module. Only valid during init().
func RegisterRoute(fn RouteFunc) {
	registerMu.Lock()
	defer registerMu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryRoutes) {
		panic("api/registry: route set sealed, RegisterRoute must run during init")
	}
	list := append(registeredRoutes(), fn)
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryRoutes, list)
}

// RegisterGET queues a bare GET handler on the root.
func RegisterGET(path string, handler echo.HandlerFunc) {
	RegisterRoute(func(e *echo.Echo, _ *gorm.DB) {
		e.GET(path, handler)
	})
}

// RegisterPOST queues a bare POST handler on the root.
func RegisterPOST(path string, handler echo.HandlerFunc) {
	RegisterRoute(func(e *echo.Echo, _ *gorm.DB) {
		e.POST(path, handler)
	})
}

// RegisterHTMLModule queues a server-rendered page module. Same machinery as
// RegisterRoute, kept separate so page packages read naturally.
func RegisterHTMLModule(fn RouteFunc) {
	RegisterRoute(fn)
}

// ApplyRoutes mounts every queued root-level route and seals the set.
func ApplyRoutes(e *echo.Echo, db *gorm.DB) {
	for _, fn := range registeredRoutes() {
		fn(e, db)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryRoutes)
}
