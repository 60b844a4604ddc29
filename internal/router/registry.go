package router

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"

	"github.com/pterm/pterm"

	"github.com/pam-ai/pamgate/internal/logger"
	"github.com/pam-ai/pamgate/internal/util"
)

// Middleware wraps a handler, limiters and request logging are applied this way
type Middleware func(http.Handler) http.Handler

type RouteInfo struct {
	Handler     http.HandlerFunc
	Description string
	Method      string
	Order       int

	// Guarded routes take user text and get the full limiter chain,
	// the rest only see the rate limiter
	Guarded bool
}

type RouteRegistry struct {
	routes   map[string]RouteInfo
	logger   logger.StyledLogger
	out      io.Writer
	orderSeq int
}

func NewRouteRegistry(logger logger.StyledLogger) *RouteRegistry {
	return &RouteRegistry{
		routes: make(map[string]RouteInfo),
		logger: logger,
		out:    os.Stdout,
	}
}

func (r *RouteRegistry) Register(route string, handler http.HandlerFunc, description string) {
	r.RegisterWithMethod(route, handler, description, http.MethodGet)
}

func (r *RouteRegistry) RegisterWithMethod(route string, handler http.HandlerFunc, description, method string) {
	r.register(route, handler, description, method, false)
}

// RegisterGuarded registers a route that accepts caller supplied message text
func (r *RouteRegistry) RegisterGuarded(route string, handler http.HandlerFunc, description, method string) {
	r.register(route, handler, description, method, true)
}

func (r *RouteRegistry) register(route string, handler http.HandlerFunc, description, method string, guarded bool) {
	r.routes[route] = RouteInfo{
		Handler:     handler,
		Description: description,
		Method:      method,
		Order:       r.orderSeq,
		Guarded:     guarded,
	}
	r.orderSeq++
}

// WireUp registers every route on mux as a "METHOD /path" pattern. guarded
// wraps routes registered with RegisterGuarded, common wraps everything
// (outermost).
func (r *RouteRegistry) WireUp(mux *http.ServeMux, common []Middleware, guarded []Middleware) {
	for _, entry := range r.ordered() {
		var handler http.Handler = entry.info.Handler
		if entry.info.Guarded {
			handler = chain(handler, guarded)
		}
		handler = chain(handler, common)

		mux.Handle(pattern(entry.info.Method, entry.path), handler)
	}
	r.logRoutesTable()
}

func pattern(method, path string) string {
	if method == "" {
		return path
	}
	return method + " " + path
}

// chain applies middlewares so the first one listed runs first
func chain(h http.Handler, middlewares []Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			h = middlewares[i](h)
		}
	}
	return h
}

type routeEntry struct {
	path string
	info RouteInfo
}

func (r *RouteRegistry) ordered() []routeEntry {
	entries := make([]routeEntry, 0, len(r.routes))
	for route, info := range r.routes {
		entries = append(entries, routeEntry{path: route, info: info})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].info.Order < entries[j].info.Order
	})
	return entries
}

func (r *RouteRegistry) logRoutesTable() {
	if len(r.routes) == 0 || r.out == nil {
		return
	}

	entries := r.ordered()

	// leave room for the route and method columns
	descWidth := max(20, util.TerminalWidth()-50)

	tableData := [][]string{
		{"ROUTE", "METHOD", "DESCRIPTION"},
	}
	for _, entry := range entries {
		tableData = append(tableData, []string{
			entry.path,
			entry.info.Method,
			util.Truncate(entry.info.Description, descWidth),
		})
	}

	r.logger.InfoWithCount("Registered web routes", len(entries))
	tableString, _ := pterm.DefaultTable.WithHasHeader().WithData(tableData).Srender()
	fmt.Fprint(r.out, tableString)
}

func (r *RouteRegistry) GetRoutes() map[string]RouteInfo {
	return r.routes
}
