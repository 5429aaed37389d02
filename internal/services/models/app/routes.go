package server

import "net/http"

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" /healthz", h.handleHealth)
	mux.HandleFunc(http.MethodGet+" /api/{kind}", h.handleEntities)
	mux.HandleFunc(http.MethodGet+" /api/{kind}/{id}/variants", h.handleVariants)
	mux.HandleFunc(http.MethodGet+" /api/{kind}/{id}/render", h.handleRender)
	mux.HandleFunc(http.MethodGet+" /{kind}/{id}/picker", h.handlePicker)
}
