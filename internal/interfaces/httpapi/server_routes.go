package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET "+openAPIPath, handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerContractRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/codes/{codeID}/instantiate", handler.InstantiateContract)
	mux.HandleFunc("POST /v1/contracts/{address}/execute", handler.ExecuteContract)
	mux.HandleFunc("POST /v1/contracts/{address}/query", handler.QueryContract)
	mux.HandleFunc("GET /v1/contracts/{address}/events", handler.ListContractEvents)
	mux.HandleFunc("GET /v1/accounts/{address}/balances/{denom}", handler.GetBalance)
}
