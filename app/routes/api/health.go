package api

import (
	"context"
	"time"

	"github.com/vango-go/vango"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Store   string `json:"store"`
	Version string `json:"version"`
}

var storeHealth func(context.Context) error

// SetStoreHealth wires the message store probe reported by HealthGET.
func SetStoreHealth(probe func(context.Context) error) {
	storeHealth = probe
}

func HealthGET(ctx vango.Ctx) (*vango.Response[HealthResponse], error) {
	return vango.OK(checkHealth(storeHealth)), nil
}

func checkHealth(probe func(context.Context) error) HealthResponse {
	response := HealthResponse{Status: "ok", Store: "unknown", Version: "0.1.0"}
	if probe == nil {
		return response
	}
	probeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := probe(probeCtx); err != nil {
		response.Status = "degraded"
		response.Store = "unreachable"
		return response
	}
	response.Store = "ok"
	return response
}
