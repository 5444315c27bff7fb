package main

import (
	"MPTCPSpectra/internal/config"
	"MPTCPSpectra/internal/query"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
)

func main() {
	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Find the first enabled ClickHouse writer config
	var chCfg *config.ClickHouseConfig
	for _, writerDef := range cfg.Writers {
		if writerDef.Enabled && writerDef.Type == "clickhouse" {
			chCfg = &writerDef.ClickHouse
			break
		}
	}
	if chCfg == nil {
		log.Fatalf("No enabled ClickHouse writer found in config. API server cannot start.")
	}

	querier, err := query.NewClickHouseQuerier(*chCfg)
	if err != nil {
		log.Fatalf("Failed to create querier: %v", err)
	}

	r := mux.NewRouter()
	apiHandler := &APIHandler{querier: querier}
	r.HandleFunc("/api/v1/experiments", apiHandler.listExperimentsHandler).Methods("GET")
	r.HandleFunc("/api/v1/experiments/{name}/flows", apiHandler.experimentFlowsHandler).Methods("GET")

	server := &http.Server{
		Addr:    cfg.API.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("API server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("API server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("API server exited.")
}

// APIHandler holds the dependencies for API handlers.
type APIHandler struct {
	querier query.Querier
}

// listExperimentsHandler returns one summary row per stored experiment.
func (h *APIHandler) listExperimentsHandler(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.querier.ListExperiments(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query experiments: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, summaries)
}

// experimentFlowsHandler returns the per-flow breakdown of one experiment's
// latest analysis.
func (h *APIHandler) experimentFlowsHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	flows, err := h.querier.ExperimentFlows(r.Context(), name)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query flows: %v", err), http.StatusInternalServerError)
		return
	}
	if len(flows) == 0 {
		http.Error(w, fmt.Sprintf("no data for experiment '%s'", name), http.StatusNotFound)
		return
	}
	writeJSON(w, flows)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to marshal response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(jsonBytes)
}
