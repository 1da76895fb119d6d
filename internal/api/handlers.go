package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "Tibia Agent API",
	})
}

func (a *API) handleAsk(w http.ResponseWriter, r *http.Request) {
	if a.agent == nil {
		http.Error(w, "agent not configured (OPENAI_API_KEY missing)", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	log.Printf("api: received question: %s", req.Question)
	answer, err := a.agent.Chat(r.Context(), req.Question)
	if err != nil {
		http.Error(w, fmt.Sprintf("error processing question: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"response": answer,
	})
}

func (a *API) handleSplit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionData string `json:"session_data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result := a.splitter.Execute(req.SessionData)

	if a.db != nil {
		if err := a.db.InsertSplit(context.Background(), result); err != nil {
			log.Printf("api: failed to store split result: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (a *API) handleListSplits(w http.ResponseWriter, r *http.Request) {
	if a.db == nil {
		http.Error(w, "split history is disabled (DATABASE_URL missing)", http.StatusServiceUnavailable)
		return
	}

	limit := 20
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	splits, err := a.db.ListSplits(r.Context(), limit)
	if err != nil {
		http.Error(w, "failed to list splits", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(splits)
}

func (a *API) handleHouses(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	world, town := vars["world"], vars["town"]

	result, err := a.houses.ForAuction(r.Context(), world, town)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to fetch houses: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
