package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/pedidos-client/internal/adapter/backend"
	"github.com/rl1809/pedidos-client/internal/core/domain"
	"github.com/rl1809/pedidos-client/internal/core/service"
	"github.com/rl1809/pedidos-client/internal/logger"
)

const (
	totalRefreshes = 200
	concurrency    = 20
	maxLatency     = 20 * time.Millisecond
	orderID        = "ord-stress"
)

func main() {
	// the pedidos API and the session API exchange prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	// In-process pedidos backend with random latency so responses overtake
	// each other.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	var statusCalls atomic.Int64
	srv := &http.Server{Handler: fakeBackend(&statusCalls)}
	go srv.Serve(lis)
	defer srv.Close()

	api := backend.NewPedidosClient("http://"+lis.Addr().String()+"/api/pedidos", 5*time.Second)
	appLog := logger.Discard()
	nav := service.NewNavigator("stress",
		service.NewCatalog(api, nil, appLog),
		service.NewOrderSubmitter(api, nil, appLog),
		service.NewStatusTracker(api, appLog),
		nil, appLog)

	// Drive the session to the tracking screen
	steps := []service.Action{
		{Type: service.ActionLogin, Argument: "cliente-1"},
		{Type: service.ActionSelectRestaurant, Argument: "r1"},
		{Type: service.ActionAddItem, Argument: "p1"},
		{Type: service.ActionSubmit},
	}
	for _, a := range steps {
		if _, err := nav.Dispatch(ctx, a); err != nil {
			log.Fatalf("setup action %s failed: %v", a.Type, err)
		}
	}
	appliedBefore, discardedBefore := nav.Stats()

	// Spawn concurrent refreshes
	var wg sync.WaitGroup
	var failCount atomic.Int32
	sem := make(chan struct{}, concurrency)
	start := time.Now()

	for i := 0; i < totalRefreshes; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if _, err := nav.Dispatch(ctx, service.Action{Type: service.ActionRefresh}); err != nil {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	applied, discarded := nav.Stats()
	applied -= appliedBefore
	discarded -= discardedBefore
	view := nav.View()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Refreshes:        %d\n", totalRefreshes)
	fmt.Printf("Applied:          %d\n", applied)
	fmt.Printf("Discarded:        %d\n", discarded)
	fmt.Printf("Failed:           %d\n", failCount.Load())
	fmt.Printf("Status Calls:     %d\n", statusCalls.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Assertions
	if applied+discarded == totalRefreshes && failCount.Load() == 0 {
		fmt.Println("PASS: Every refresh response was either applied or discarded")
	} else {
		fmt.Printf("FAIL: Expected %d settled responses, got %d applied + %d discarded\n",
			totalRefreshes, applied, discarded)
	}

	if view.Screen == domain.ScreenTracking && view.OrderID == orderID && view.Delivery != nil {
		fmt.Printf("PASS: Session still tracking %s (%s)\n", view.OrderID, view.Delivery.StatusLabel)
	} else {
		fmt.Printf("FAIL: Unexpected final view %s %q\n", view.Screen, view.OrderID)
	}
}

func fakeBackend(statusCalls *atomic.Int64) http.Handler {
	writeJSON := func(w http.ResponseWriter, v any) {
		time.Sleep(rand.N(maxLatency))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/pedidos/restaurantes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{"id": "r1", "nome": "Pizzaria"}})
	})
	mux.HandleFunc("GET /api/pedidos/restaurantes/{id}/cardapio", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{"id": "p1", "nome": "Pizza", "preco": 42.5}})
	})
	mux.HandleFunc("GET /api/pedidos/cliente/{id}/nome", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"nome": "Cliente Stress"})
	})
	mux.HandleFunc("POST /api/pedidos/criar-pedidos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"id": orderID, "clienteId": "cliente-1"})
	})
	mux.HandleFunc("GET /api/pedidos/{id}/entregador", func(w http.ResponseWriter, r *http.Request) {
		n := statusCalls.Add(1)
		writeJSON(w, map[string]string{
			"nomeEntregador": "Ana",
			"statusEntrega":  fmt.Sprintf("Atualização %d", n),
		})
	})
	return mux
}
