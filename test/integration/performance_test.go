package integration

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/iwvelando/arr-planner/internal/arrplanner"
	"github.com/iwvelando/arr-planner/internal/querystate"
	"github.com/iwvelando/arr-planner/internal/server"
	"github.com/iwvelando/arr-planner/pkg/output"
	"go.uber.org/zap"
)

// sweepStates returns a grid of planner states covering every scenario and a
// range of amounts and rates, including zero rates.
func sweepStates() []querystate.State {
	var states []querystate.State
	for _, s := range arrplanner.Scenarios() {
		for _, months := range []float64{1, 12, 36, 120} {
			for _, price := range []float64{5, 20, 99, 499} {
				for _, t2p := range []string{"0", "10", "18", "100"} {
					state := querystate.Default().SelectScenario(s.Key).WithRate(querystate.TrialToPaid, t2p)
					state.Inputs.Months = months
					state.Inputs.MonthlyPrice = price
					states = append(states, state)
				}
			}
		}
	}
	return states
}

// TestPerformanceBaseline times a full sweep of evaluations and renderings.
func TestPerformanceBaseline(t *testing.T) {
	states := sweepStates()

	start := time.Now()
	results := make([]output.Result, 0, len(states))
	for _, state := range states {
		results = append(results, output.Evaluate(state))
	}
	evaluateTime := time.Since(start)

	start = time.Now()
	for _, r := range results {
		_ = output.NewDocument(r)
	}
	documentTime := time.Since(start)

	totalTime := evaluateTime + documentTime
	t.Logf("Performance metrics for %d states:", len(states))
	t.Logf("  Evaluate: %v", evaluateTime)
	t.Logf("  Documents: %v", documentTime)
	t.Logf("  Total time: %v", totalTime)

	if totalTime > 2*time.Second {
		t.Errorf("Total processing time %v exceeds 2 second threshold", totalTime)
	}
}

// TestDataConsistency validates that repeated runs produce identical results.
func TestDataConsistency(t *testing.T) {
	states := sweepStates()

	first := make([]output.Result, len(states))
	for i, state := range states {
		first[i] = output.Evaluate(state)
	}

	for run := 1; run < 3; run++ {
		for i, state := range states {
			got := output.Evaluate(state)
			if got.Outputs != first[i].Outputs || got.Summary != first[i].Summary {
				t.Fatalf("Run %d, state %s: result differs from first run", run, state.Encode())
			}
		}
	}
}

// TestConcurrentAPIRequests fires parallel requests at one handler.
func TestConcurrentAPIRequests(t *testing.T) {
	handler := server.NewHandler(zap.NewNop(), server.Options{MaxBodySize: 4096})
	states := sweepStates()

	errs := make(chan string, len(states))
	done := make(chan struct{})
	for i := range states {
		go func(state querystate.State) {
			defer func() { done <- struct{}{} }()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/arr-planner?"+state.Encode(), nil)
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				errs <- state.Encode() + ": status " + strconv.Itoa(rec.Code)
			}
		}(states[i])
	}
	for range states {
		<-done
	}
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}

func BenchmarkEvaluate(b *testing.B) {
	state := querystate.Default()
	for i := 0; i < b.N; i++ {
		_ = output.Evaluate(state)
	}
}

func BenchmarkEncodeDecode(b *testing.B) {
	state := querystate.Default().SelectScenario(arrplanner.Strong).WithRate(querystate.VisitToTrial, "4.5")
	for i := 0; i < b.N; i++ {
		if _, err := querystate.ParseQuery(state.Encode()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPlannerAPI(b *testing.B) {
	handler := server.NewHandler(zap.NewNop(), server.Options{MaxBodySize: 4096})
	target := "/api/arr-planner?" + querystate.Default().Encode()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusOK {
			b.Fatalf("status = %d", rec.Code)
		}
	}
}
