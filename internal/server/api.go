package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iwvelando/arr-planner/internal/arrplanner"
	"github.com/iwvelando/arr-planner/internal/querystate"
	"github.com/iwvelando/arr-planner/pkg/constants"
	"github.com/iwvelando/arr-planner/pkg/format"
	"github.com/iwvelando/arr-planner/pkg/output"
	"go.uber.org/zap"
)

// plannerResponse is the JSON answer for one planner state.
type plannerResponse struct {
	output.Document
	ShareURL string `json:"shareUrl"`
}

type scenarioResponse struct {
	Key     arrplanner.ScenarioKey `json:"key"`
	Label   string                 `json:"label"`
	Rates   arrplanner.Rates       `json:"rates"`
	Percent map[string]string      `json:"percent"`
	Query   string                 `json:"query"`
}

// bodyKeys are the accepted POST fields, identical to the query keys.
var bodyKeys = []string{
	constants.QueryScenario,
	constants.QueryARR,
	constants.QueryMonths,
	constants.QueryPrice,
	constants.QueryE2V,
	constants.QueryV2T,
	constants.QueryT2P,
}

func (h *handler) handlePlannerAPI(c *gin.Context) {
	h.respondPlanner(c, querystate.Decode(c.Request.URL.Query()), "server.handlePlannerAPI")
}

func (h *handler) handlePlannerAPIPost(c *gin.Context) {
	const op = "server.handlePlannerAPIPost"

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize)
	values, err := decodePlannerBody(c.Request.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return
		}
		h.respondErrorWithOp(c, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.respondPlanner(c, querystate.Decode(values), op)
}

func (h *handler) respondPlanner(c *gin.Context, state querystate.State, op string) {
	result := output.Evaluate(state)
	h.logger.Debug("planner evaluated",
		zap.String("op", op),
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("query", state.Encode()),
	)

	c.JSON(http.StatusOK, plannerResponse{
		Document: output.NewDocument(result),
		ShareURL: state.URL(constants.PlannerPath),
	})
}

// decodePlannerBody reads a JSON object whose planner fields are numbers or
// strings and returns them as query values. Unknown fields and nulls are
// ignored.
func decodePlannerBody(r io.Reader) (url.Values, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body map[string]interface{}
	if err := dec.Decode(&body); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, err
		}
		if errors.Is(err, io.EOF) {
			return url.Values{}, nil
		}
		return nil, fmt.Errorf("failed to decode request body: %w", err)
	}

	values := url.Values{}
	for _, key := range bodyKeys {
		raw, ok := body[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case json.Number:
			values.Set(key, v.String())
		case string:
			values.Set(key, strings.TrimSpace(v))
		default:
			return nil, fmt.Errorf("field %s must be a number or string", key)
		}
	}
	return values, nil
}

func (h *handler) handleScenarios(c *gin.Context) {
	scenarios := arrplanner.Scenarios()
	resp := make([]scenarioResponse, 0, len(scenarios))
	for _, s := range scenarios {
		resp = append(resp, scenarioResponse{
			Key:   s.Key,
			Label: s.Label,
			Rates: s.Rates,
			Percent: map[string]string{
				"exposureToVisit": format.Percent(s.Rates.ExposureToVisit),
				"visitToTrial":    format.Percent(s.Rates.VisitToTrial),
				"trialToPaid":     format.Percent(s.Rates.TrialToPaid),
			},
			Query: querystate.Default().SelectScenario(s.Key).Encode(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"scenarios": resp})
}
