/*
handlers_test.go - HTTP API tests

Exercises the full request path through the chi router: instance
listing, planning, simulation with run archiving, and the run history
endpoints.
*/
package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/logistics-engine/api"
	"github.com/warp/logistics-engine/dataset"
	"github.com/warp/logistics-engine/store"
)

func newServer(t *testing.T) (*httptest.Server, *store.Memory) {
	t.Helper()
	runs := store.NewMemory()
	h := api.NewHandler(runs, dataset.Small(), dataset.Medium())
	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, runs
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body, out any) int {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// =============================================================================
// INSTANCES
// =============================================================================

func TestListInstances(t *testing.T) {
	srv, _ := newServer(t)

	var dtos []api.InstanceDTO
	status := getJSON(t, srv.URL+"/api/instances", &dtos)

	require.Equal(t, http.StatusOK, status)
	require.Len(t, dtos, 2)
	assert.Equal(t, "small", dtos[0].Name)
	assert.Equal(t, "medium", dtos[1].Name)
	assert.Equal(t, 1, dtos[0].Orders)
	assert.Equal(t, 3, dtos[1].Stations)
}

func TestGetInstance(t *testing.T) {
	srv, _ := newServer(t)

	var dto api.InstanceDetailDTO
	status := getJSON(t, srv.URL+"/api/instances/medium", &dto)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "medium", dto.Name)
	require.Len(t, dto.OrderList, 3)
	assert.Equal(t, "O1", dto.OrderList[0].ID)
	assert.Equal(t, "P1", dto.OrderList[0].Item)
	assert.Equal(t, "1000", dto.OrderList[0].Income)
}

func TestGetInstance_UnknownIs404(t *testing.T) {
	srv, _ := newServer(t)
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/instances/nope", nil))
}

// =============================================================================
// PLANNING
// =============================================================================

func TestPostPlan_FCFS(t *testing.T) {
	srv, _ := newServer(t)

	var resp api.PlanResponse
	status := postJSON(t, srv.URL+"/api/plan",
		api.PlanRequest{Instance: "small"}, &resp)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "small", resp.Instance)
	assert.Equal(t, "fcfs", resp.Planner, "empty planner defaults to fcfs")
	require.Len(t, resp.Steps, 12)
	assert.Equal(t, "acquire_from_supplier", resp.Steps[0].Kind)
	assert.Equal(t, "truck-1", resp.Steps[0].Resource)
	assert.Nil(t, resp.Attribution)
}

func TestPostPlan_DepthReportsAttribution(t *testing.T) {
	srv, _ := newServer(t)

	var resp api.PlanResponse
	status := postJSON(t, srv.URL+"/api/plan",
		api.PlanRequest{Instance: "medium", Planner: "depth"}, &resp)

	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Attribution)
	assert.Equal(t, 2, resp.Attribution["P2"]["O2"])
	assert.Equal(t, 5, resp.Attribution["P2"]["O3"])
}

func TestPostPlan_UnknownPlannerIs400(t *testing.T) {
	srv, _ := newServer(t)
	status := postJSON(t, srv.URL+"/api/plan",
		api.PlanRequest{Instance: "small", Planner: "oracle"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPostPlan_UnknownInstanceIs404(t *testing.T) {
	srv, _ := newServer(t)
	status := postJSON(t, srv.URL+"/api/plan",
		api.PlanRequest{Instance: "nope"}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

// =============================================================================
// SIMULATION
// =============================================================================

func TestPostSimulate_SmallCompletesAndArchives(t *testing.T) {
	srv, runs := newServer(t)

	var resp api.SimulateResponse
	status := postJSON(t, srv.URL+"/api/simulate",
		api.SimulateRequest{Instance: "small"}, &resp)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, resp.RemainingSteps)
	assert.Equal(t, "1000", resp.Income)
	assert.LessOrEqual(t, resp.FinalTime, int64(100))
	assert.Empty(t, resp.Events, "no category requested")
	require.NotEmpty(t, resp.RunID)

	// The run landed in the archive.
	rec, err := runs.Get(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, "small", rec.Instance)
	assert.Equal(t, "fcfs", rec.Planner)
	assert.Equal(t, resp.FinalTime, rec.FinalTime)
	assert.Equal(t, "1000", rec.Income.String())
}

func TestPostSimulate_EventFilter(t *testing.T) {
	srv, _ := newServer(t)

	var resp api.SimulateResponse
	status := postJSON(t, srv.URL+"/api/simulate",
		api.SimulateRequest{
			Instance:      "small",
			EventCategory: "stock",
		}, &resp)

	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, resp.Events)
	for _, e := range resp.Events {
		assert.Equal(t, "stock", e.Category)
	}
}

func TestPostSimulate_DepthOnMedium(t *testing.T) {
	srv, _ := newServer(t)

	var resp api.SimulateResponse
	status := postJSON(t, srv.URL+"/api/simulate",
		api.SimulateRequest{Instance: "medium", Planner: "depth"}, &resp)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, resp.RemainingSteps)
	assert.Equal(t, "4500", resp.Income)
	require.NotNil(t, resp.Attribution)
	assert.Equal(t, 7, resp.Attribution["P2"]["O2"]+resp.Attribution["P2"]["O3"])
}

func TestPostSimulate_TinyHorizonLeavesWork(t *testing.T) {
	srv, _ := newServer(t)

	var resp api.SimulateResponse
	status := postJSON(t, srv.URL+"/api/simulate",
		api.SimulateRequest{Instance: "small", Horizon: 5}, &resp)

	require.Equal(t, http.StatusOK, status)
	assert.Greater(t, resp.RemainingSteps, 0)
	assert.Equal(t, "0", resp.Income)
}

func TestPostSimulate_BadBodyIs400(t *testing.T) {
	srv, _ := newServer(t)
	resp, err := http.Post(srv.URL+"/api/simulate", "application/json",
		bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// RUN HISTORY
// =============================================================================

func TestRunHistory_ListAndGet(t *testing.T) {
	srv, _ := newServer(t)

	var first, second api.SimulateResponse
	require.Equal(t, http.StatusOK, postJSON(t, srv.URL+"/api/simulate",
		api.SimulateRequest{Instance: "small"}, &first))
	require.Equal(t, http.StatusOK, postJSON(t, srv.URL+"/api/simulate",
		api.SimulateRequest{Instance: "medium", Planner: "depth"}, &second))

	var runs []api.RunDTO
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/runs", &runs))
	require.Len(t, runs, 2)

	var one api.RunDTO
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/runs/"+first.RunID, &one))
	assert.Equal(t, first.RunID, one.ID)
	assert.Equal(t, "small", one.Instance)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/runs/missing", nil))
}
