// internal/api/server_test.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfp-bid-engine/internal/common/errors"
	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/models"
)

type fakeService struct {
	workflows map[string]*models.WorkflowInstance
	startDoc  string
	err       error
}

func (f *fakeService) Start(ctx context.Context, inlineDocument string) (*models.WorkflowInstance, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.startDoc = inlineDocument
	w := &models.WorkflowInstance{WorkflowID: "wf-1", TotalSteps: 5}
	f.workflows["wf-1"] = w
	return w, nil
}

func (f *fakeService) ExecuteNext(ctx context.Context, workflowID string) (*models.WorkflowInstance, error) {
	if f.err != nil {
		return nil, f.err
	}
	w, ok := f.workflows[workflowID]
	if !ok {
		return nil, errors.NewWorkflowNotFoundError(workflowID)
	}
	w.CurrentStep++
	return w, nil
}

func (f *fakeService) RunToCompletion(ctx context.Context, workflowID string) (*models.WorkflowInstance, error) {
	w, ok := f.workflows[workflowID]
	if !ok {
		return nil, errors.NewWorkflowNotFoundError(workflowID)
	}
	w.CurrentStep = w.TotalSteps
	w.FinalResponse = &models.FinalBid{RFPID: "RFP-7"}
	return w, nil
}

func (f *fakeService) Get(ctx context.Context, workflowID string) (*models.WorkflowInstance, error) {
	w, ok := f.workflows[workflowID]
	if !ok {
		return nil, errors.NewWorkflowNotFoundError(workflowID)
	}
	return w, nil
}

func createTestServer(t *testing.T) (*fakeService, *httptest.Server) {
	t.Helper()
	service := &fakeService{workflows: map[string]*models.WorkflowInstance{}}
	server := httptest.NewServer(NewServer(service, logger.NewTestLogger(t)).Routes())
	t.Cleanup(server.Close)
	return service, server
}

func TestHandleStart(t *testing.T) {
	service, server := createTestServer(t)

	resp, err := http.Post(server.URL+"/api/v1/workflows", "application/json",
		strings.NewReader(`{"document_text": "inline proposal"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "inline proposal", service.startDoc)

	var workflow models.WorkflowInstance
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&workflow))
	assert.Equal(t, "wf-1", workflow.WorkflowID)
}

func TestHandleStart_EmptyBody(t *testing.T) {
	_, server := createTestServer(t)

	resp, err := http.Post(server.URL+"/api/v1/workflows", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHandleStart_RejectsUnknownFields(t *testing.T) {
	_, server := createTestServer(t)

	resp, err := http.Post(server.URL+"/api/v1/workflows", "application/json",
		strings.NewReader(`{"unexpected": true}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INVALID_REQUEST", body["code"])
}

func TestHandleExecuteNext(t *testing.T) {
	service, server := createTestServer(t)
	service.workflows["wf-9"] = &models.WorkflowInstance{WorkflowID: "wf-9", TotalSteps: 5}

	resp, err := http.Post(server.URL+"/api/v1/workflows/wf-9/steps", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var workflow models.WorkflowInstance
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&workflow))
	assert.Equal(t, 1, workflow.CurrentStep)
}

func TestHandleGet_NotFound(t *testing.T) {
	_, server := createTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/workflows/missing")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "WORKFLOW_NOT_FOUND", body["code"])
}

func TestHandleExecuteNext_Conflicts(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "already completed", err: errors.NewWorkflowCompletedError("wf-1")},
		{name: "step in flight", err: errors.NewWorkflowBusyError("wf-1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, server := createTestServer(t)
			service.err = tt.err

			resp, err := http.Post(server.URL+"/api/v1/workflows/wf-1/steps", "application/json", nil)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusConflict, resp.StatusCode)
		})
	}
}

func TestHandleExecuteNext_RetryableErrorIsBadGateway(t *testing.T) {
	service, server := createTestServer(t)
	service.err = errors.NewInferenceTimeoutError("extract_sections")

	resp, err := http.Post(server.URL+"/api/v1/workflows/wf-1/steps", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INFERENCE_TIMEOUT", body["code"])
}

func TestHandleRun(t *testing.T) {
	service, server := createTestServer(t)
	service.workflows["wf-5"] = &models.WorkflowInstance{WorkflowID: "wf-5", TotalSteps: 5}

	resp, err := http.Post(server.URL+"/api/v1/workflows/wf-5/run", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var workflow models.WorkflowInstance
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&workflow))
	require.NotNil(t, workflow.FinalResponse)
	assert.Equal(t, "RFP-7", workflow.FinalResponse.RFPID)
}

func TestHandleHealth(t *testing.T) {
	_, server := createTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
