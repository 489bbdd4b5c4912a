package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/testlens-hq/testlens/pkg/model"
)

const userServiceSource = `
class UserService {
  constructor(private userRepo: UserRepository) {}

  createUser(email: string) {
    if (!email) {
      throw new Error('Email is required');
    }
    return this.userRepo.save(email);
  }

  findUser(id: string) {
    return this.userRepo.findOne(id);
  }
}
`

func postJSON(t *testing.T, server *Server, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)
	return rr
}

func TestAnalyze_InlineSource(t *testing.T) {
	server := newTestServer(t)

	rr := postJSON(t, server, "/api/v1/analyze", AnalyzeRequest{
		FilePath: "user-service.ts",
		Source:   userServiceSource,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("analyze returned status %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var bundle model.AnalysisBundle
	if err := json.Unmarshal(rr.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("failed to unmarshal bundle: %v", err)
	}

	if bundle.Class.Name != "UserService" {
		t.Errorf("class name = %s, want UserService", bundle.Class.Name)
	}
	if len(bundle.Methods) != 2 {
		t.Errorf("len(Methods) = %d, want 2", len(bundle.Methods))
	}
}

func TestAnalyze_MissingFilePath(t *testing.T) {
	server := newTestServer(t)

	rr := postJSON(t, server, "/api/v1/analyze", AnalyzeRequest{Source: userServiceSource})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("analyze returned status %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestAnalyze_InvalidJSON(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewBufferString(`{invalid json}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("analyze returned status %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestAnalyze_UnknownClass(t *testing.T) {
	server := newTestServer(t)

	rr := postJSON(t, server, "/api/v1/analyze", AnalyzeRequest{
		FilePath:  "user-service.ts",
		Source:    userServiceSource,
		ClassName: "PaymentService",
	})

	if rr.Code != http.StatusNotFound {
		t.Errorf("analyze returned status %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestAnalyze_UnknownFocusMethod(t *testing.T) {
	server := newTestServer(t)

	rr := postJSON(t, server, "/api/v1/analyze", AnalyzeRequest{
		FilePath:    "user-service.ts",
		Source:      userServiceSource,
		FocusMethod: "ghostMethod",
	})

	if rr.Code != http.StatusNotFound {
		t.Errorf("analyze returned status %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestSessionLifecycle(t *testing.T) {
	server := newTestServer(t)

	// Create
	rr := postJSON(t, server, "/api/v1/sessions/", CreateSessionRequest{
		FilePath: "user-service.ts",
		Source:   userServiceSource,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("createSession returned status %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var created SessionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to unmarshal session response: %v", err)
	}
	if created.Session == nil || created.Session.ID == "" {
		t.Fatal("createSession returned no session ID")
	}
	if created.Plan == nil || len(created.Plan.Phases) == 0 {
		t.Fatal("createSession returned no plan phases")
	}
	if created.Session.TestType != "unit" {
		t.Errorf("TestType = %s, want unit", created.Session.TestType)
	}

	id := created.Session.ID

	// Get with plan and progress
	req := httptest.NewRequest("GET", "/api/v1/sessions/"+id, nil)
	rr = httptest.NewRecorder()
	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("getSession returned status %d, want %d", rr.Code, http.StatusOK)
	}

	var detail SessionDetailResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &detail); err != nil {
		t.Fatalf("failed to unmarshal detail response: %v", err)
	}
	if detail.Progress == nil || detail.Progress.Total != 2 {
		t.Errorf("progress total = %v, want 2", detail.Progress)
	}

	// Next picks the more complex method first
	rr = postJSON(t, server, fmt.Sprintf("/api/v1/sessions/%s/next", id), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("nextMethod returned status %d, want %d", rr.Code, http.StatusOK)
	}

	var next model.NextMethod
	if err := json.Unmarshal(rr.Body.Bytes(), &next); err != nil {
		t.Fatalf("failed to unmarshal next response: %v", err)
	}
	if next.Done {
		t.Fatal("nextMethod reported done on a fresh session")
	}
	if next.Method == nil || next.Method.Method != "createUser" {
		t.Errorf("next method = %v, want createUser", next.Method)
	}

	// Complete it
	rr = postJSON(t, server, fmt.Sprintf("/api/v1/sessions/%s/complete", id), CompleteMethodRequest{
		Method:   "createUser",
		TestPath: "tests/user-service.spec.ts",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("completeMethod returned status %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var progress model.Progress
	if err := json.Unmarshal(rr.Body.Bytes(), &progress); err != nil {
		t.Fatalf("failed to unmarshal progress: %v", err)
	}
	if progress.Completed != 1 {
		t.Errorf("completed = %d, want 1", progress.Completed)
	}
	if progress.AllDone {
		t.Error("AllDone should be false with one method remaining")
	}

	// Delete
	req = httptest.NewRequest("DELETE", "/api/v1/sessions/"+id, nil)
	rr = httptest.NewRecorder()
	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("deleteSession returned status %d, want %d", rr.Code, http.StatusNoContent)
	}

	// Gone afterwards
	req = httptest.NewRequest("GET", "/api/v1/sessions/"+id, nil)
	rr = httptest.NewRecorder()
	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("getSession after delete returned status %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCreateSession_MissingFilePath(t *testing.T) {
	server := newTestServer(t)

	rr := postJSON(t, server, "/api/v1/sessions/", CreateSessionRequest{Source: userServiceSource})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("createSession returned status %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestGetSession_InvalidID(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/sessions/not-a-uuid", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("getSession returned status %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/sessions/00000000-0000-0000-0000-000000000001", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("getSession returned status %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestNextMethod_NotFound(t *testing.T) {
	server := newTestServer(t)

	rr := postJSON(t, server, "/api/v1/sessions/00000000-0000-0000-0000-000000000001/next", nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("nextMethod returned status %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCompleteMethod_MissingMethod(t *testing.T) {
	server := newTestServer(t)

	rr := postJSON(t, server, "/api/v1/sessions/00000000-0000-0000-0000-000000000001/complete", CompleteMethodRequest{})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("completeMethod returned status %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCompleteMethod_UnknownMethod(t *testing.T) {
	server := newTestServer(t)

	rr := postJSON(t, server, "/api/v1/sessions/", CreateSessionRequest{
		FilePath: "user-service.ts",
		Source:   userServiceSource,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("createSession returned status %d, want %d", rr.Code, http.StatusCreated)
	}

	var created SessionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to unmarshal session response: %v", err)
	}

	rr = postJSON(t, server, fmt.Sprintf("/api/v1/sessions/%s/complete", created.Session.ID), CompleteMethodRequest{
		Method: "ghostMethod",
	})

	if rr.Code != http.StatusNotFound {
		t.Errorf("completeMethod returned status %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestRequestSizeLimit(t *testing.T) {
	server := newTestServer(t)
	server.cfg.MaxSourceBytes = 64

	// Rebuild the router so the middleware picks up the lowered limit
	rebuilt, err := NewServer(server.cfg, server.engine)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	rr := postJSON(t, rebuilt, "/api/v1/analyze", AnalyzeRequest{
		FilePath: "user-service.ts",
		Source:   userServiceSource,
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("oversized analyze returned status %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
