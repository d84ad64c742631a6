package httpview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kavanlund/heapsnap/internal/snapshot/model"
	"github.com/kavanlund/heapsnap/internal/snapshot/session"
)

func fixtureSession(t *testing.T) *session.Session {
	t.Helper()
	bound, err := model.Bind(model.SnapshotMeta{
		NodeFieldNames: []string{"type", "name", "id", "self_size", "edge_count"},
		NodeFieldKinds: []model.FieldKind{
			{Enum: []string{"object", "synthetic"}},
			{Primitive: "string_or_number"},
			{Primitive: "number"},
			{Primitive: "number"},
			{Primitive: "number"},
		},
		EdgeFieldNames: []string{"type", "name_or_index", "to_node"},
		EdgeFieldKinds: []model.FieldKind{
			{Enum: []string{"property"}},
			{Primitive: "string_or_number"},
			{Primitive: "number"},
		},
	})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	// 0: GC roots -> 1: A -> 2: B
	raw := &model.SnapshotRaw{
		Nodes: []int64{
			1, 0, 100, 0, 1,
			0, 1, 101, 8, 1,
			0, 2, 102, 16, 0,
		},
		Edges: []int64{
			0, 3, 5,
			0, 4, 10,
		},
		Strings: []string{"GC roots", "A", "B", "toA", "toB"},
		Meta:    bound,
	}
	raw.BuildEdgeRangeTable()
	return session.New(raw, nil, nil)
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return New(fixtureSession(t))
}

func doGet(t *testing.T, engine *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestIndexListsRoutes(t *testing.T) {
	rec := doGet(t, newTestEngine(t), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(body["routes"]) == 0 {
		t.Error("expected non-empty routes list")
	}
}

func TestSummaryHandlerReturnsAllConstructors(t *testing.T) {
	rec := doGet(t, newTestEngine(t), "/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		TotalNodes int `json:"total_nodes"`
		Rows       []struct {
			Name string `json:"name"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body.TotalNodes != 3 {
		t.Errorf("total_nodes = %d, want 3", body.TotalNodes)
	}
}

func TestDetailHandlerRequiresIdOrName(t *testing.T) {
	rec := doGet(t, newTestEngine(t), "/detail")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDetailHandlerRejectsBothIdAndName(t *testing.T) {
	rec := doGet(t, newTestEngine(t), "/detail?id=1&name=A")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDetailHandlerByIdSucceeds(t *testing.T) {
	rec := doGet(t, newTestEngine(t), "/detail?id=101")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
}

func TestRetainersHandlerRequiresId(t *testing.T) {
	rec := doGet(t, newTestEngine(t), "/retainers")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRetainersHandlerFindsPathFromRoot(t *testing.T) {
	rec := doGet(t, newTestEngine(t), "/retainers?id=102")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		Paths []any `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(body.Paths) == 0 {
		t.Error("expected at least one retainer path to the root")
	}
}

func TestRetainersHandlerRejectsInvalidId(t *testing.T) {
	rec := doGet(t, newTestEngine(t), "/retainers?id=notanumber")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDominatorHandlerRequiresId(t *testing.T) {
	rec := doGet(t, newTestEngine(t), "/dominator")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDominatorHandlerReturnsChainToRoot(t *testing.T) {
	rec := doGet(t, newTestEngine(t), "/dominator?id=102")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		Chain []int `json:"chain"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(body.Chain) == 0 {
		t.Error("expected a non-empty dominator chain")
	}
}

func TestDiffHandlerRequiresBothFiles(t *testing.T) {
	rec := doGet(t, newTestEngine(t), "/diff")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = doGet(t, newTestEngine(t), "/diff?file_a=a.heapsnapshot")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 when file_b is missing", rec.Code)
	}
}

func TestDiffHandlerReportsOpenErrorForMissingFile(t *testing.T) {
	rec := doGet(t, newTestEngine(t), "/diff?file_a=/no/such/a.heapsnapshot&file_b=/no/such/b.heapsnapshot")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 for unreadable files", rec.Code)
	}
}

func TestMetricsEndpointExposesPrometheusFormat(t *testing.T) {
	rec := doGet(t, newTestEngine(t), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected non-empty metrics body")
	}
}
