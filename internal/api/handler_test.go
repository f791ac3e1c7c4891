package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"salescope/internal/config"
	"salescope/internal/dataset"
	"salescope/internal/model"
)

// newTestHandler 注入一个手工构造的数据集，绕过上传流程
func newTestHandler(t *testing.T, ds *dataset.Dataset) (*Handler, *gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHandler(config.DefaultConfig())
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))

	sessionID := ""
	if ds != nil {
		sess := h.Sessions().Create()
		sess.SetDataset(ds)
		sessionID = sess.ID
	}
	return h, r, sessionID
}

// testDataset 两个品牌、两个区域、24 个连续月的小数据集
func testDataset() *dataset.Dataset {
	ds := &dataset.Dataset{
		Schema: dataset.Schema{
			HasItemID: true, HasItemName: true, HasBrand: true,
			HasRegion: true, HasDate: true, HasQty: true, HasSales: true,
		},
		TxRows: 48, MasterRows: 2,
	}
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 24; i++ {
		d := start.AddDate(0, i, 0)
		ds.Records = append(ds.Records,
			model.SalesRecord{
				ItemID: "P1", ItemName: "Widget", Brand: "Acme", Region: "North",
				Qty: 100, Sales: 1000, Date: d, HasDate: true,
			},
			model.SalesRecord{
				ItemID: "P2", ItemName: "Gadget", Brand: "Beta", Region: "South",
				Qty: 50, Sales: 600, Date: d, HasDate: true,
			})
	}
	return ds
}

func postJSON(r *gin.Engine, path, sessionID string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-Id", sessionID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestQueryWithoutSession(t *testing.T) {
	_, r, _ := newTestHandler(t, nil)
	w := postJSON(r, "/api/query", "", map[string]any{"filter": map[string]any{}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("无会话时应返回 400，得到 %d", w.Code)
	}
}

func TestQueryComputesDerived(t *testing.T) {
	_, r, sid := newTestHandler(t, testDataset())

	w := postJSON(r, "/api/query", sid, map[string]any{
		"filter": map[string]any{"brands": []string{"Acme"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Metric    string            `json:"metric"`
		HasMetric bool              `json:"hasMetric"`
		KPI       model.KPISummary  `json:"kpi"`
		Region    []model.RollupRow `json:"region"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}

	if resp.Metric != "quantity" || !resp.HasMetric {
		t.Errorf("缺省口径应为 quantity: %+v", resp)
	}
	if resp.KPI.RowCount != 24 || resp.KPI.TotalQty != 2400 {
		t.Errorf("品牌筛选后的 KPI 错误: %+v", resp.KPI)
	}
	if len(resp.Region) != 1 || resp.Region[0].Key != "North" {
		t.Errorf("区域汇总错误: %+v", resp.Region)
	}
}

func TestQueryCacheHit(t *testing.T) {
	h, r, sid := newTestHandler(t, testDataset())

	body := map[string]any{"filter": map[string]any{"brands": []string{"Acme"}}}
	if w := postJSON(r, "/api/query", sid, body); w.Code != http.StatusOK {
		t.Fatalf("首次查询失败: %d", w.Code)
	}

	sess, err := h.Sessions().Get(sid)
	if err != nil {
		t.Fatal(err)
	}
	f := &model.FilterState{Brands: []string{"Acme"}}
	if _, ok := sess.CachedView(f.Fingerprint(model.MetricQuantity)); !ok {
		t.Error("派生结果应已按指纹缓存")
	}
}

func TestOptionsNarrowing(t *testing.T) {
	_, r, sid := newTestHandler(t, testDataset())

	w := postJSON(r, "/api/options", sid, map[string]any{
		"filter": map[string]any{"brands": []string{"Acme"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Brands  []string `json:"brands"`
		Regions []string `json:"regions"`
		Items   []struct {
			ItemID string `json:"itemId"`
		} `json:"items"`
		DateMin *time.Time `json:"dateMin"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}

	// 品牌候选不受自身筛选影响，下游维度已收窄
	if len(resp.Brands) != 2 {
		t.Errorf("品牌候选应为完整列表: %v", resp.Brands)
	}
	if len(resp.Regions) != 1 || resp.Regions[0] != "North" {
		t.Errorf("区域候选应已按品牌收窄: %v", resp.Regions)
	}
	if len(resp.Items) != 1 || resp.Items[0].ItemID != "P1" {
		t.Errorf("商品候选应已收窄: %v", resp.Items)
	}
	if resp.DateMin == nil {
		t.Error("日期边界应存在")
	}
}

func TestSearchItemsFallbackOverHTTP(t *testing.T) {
	_, r, sid := newTestHandler(t, testDataset())

	req := httptest.NewRequest(http.MethodGet, "/api/items/search?q=zzz", nil)
	req.Header.Set("X-Session-Id", sid)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}

	var resp struct {
		Items   []any `json:"items"`
		Matched bool  `json:"matched"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Matched {
		t.Error("无命中时 matched 应为 false")
	}
	if len(resp.Items) != 2 {
		t.Errorf("无命中应退回完整候选列表: %d", len(resp.Items))
	}
}

func TestForecastOverHTTP(t *testing.T) {
	_, r, sid := newTestHandler(t, testDataset())

	w := postJSON(r, "/api/forecast", sid, map[string]any{
		"filter": map[string]any{},
		"params": map[string]any{"horizon": 12},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	var result model.ForecastResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Skipped || result.Warning != "" {
		t.Fatalf("24 个月数据不应跳过: %+v", result)
	}
	if len(result.Series) != 36 {
		t.Errorf("应有 24 实际 + 12 预测点，得到 %d", len(result.Series))
	}
}

func TestForecastWithoutMetricColumns(t *testing.T) {
	ds := testDataset()
	ds.Schema.HasQty = false
	ds.Schema.HasSales = false
	_, r, sid := newTestHandler(t, ds)

	w := postJSON(r, "/api/forecast", sid, map[string]any{"filter": map[string]any{}})
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	var result model.ForecastResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if !result.Skipped {
		t.Error("没有数值口径列时应跳过预测")
	}
}

func TestExportTableCSV(t *testing.T) {
	_, r, sid := newTestHandler(t, testDataset())

	w := postJSON(r, "/api/export/region", sid, map[string]any{"filter": map[string]any{}})
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type 错误: %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "region.csv") {
		t.Errorf("Content-Disposition 错误: %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("应有表头 + 2 个区域，得到 %d 行", len(lines))
	}
	if !strings.HasPrefix(lines[1], "North,") {
		t.Errorf("应按合计降序: %q", lines[1])
	}
}

func TestExportUnknownTable(t *testing.T) {
	_, r, sid := newTestHandler(t, testDataset())
	w := postJSON(r, "/api/export/nope", sid, map[string]any{"filter": map[string]any{}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("未知表名应返回 400，得到 %d", w.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	_, r, sid := newTestHandler(t, testDataset())

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("X-Session-Id", sid)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Ready || resp.SessionID != sid || resp.TxRows != 48 {
		t.Errorf("状态响应错误: %+v", resp)
	}
}
