package models

import (
	"encoding/json"
	"testing"
)

func TestFlexIntUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"number", `{"limit":20}`, 20},
		{"quoted number", `{"limit":"20"}`, 20},
		{"null", `{"limit":null}`, 0},
		{"garbage degrades to zero", `{"limit":"abc"}`, 0},
		{"empty string", `{"limit":""}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload struct {
				Limit FlexInt `json:"limit"`
			}
			if err := json.Unmarshal([]byte(tt.in), &payload); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if int(payload.Limit) != tt.want {
				t.Errorf("expected %d, got %d", tt.want, payload.Limit)
			}
		})
	}
}

func TestEnvelopeDecodesBothCategoryKeys(t *testing.T) {
	classPayload := `{"code":1,"msg":"ok","class":[{"type_id":1,"type_pid":0,"type_name":"电影"}]}`
	var fromClass CategoryEnvelope
	if err := json.Unmarshal([]byte(classPayload), &fromClass); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(fromClass.Categories()) != 1 || fromClass.Categories()[0].Name != "电影" {
		t.Errorf("expected one category from class key, got %+v", fromClass.Categories())
	}

	typePayload := `{"code":1,"msg":"ok","type":[{"type_id":2,"type_pid":1,"type_name":"动作片"}]}`
	var fromType CategoryEnvelope
	if err := json.Unmarshal([]byte(typePayload), &fromType); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	cats := fromType.Categories()
	if len(cats) != 1 || cats[0].ParentID != 1 {
		t.Errorf("expected one child category from type key, got %+v", cats)
	}
	if cats[0].IsTopLevel() {
		t.Error("child category should not be top level")
	}
}

func TestEnvelopeOK(t *testing.T) {
	ok := VideoEnvelope{Code: CodeSuccess}
	if !ok.OK() {
		t.Error("code 1 should be success")
	}
	bad := VideoEnvelope{Code: -1}
	if bad.OK() {
		t.Error("code -1 should not be success")
	}
}

func TestDegraded(t *testing.T) {
	env := Degraded[VideoRecord](-1, "搜索失败")
	if env.Code != -1 || env.Msg != "搜索失败" {
		t.Errorf("unexpected degraded envelope: %+v", env)
	}
	if env.List == nil || len(env.List) != 0 {
		t.Error("degraded envelope must carry an empty, non-nil list")
	}
}

func TestNormalizeEndpointURL(t *testing.T) {
	if got := NormalizeEndpointURL("http://example.com/api.php/provide/vod"); got != "http://example.com/api.php/provide/vod/" {
		t.Errorf("expected trailing slash, got %q", got)
	}
	if got := NormalizeEndpointURL("http://example.com/"); got != "http://example.com/" {
		t.Errorf("already normalized URL changed: %q", got)
	}
}

func TestVideoRecordGetExtra(t *testing.T) {
	var rec VideoRecord
	if rec.GetExtra(ExtraRating) != "" {
		t.Error("nil extra map should read as empty")
	}
	rec.Extra = map[string]any{ExtraRating: "8.5", "count": 3}
	if rec.GetExtra(ExtraRating) != "8.5" {
		t.Error("expected stored rating")
	}
	if rec.GetExtra("count") != "" {
		t.Error("non-string extras should read as empty")
	}
}
