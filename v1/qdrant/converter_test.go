package qdrant

import (
	"testing"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/vantage-ml/multimodal/v1/vectordb"
)

func TestConvertFilter_Nil(t *testing.T) {
	if got := convertFilter(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestConvertFilter_Empty(t *testing.T) {
	if got := convertFilter(&vectordb.Filter{}); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestConvertFilter_MustMatch(t *testing.T) {
	f := vectordb.NewFilter(
		vectordb.Must(vectordb.NewMatch("label", "cat")),
	)

	got := convertFilter(f)
	if got == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(got.Must) != 1 {
		t.Errorf("expected 1 Must condition, got %d", len(got.Must))
	}
	if len(got.Should) != 0 || len(got.MustNot) != 0 {
		t.Errorf("unexpected Should/MustNot conditions: %v", got)
	}
}

func TestConvertFilter_AllClauses(t *testing.T) {
	f := vectordb.NewFilter(
		vectordb.Must(vectordb.NewMatch("format", "jpeg"), vectordb.NewRangeGte("width", 224)),
		vectordb.Should(vectordb.NewMatchAny("label", "cat", "dog")),
		vectordb.MustNot(vectordb.NewMatch("hidden", true)),
	)

	got := convertFilter(f)
	if got == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(got.Must) != 2 {
		t.Errorf("expected 2 Must conditions, got %d", len(got.Must))
	}
	if len(got.Should) != 1 {
		t.Errorf("expected 1 Should condition, got %d", len(got.Should))
	}
	if len(got.MustNot) != 1 {
		t.Errorf("expected 1 MustNot condition, got %d", len(got.MustNot))
	}
}

func TestConvertMatch_UnsupportedType(t *testing.T) {
	cond := convertMatch(&vectordb.MatchCondition{Field: "x", Value: []byte("raw")})
	if cond != nil {
		t.Errorf("expected nil for unsupported value type, got %v", cond)
	}
}

func TestConvertMatchAny_Ints(t *testing.T) {
	cond := convertMatchAny(vectordb.NewMatchAny("width", int64(224), int64(336)))
	if cond == nil {
		t.Fatal("expected condition, got nil")
	}
}

func TestConvertMatchAny_Empty(t *testing.T) {
	if cond := convertMatchAny(&vectordb.MatchAnyCondition{Field: "x"}); cond != nil {
		t.Errorf("expected nil for empty value list, got %v", cond)
	}
}

func TestConvertRange_OpenBounds(t *testing.T) {
	if cond := convertRange(&vectordb.RangeCondition{Field: "width"}); cond != nil {
		t.Errorf("expected nil for fully open range, got %v", cond)
	}

	cond := convertRange(vectordb.NewRange("width", 224, 1024))
	if cond == nil {
		t.Fatal("expected condition, got nil")
	}
}

func TestConvertTimeRange(t *testing.T) {
	after := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cond := convertTimeRange(vectordb.NewTimeRange("created_at", after, time.Time{}))
	if cond == nil {
		t.Fatal("expected condition, got nil")
	}

	if c := convertTimeRange(&vectordb.TimeRangeCondition{Field: "created_at"}); c != nil {
		t.Errorf("expected nil for open time range, got %v", c)
	}
}

func TestConvertPoints(t *testing.T) {
	points := []vectordb.Point{
		{
			ID:      "00000000-0000-0000-0000-000000000001",
			Vector:  []float32{0.1, 0.2},
			Payload: map[string]any{"caption": "a cat"},
		},
	}

	converted, err := convertPoints(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(converted) != 1 {
		t.Fatalf("expected 1 point, got %d", len(converted))
	}
}

func TestConvertPoints_Invalid(t *testing.T) {
	if _, err := convertPoints([]vectordb.Point{{Vector: []float32{1}}}); err == nil {
		t.Error("expected error for missing ID")
	}
	if _, err := convertPoints([]vectordb.Point{{ID: "a"}}); err == nil {
		t.Error("expected error for empty vector")
	}
}

func TestExtractPointID(t *testing.T) {
	id, err := extractPointID(&qdrant.PointId{
		PointIdOptions: &qdrant.PointId_Uuid{Uuid: "00000000-0000-0000-0000-000000000002"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "00000000-0000-0000-0000-000000000002" {
		t.Errorf("unexpected id %q", id)
	}

	id, err = extractPointID(&qdrant.PointId{
		PointIdOptions: &qdrant.PointId_Num{Num: 42},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "42" {
		t.Errorf("unexpected id %q", id)
	}

	if _, err := extractPointID(nil); err == nil {
		t.Error("expected error for nil point ID")
	}
}

func TestConvertPayload(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"caption": {Kind: &qdrant.Value_StringValue{StringValue: "a cat"}},
		"width":   {Kind: &qdrant.Value_IntegerValue{IntegerValue: 224}},
		"score":   {Kind: &qdrant.Value_DoubleValue{DoubleValue: 0.92}},
		"hidden":  {Kind: &qdrant.Value_BoolValue{BoolValue: false}},
	}

	got := convertPayload(payload)
	if got["caption"] != "a cat" {
		t.Errorf("unexpected caption %v", got["caption"])
	}
	if got["width"] != int64(224) {
		t.Errorf("unexpected width %v", got["width"])
	}
	if got["score"] != 0.92 {
		t.Errorf("unexpected score %v", got["score"])
	}
	if got["hidden"] != false {
		t.Errorf("unexpected hidden %v", got["hidden"])
	}
}
