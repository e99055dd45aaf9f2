package qdrant

import (
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/vantage-ml/multimodal/v1/vectordb"
)

// convertPoints maps vectordb points to the SDK's PointStruct. Qdrant
// accepts UUIDs and unsigned integers as IDs, which qdrant.NewID resolves
// from the string form.
func convertPoints(points []vectordb.Point) ([]*qdrant.PointStruct, error) {
	out := make([]*qdrant.PointStruct, 0, len(points))
	for i, p := range points {
		if p.ID == "" {
			return nil, fmt.Errorf("point %d has no ID", i)
		}
		if len(p.Vector) == 0 {
			return nil, fmt.Errorf("point %s has an empty vector", p.ID)
		}

		out = append(out, &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(p.Payload),
		})
	}
	return out, nil
}

// ── Filter Conversion ────────────────────────────────────────────────────────

// convertFilter maps a vectordb filter to the SDK's native filter. Empty
// filters collapse to nil so Qdrant skips filtering entirely.
func convertFilter(f *vectordb.Filter) *qdrant.Filter {
	if f == nil {
		return nil
	}

	filter := &qdrant.Filter{
		Must:    convertConditions(f.Must),
		Should:  convertConditions(f.Should),
		MustNot: convertConditions(f.MustNot),
	}

	if len(filter.Must) == 0 && len(filter.Should) == 0 && len(filter.MustNot) == 0 {
		return nil
	}

	return filter
}

func convertConditions(conditions []vectordb.Condition) []*qdrant.Condition {
	var out []*qdrant.Condition
	for _, c := range conditions {
		if converted := convertCondition(c); converted != nil {
			out = append(out, converted)
		}
	}
	return out
}

func convertCondition(c vectordb.Condition) *qdrant.Condition {
	switch cond := c.(type) {
	case *vectordb.MatchCondition:
		return convertMatch(cond)
	case *vectordb.MatchAnyCondition:
		return convertMatchAny(cond)
	case *vectordb.RangeCondition:
		return convertRange(cond)
	case *vectordb.TimeRangeCondition:
		return convertTimeRange(cond)
	default:
		return nil
	}
}

func convertMatch(c *vectordb.MatchCondition) *qdrant.Condition {
	switch v := c.Value.(type) {
	case string:
		return qdrant.NewMatch(c.Field, v)
	case bool:
		return qdrant.NewMatchBool(c.Field, v)
	case int:
		return qdrant.NewMatchInt(c.Field, int64(v))
	case int64:
		return qdrant.NewMatchInt(c.Field, v)
	case float64:
		// JSON decodes numbers as float64.
		return qdrant.NewMatchInt(c.Field, int64(v))
	default:
		return nil
	}
}

func convertMatchAny(c *vectordb.MatchAnyCondition) *qdrant.Condition {
	if len(c.Values) == 0 {
		return nil
	}

	switch c.Values[0].(type) {
	case string:
		keywords := make([]string, 0, len(c.Values))
		for _, v := range c.Values {
			if s, ok := v.(string); ok {
				keywords = append(keywords, s)
			}
		}
		return qdrant.NewMatchKeywords(c.Field, keywords...)
	case int, int64, float64:
		ints := make([]int64, 0, len(c.Values))
		for _, v := range c.Values {
			switch n := v.(type) {
			case int:
				ints = append(ints, int64(n))
			case int64:
				ints = append(ints, n)
			case float64:
				ints = append(ints, int64(n))
			}
		}
		return qdrant.NewMatchInts(c.Field, ints...)
	default:
		return nil
	}
}

func convertRange(c *vectordb.RangeCondition) *qdrant.Condition {
	if c.Gt == nil && c.Gte == nil && c.Lt == nil && c.Lte == nil {
		return nil
	}

	return qdrant.NewRange(c.Field, &qdrant.Range{
		Gt:  c.Gt,
		Gte: c.Gte,
		Lt:  c.Lt,
		Lte: c.Lte,
	})
}

func convertTimeRange(c *vectordb.TimeRangeCondition) *qdrant.Condition {
	if c.After == nil && c.Until == nil {
		return nil
	}

	r := &qdrant.DatetimeRange{}
	if c.After != nil {
		r.Gte = timestamppb.New(*c.After)
	}
	if c.Until != nil {
		r.Lte = timestamppb.New(*c.Until)
	}

	return qdrant.NewDatetimeRange(c.Field, r)
}

// ── Result Conversion ────────────────────────────────────────────────────────

// parseScoredPoints converts the SDK response into vectordb results.
func parseScoredPoints(resp []*qdrant.ScoredPoint) ([]vectordb.SearchResult, error) {
	results := make([]vectordb.SearchResult, 0, len(resp))
	for _, p := range resp {
		id, err := extractPointID(p.Id)
		if err != nil {
			return nil, err
		}

		results = append(results, vectordb.SearchResult{
			ID:      id,
			Score:   p.Score,
			Payload: convertPayload(p.Payload),
			Vector:  extractVector(p.Vectors),
		})
	}
	return results, nil
}

func extractPointID(id *qdrant.PointId) (string, error) {
	if id == nil {
		return "", fmt.Errorf("nil point ID")
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Num:
		return fmt.Sprintf("%d", v.Num), nil
	case *qdrant.PointId_Uuid:
		return v.Uuid, nil
	default:
		return "", fmt.Errorf("unexpected point ID type %T", v)
	}
}

func extractVector(vectors *qdrant.VectorsOutput) []float32 {
	if vectors == nil {
		return nil
	}
	if v, ok := vectors.VectorsOptions.(*qdrant.VectorsOutput_Vector); ok && v.Vector != nil {
		return v.Vector.Data
	}
	return nil
}

// convertPayload converts the protobuf payload to native Go values.
func convertPayload(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = extractValue(v)
	}
	return out
}

func extractValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_StructValue:
		if val.StructValue == nil {
			return nil
		}
		return convertPayload(val.StructValue.Fields)
	case *qdrant.Value_ListValue:
		if val.ListValue == nil {
			return nil
		}
		items := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			items[i] = extractValue(item)
		}
		return items
	default:
		return nil
	}
}

// ── Collection Metadata ──────────────────────────────────────────────────────

// extractVectorParams digs the vector size and distance metric out of the
// SDK's nested oneof wrappers, tolerating missing fields.
func extractVectorParams(info *qdrant.CollectionInfo) (uint64, string) {
	if info == nil ||
		info.Config == nil ||
		info.Config.Params == nil ||
		info.Config.Params.VectorsConfig == nil ||
		info.Config.Params.VectorsConfig.Config == nil {
		return 0, ""
	}

	if cfg, ok := info.Config.Params.VectorsConfig.Config.(*qdrant.VectorsConfig_Params); ok {
		return cfg.Params.Size, cfg.Params.Distance.String()
	}

	return 0, ""
}

func derefUint64(v *uint64) uint64 {
	if v != nil {
		return *v
	}
	return 0
}
