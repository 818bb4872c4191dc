package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fromBSON converts a decoded document into plain Go values: ObjectIDs
// become hex strings, dates become UTC time.Time and nested documents
// become maps.
func fromBSON(doc primitive.M) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = normalizeBSON(v)
	}
	return out
}

func normalizeBSON(v any) any {
	switch x := v.(type) {
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(x.T), 0).UTC()
	case primitive.Decimal128:
		return x.String()
	case primitive.M:
		return fromBSON(x)
	case map[string]any:
		return fromBSON(x)
	case primitive.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = normalizeBSON(e.Value)
		}
		return m
	case primitive.A:
		return normalizeSlice(x)
	case []any:
		return normalizeSlice(x)
	default:
		return x
	}
}

func normalizeSlice(in []any) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = normalizeBSON(v)
	}
	return out
}
