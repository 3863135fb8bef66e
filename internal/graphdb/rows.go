package graphdb

import (
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// wideInt mirrors the {low, high} shape some graph drivers use to represent
// 64-bit integers in languages without a native int64. The Go driver already
// hands back plain int64 values, but record parsing normalises through this
// type too so the boundary logic does not assume a single driver's representation.
type wideInt struct {
	Low  int32
	High int32
}

func (w wideInt) toInt64() int64 {
	return int64(w.High)<<32 | int64(uint32(w.Low))
}

// NormalizeNumber converts any numeric representation a graph record field
// may carry (int64, int, float64, or a {low,high} pair) into a plain float64.
// Callers needing an integer truncate the result themselves; this keeps one
// normalisation path for both counts and fractional scores.
func NormalizeNumber(v interface{}) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, fmt.Errorf("graphdb: nil numeric field")
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case wideInt:
		return float64(n.toInt64()), nil
	default:
		return 0, fmt.Errorf("graphdb: unsupported numeric representation %T", v)
	}
}

// NormalizeInt64 is NormalizeNumber truncated to int64, for counts, years, and offsets.
func NormalizeInt64(v interface{}) (int64, error) {
	f, err := NormalizeNumber(v)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

// GetString returns the string field named key, or "" if absent/nil.
func GetString(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetFloat64 returns the numeric field named key normalised to float64.
func GetFloat64(rec *neo4j.Record, key string) (float64, bool) {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0, false
	}
	f, err := NormalizeNumber(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// GetInt64 returns the numeric field named key normalised to int64.
func GetInt64(rec *neo4j.Record, key string) (int64, bool) {
	f, ok := GetFloat64(rec, key)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// GetBool returns the boolean field named key, defaulting to false.
func GetBool(rec *neo4j.Record, key string) bool {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

// GetStringSlice returns the []string field named key, tolerating a
// []interface{} representation (the driver's default for Cypher list fields).
func GetStringSlice(rec *neo4j.Record, key string) []string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return nil
	}
	switch s := v.(type) {
	case []string:
		return s
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}
