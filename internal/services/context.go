package services

import "context"

type contextKey string

const (
	runIDKey       contextKey = "run_id"
	replicaKey     contextKey = "replica"
	recordingIDKey contextKey = "recording_id"
)

// WithRunID annotates context with the run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithReplica annotates context with the zero-based replica index.
func WithReplica(ctx context.Context, replica int) context.Context {
	return context.WithValue(ctx, replicaKey, replica)
}

// ReplicaFromContext extracts the replica index if present.
func ReplicaFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(replicaKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	default:
		return 0, false
	}
}

// WithRecordingID annotates context with the source recording identifier.
func WithRecordingID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, recordingIDKey, id)
}

// RecordingIDFromContext returns the recording identifier if present.
func RecordingIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(recordingIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
