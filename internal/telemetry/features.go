package telemetry

import (
	"context"

	"github.com/petasbytes/toolloop/internal/metrics"
)

// EmitLocalFeatures records size features of a user line without its text.
func EmitLocalFeatures(ctx context.Context, user string) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	Emit("local_features", map[string]any{
		"turn_id":          turnID,
		"features_version": "1",
		"user":             metrics.CountFeatures(user).Map(),
	})
}
