package query

import (
	"testing"

	"github.com/poiesic/metaquery/ai"
	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	attr := ai.AttributeQuery{Name: "age", SearchText: "age over 30"}
	event := ai.EventQuery{SearchText: "purchase"}

	tests := []struct {
		name   string
		intent *ai.Intent
		want   Plan
	}{
		{
			name:   "attributes only",
			intent: &ai.Intent{ProfileAttributes: []ai.AttributeQuery{attr}},
			want:   PlanAttributeOnly,
		},
		{
			name:   "events only",
			intent: &ai.Intent{Events: []ai.EventQuery{event}},
			want:   PlanEventOnly,
		},
		{
			name: "both non-empty is mixed",
			intent: &ai.Intent{
				ProfileAttributes: []ai.AttributeQuery{attr},
				Events:            []ai.EventQuery{event},
			},
			want: PlanMixed,
		},
		{
			name:   "both empty defaults to attribute only",
			intent: &ai.Intent{},
			want:   PlanAttributeOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Route(tt.intent))
		})
	}
}

func TestPlanString(t *testing.T) {
	assert.Equal(t, "profile", PlanAttributeOnly.String())
	assert.Equal(t, "event", PlanEventOnly.String())
	assert.Equal(t, "mixed", PlanMixed.String())
}
