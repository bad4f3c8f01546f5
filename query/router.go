package query

import "github.com/poiesic/metaquery/ai"

// Plan selects which retrieval stages an orchestration run executes.
type Plan int

const (
	// PlanAttributeOnly runs the attribute stage alone. This is also
	// the default for intents that extracted nothing, so an empty query
	// completes with an empty answer rather than failing.
	PlanAttributeOnly Plan = iota

	// PlanEventOnly runs the event stage followed by the
	// event-attribute stage.
	PlanEventOnly

	// PlanMixed runs the attribute and event stages concurrently, then
	// the event-attribute stage once both have joined.
	PlanMixed
)

// String returns the wire name of the plan, used as the answer's
// intent_type field.
func (p Plan) String() string {
	switch p {
	case PlanEventOnly:
		return "event"
	case PlanMixed:
		return "mixed"
	default:
		return "profile"
	}
}

// Route maps a structured intent to an execution plan.
// Pure function, no I/O.
func Route(intent *ai.Intent) Plan {
	hasAttributes := len(intent.ProfileAttributes) > 0
	hasEvents := len(intent.Events) > 0

	switch {
	case hasAttributes && hasEvents:
		return PlanMixed
	case hasEvents:
		return PlanEventOnly
	default:
		return PlanAttributeOnly
	}
}
