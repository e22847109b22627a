package schema

import (
	"encoding/json"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Transition holds the schema definition for the Transition entity: a
// mapping from one step's action result to a control-flow decision.
type Transition struct {
	ent.Schema
}

// Fields of the Transition.
func (Transition) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("step_id"),
		field.String("action_result").
			Comment("a concrete result string, or the wildcard \"any\""),
		field.String("transition_action").
			Comment("continue | stop | break | abort | jump_to_scenario | move_steps | jump_to_step"),
		field.JSON("transition_value", json.RawMessage{}).
			Optional().
			Comment("shape depends on transition_action: a scenario name or list of names, a step offset, or a 0-based step index"),
	}
}

// Edges of the Transition.
func (Transition) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("step", Step.Type).
			Ref("transitions").
			Field("step_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Transition.
func (Transition) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("step_id"),
	}
}
