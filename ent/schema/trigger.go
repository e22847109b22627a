package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Trigger holds the schema definition for the Trigger entity: one
// compilable condition expression attached to a scenario. A scenario may
// carry several triggers; any one of them matching is enough.
type Trigger struct {
	ent.Schema
}

// Fields of the Trigger.
func (Trigger) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("scenario_id"),
		field.Text("condition_expression"),
	}
}

// Edges of the Trigger.
func (Trigger) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("scenario", Scenario.Type).
			Ref("triggers").
			Field("scenario_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Trigger.
func (Trigger) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("scenario_id"),
	}
}
