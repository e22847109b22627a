package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Step holds the schema definition for the Step entity: a single action
// invocation within a scenario, with templated params and its own
// transition table.
type Step struct {
	ent.Schema
}

// Fields of the Step.
func (Step) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("scenario_id"),
		field.Int("step_order").
			Comment("position within the scenario; steps execute in this order by default"),
		field.String("action_name"),
		field.JSON("params", map[string]interface{}{}).
			Optional().
			Comment("placeholder-templated action arguments"),
		field.Bool("is_async").
			Default(false),
		field.String("action_id").
			Optional().
			Nillable().
			Comment("required when is_async; keys the _async_action handle"),
	}
}

// Edges of the Step.
func (Step) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("scenario", Scenario.Type).
			Ref("steps").
			Field("scenario_id").
			Unique().
			Required().
			Immutable(),
		edge.To("transitions", Transition.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Step.
func (Step) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("scenario_id", "step_order").
			Unique(),
	}
}
