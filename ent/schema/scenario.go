package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Scenario holds the schema definition for the Scenario entity: an
// ordered program of steps guarded by triggers, scoped to a tenant.
type Scenario struct {
	ent.Schema
}

// Fields of the Scenario.
func (Scenario) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("tenant_id"),
		field.String("name"),
		field.String("description").
			Optional().
			Nillable(),
		field.String("schedule").
			Optional().
			Nillable().
			Comment("cron expression; absent for event-driven-only scenarios"),
		field.Int64("last_run").
			Optional().
			Nillable().
			Comment("unix seconds, set by the scheduler after each scheduled run"),
	}
}

// Edges of the Scenario.
func (Scenario) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("tenant", Tenant.Type).
			Ref("scenarios").
			Field("tenant_id").
			Unique().
			Required().
			Immutable(),
		edge.To("triggers", Trigger.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("steps", Step.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Scenario.
func (Scenario) Indexes() []ent.Index {
	return []ent.Index{
		// scenario names must be unique within a tenant, so jump_to_scenario
		// resolution by name is unambiguous
		index.Fields("tenant_id", "name").Unique(),
		index.Fields("tenant_id", "schedule"),
	}
}
