package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Tenant holds the schema definition for the Tenant entity. A tenant owns
// its own scenarios, triggers, and steps; tenants at or below
// max_system_tenant_id are protected from destructive admin operations.
type Tenant struct {
	ent.Schema
}

// Fields of the Tenant.
func (Tenant) Fields() []ent.Field {
	return []ent.Field{
		field.String("name").
			Unique(),
		field.Bool("is_system").
			Default(false).
			Comment("protected tenant at or below max_system_tenant_id"),
		field.JSON("config", map[string]interface{}{}).
			Optional().
			Comment("bot_id and other per-tenant settings"),
	}
}

// Edges of the Tenant.
func (Tenant) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("scenarios", Scenario.Type),
	}
}

// Indexes of the Tenant.
func (Tenant) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("name").Unique(),
	}
}
