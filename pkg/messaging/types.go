package messaging

type ChangeTopic string

const (
	// EntityUpdated carries a full entity state pushed by the host platform.
	EntityUpdated ChangeTopic = "entity_updated"
	// FiltersCleared announces that an entity's saved filters were removed.
	FiltersCleared ChangeTopic = "filters_cleared"
	// Interaction carries user interaction events for analytics.
	Interaction ChangeTopic = "interaction"
)
