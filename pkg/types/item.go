package types

// InventoryItem is one row of an inventory entity. The pipeline reads items
// but never mutates them, the host platform owns the data.
type InventoryItem struct {
	Name            string  `json:"name"`
	Category        string  `json:"category,omitempty"`
	Location        string  `json:"location,omitempty"`
	Quantity        float64 `json:"quantity"`
	Unit            string  `json:"unit,omitempty"`
	ExpiryDate      string  `json:"expiry_date,omitempty"`
	ExpiryAlertDays int     `json:"expiry_alert_days,omitempty"`
	AutoAddEnabled  bool    `json:"auto_add_enabled,omitempty"`
}

// DefaultExpiryAlertDays is used when an item has no alert window of its own.
const DefaultExpiryAlertDays = 7

// AlertDays returns the expiry alert window for the item.
func (i *InventoryItem) AlertDays() int {
	if i.ExpiryAlertDays > 0 {
		return i.ExpiryAlertDays
	}
	return DefaultExpiryAlertDays
}

// EntityAttributes is the attribute bag of an inventory entity state.
type EntityAttributes struct {
	Items        []InventoryItem `json:"items"`
	FriendlyName string          `json:"friendly_name,omitempty"`
	Description  string          `json:"description,omitempty"`
}

// EntityState mirrors the host platform's state object for one entity.
type EntityState struct {
	EntityId    string           `json:"entity_id"`
	State       string           `json:"state"`
	Attributes  EntityAttributes `json:"attributes"`
	LastUpdated string           `json:"last_updated,omitempty"`
}

// Items returns the item list of the state, never nil.
func (s *EntityState) Items() []InventoryItem {
	if s == nil || s.Attributes.Items == nil {
		return []InventoryItem{}
	}
	return s.Attributes.Items
}
