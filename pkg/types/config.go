package types

import "fmt"

// ItemClickAction describes the host platform service call to perform when an
// item row is clicked.
type ItemClickAction struct {
	Service string         `json:"service,omitempty"`
	Target  map[string]any `json:"target,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// CardConfig is the configuration object of one inventory card.
type CardConfig struct {
	Entity          string           `json:"entity"`
	Type            string           `json:"type,omitempty"`
	SortMethod      string           `json:"sort_method,omitempty"`
	Minimal         bool             `json:"minimal,omitempty"`
	Language        string           `json:"language,omitempty"`
	ItemClickAction *ItemClickAction `json:"item_click_action,omitempty"`
}

// Validate checks the required fields of a card configuration.
func (c *CardConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("missing card configuration")
	}
	if c.Entity == "" {
		return fmt.Errorf("card configuration requires an entity")
	}
	return nil
}
