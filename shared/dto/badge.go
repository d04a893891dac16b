package dto

// Badge is the display descriptor clients render next to a lifecycle status.
type Badge struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
}
