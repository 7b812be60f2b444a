package models

type ResolutionPreset struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
