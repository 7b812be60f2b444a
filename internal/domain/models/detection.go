package models

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Location struct {
	X float64 `json:"x" db:"x"`
	Y float64 `json:"y" db:"y"`
}

type DetectedError struct {
	ID          string   `json:"id" db:"detection_id"`
	Timestamp   string   `json:"timestamp" db:"detected_at"`
	Type        string   `json:"type" db:"defect_type"`
	Severity    Severity `json:"severity" db:"severity"`
	Description string   `json:"description" db:"description"`
	ImageURL    string   `json:"imageUrl" db:"image_url"`
	Location    Location `json:"location"`
}

// CapturedImage is a detection snapshot; images captured without a
// position carry a nil Location.
type CapturedImage struct {
	ID        string    `json:"id"`
	Location  *Location `json:"location,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Type      string    `json:"type"`
	Timestamp string    `json:"timestamp"`
	Severity  Severity  `json:"severity"`
}
