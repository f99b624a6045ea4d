package classifier

// Result is the descriptive record the external analysis service returns
// for one plant image. This module treats it as opaque: it is persisted and
// aggregated, never second-guessed.
type Result struct {
	DiseaseName          string  `json:"disease_name"`
	PlantName            string  `json:"plant_name"`
	ConfidencePercentage float64 `json:"confidence_percentage"`
	SeverityPercentage   float64 `json:"severity_percentage"`
	Description          string  `json:"description,omitempty"`
}

// diagnoseRequest is the wire payload sent to the classifier
type diagnoseRequest struct {
	ImageURL string `json:"image_url"`
}

// diagnoseResponse is the classifier's wire response envelope
type diagnoseResponse struct {
	Result *Result `json:"result"`
	Error  string  `json:"error,omitempty"`
}
