package dto

// DiseaseStat is one ranked bucket in the disease distribution. Percentage
// is computed against all scans in scope, not just the returned entries, so
// the returned percentages need not sum to 100.
type DiseaseStat struct {
	Name       string  `json:"name"`
	Value      int64   `json:"value"`
	Percentage float64 `json:"percentage"`
}

// TopDiseasesResponse for the distribution endpoint
type TopDiseasesResponse struct {
	Data       []DiseaseStat `json:"data"`
	TotalScans int64         `json:"total_scans"`
}
