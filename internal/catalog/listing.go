package catalog

// Listing is a persisted course with its college code and location name resolved.
type Listing struct {
	Course   *PersistedCourse `json:"course"`
	College  CollegeCode      `json:"college"`
	Location string           `json:"location,omitempty"`
}
