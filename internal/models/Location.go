package models

// LocationCandidate is a single geocoding match.
type LocationCandidate struct {
	Name        string  `json:"name" example:"Berlin"`
	Region      string  `json:"region,omitempty" example:"Berlin"`
	Country     string  `json:"country" example:"Germany"`
	CountryCode string  `json:"country_code,omitempty" example:"DE"`
	Latitude    float64 `json:"latitude" example:"52.52437"`
	Longitude   float64 `json:"longitude" example:"13.41053"`
}

// Label is the text shown for the candidate in a suggestion list.
func (c LocationCandidate) Label() string {
	if c.Region == "" {
		return c.Name
	}
	return c.Name + ", " + c.Region
}

// Suggestion is one clickable entry of the suggestion list.
type Suggestion struct {
	Label    string            `json:"label" example:"Berlin, Berlin"`
	Location LocationCandidate `json:"location"`
}
