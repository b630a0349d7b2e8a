// Package territory serves the country and first-level division reference
// data customers are placed in.
package territory

// Country is a top-level territory.
type Country struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Division is a first-level division (state, province) within a country.
type Division struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CountryID int    `json:"country_id"`
}
