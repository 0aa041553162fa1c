package models

// Query is one (job title, location) pair to search for.
type Query struct {
	Title    string `json:"title"`
	Location string `json:"location"`
}

// Combine builds the cross product of titles and locations, titles outer.
func Combine(titles, locations []string) []Query {
	queries := make([]Query, 0, len(titles)*len(locations))
	for _, title := range titles {
		for _, location := range locations {
			queries = append(queries, Query{Title: title, Location: location})
		}
	}
	return queries
}
