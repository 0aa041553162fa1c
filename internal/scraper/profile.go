package scraper

// Profile holds the selectors and search settings for one job site.
type Profile struct {
	Name      string `yaml:"name"`
	SearchURL string `yaml:"search_url"`
	Sort      string `yaml:"sort"`

	Marker    string      `yaml:"marker"`
	Popup     PopupRule   `yaml:"popup"`
	Listing   string      `yaml:"listing"`
	Sponsored string      `yaml:"sponsored"`
	Fields    FieldRules  `yaml:"fields"`
	Paging    PagingRules `yaml:"pagination"`
}

type PopupRule struct {
	Overlay string `yaml:"overlay"`
	Close   string `yaml:"close"`
}

// FieldRules lists selectors per field, tried in order until one matches.
type FieldRules struct {
	Title    []string `yaml:"title"`
	Company  []string `yaml:"company"`
	Location []string `yaml:"location"`
}

type PagingRules struct {
	Control       string `yaml:"control"`
	PreviousLabel string `yaml:"previous_label"`
}
