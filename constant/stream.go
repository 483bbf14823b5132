package constant

// Labels used by the stream listing.
const (
	// GroupedSectionTitle is the heading of the single section produced in grouped display mode.
	GroupedSectionTitle = "Available Streams"

	// GroupedSectionID identifies the grouped section.
	GroupedSectionID = "grouped-all"

	// AutoQuality is the excluded-quality entry that removes adaptive streams.
	AutoQuality = "Auto"
)

// Sort modes.
const (
	SortQualityThenScraper = "quality-then-scraper"
	SortScraperOrder       = "scraper-order"
)

// Display modes.
const (
	DisplayPerProvider = "per-provider"
	DisplayGrouped     = "grouped"
)

// Content types.
const (
	ContentMovie  = "movie"
	ContentSeries = "series"
)
