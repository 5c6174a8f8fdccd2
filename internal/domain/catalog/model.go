package catalog

// Sport is a top-level grouping from the provider catalog (soccer, tennis, ...).
// ExternalKey is the provider's sport id; empty for sports seeded from catalog
// group labels, which only carry a name.
type Sport struct {
	ID          int64
	Name        string
	ExternalKey string
}

// League is one competition under a sport. ExternalKey is the provider's
// tournament identifier and the upsert key. Download gates event ingestion;
// new leagues arrive disabled until an operator turns them on.
type League struct {
	ID          int64
	SportID     int64
	ExternalKey string
	Name        string
	CountryCode string
	Download    bool
}

// LeagueSeed is the parsed catalog entry before it becomes a persisted row.
// The parent sport is resolved by external key when set, by name otherwise,
// and created when missing.
type LeagueSeed struct {
	SportName        string
	SportExternalKey string
	ExternalKey      string
	Name             string
	CountryCode      string
}
