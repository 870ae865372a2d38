package metadata

// --- SQLite Keys ---
// These keys are used for the 'key' column in the 'metadata' table.
const (
	// CatalogVersionKey stores the version string of the upstream card
	// catalog that the database was last synchronized against.
	CatalogVersionKey = "catalog_version"

	// LastCacheRebuildKey stores the unix timestamp of the last
	// successful denormalized cache rebuild.
	LastCacheRebuildKey = "last_cache_rebuild"
)
