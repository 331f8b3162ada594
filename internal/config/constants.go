package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./mediashelf.db"
)

// Upstream catalog endpoints used when no override is configured.
const (
	DefaultTMDBBaseURL        = "https://api.themoviedb.org/3"
	DefaultITunesBaseURL      = "https://itunes.apple.com"
	DefaultGoogleBooksBaseURL = "https://www.googleapis.com/books/v1"
	DefaultOpenLibraryBaseURL = "https://openlibrary.org"
)
