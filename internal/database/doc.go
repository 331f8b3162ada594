// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, partial unique indexes
//	├── content/         # Canonical content records and their external ids
//	├── interactions/    # Ratings, favorites and other user interactions
//	├── library/         # Per-user library read model (interactions ⋈ contents)
//	└── users/           # API users and token lookup
//
// # Using Sub-packages
//
// Each sub-package provides a Repository (or Aggregator) with domain-specific
// operations:
//
//	db, err := database.NewDatabase("./mediashelf.db", logger)
//
//	contentRepo := content.NewRepository(db.DB)
//	interactionRepo := interactions.NewRepository(db.DB)
//	lib := library.NewAggregator(db.DB)
//
//	stored, created, err := contentRepo.CreateEnriched(ctx, record)
//	page, err := lib.GetLibrary(ctx, library.Query{UserID: 1})
//
// # Uniqueness
//
// Two invariants are enforced by the schema rather than by application
// checks, so concurrent writers cannot violate them:
//
//   - (provider, external_id) is unique in content_external_ids.
//   - (user_id, content_id, type) is unique in interactions for rate and like.
//
// Manual content is additionally unique by (type, title). IsUniqueViolation
// recognizes the resulting driver errors.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Add compile-time interface check in internal/interfaces
package database
