// database.go - Handles database connection and setup

package database // Declares the package name

import ( // Import required packages
	"context"       // For cancellable maintenance queries
	"os"            // For creating the database folder
	"path/filepath" // For locating the database folder

	"go-blog-backend/models" // User and Post models

	"gorm.io/driver/sqlite"          // SQLite driver for GORM
	"gorm.io/gorm"                   // GORM ORM
	gormlogger "gorm.io/gorm/logger" // GORM's own query logger
)

// Store owns the database handle. Open it once at startup and Close it on shutdown.
type Store struct {
	DB *gorm.DB
}

// Open opens (creating if needed) the SQLite database at dbPath and runs migrations
func Open(dbPath string, debug bool) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." { // Make sure the folder exists
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	var gormLogger gormlogger.Interface = gormlogger.Discard // Quiet unless debugging
	if debug {
		gormLogger = gormlogger.Default
	}

	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger, TranslateError: true}) // Open SQLite DB
	if err != nil {                                                                                // If error, return it
		return nil, err
	}

	// Auto-migrate the models (create tables and indexes if needed)
	if err := db.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		return nil, err
	}

	return &Store{DB: db}, nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecountPosts rewrites every user's post counter from the posts table and
// returns how many user rows were touched.
func (s *Store) RecountPosts(ctx context.Context) (int64, error) {
	res := s.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("1 = 1").
		UpdateColumn("posts", gorm.Expr("(SELECT COUNT(*) FROM posts WHERE posts.creator = users.id)"))
	return res.RowsAffected, res.Error
}
