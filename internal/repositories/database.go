package repositories

import (
	"fmt"

	"atelier/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Repositories bundles one implementation of every repository.
type Repositories struct {
	Products   ProductRepository
	Categories CategoryRepository
	Posts      BlogPostRepository
	Users      UserRepository
}

// NewGORMRepositories wires every repository to db.
func NewGORMRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Products:   NewGORMProductRepository(db),
		Categories: NewGORMCategoryRepository(db),
		Posts:      NewGORMBlogPostRepository(db),
		Users:      NewGORMUserRepository(db),
	}
}

// NewMemoryRepositories returns process-local repositories, used by tests and the "memory" driver.
func NewMemoryRepositories() Repositories {
	return Repositories{
		Products:   NewMemoryProductRepository(),
		Categories: NewMemoryCategoryRepository(),
		Posts:      NewMemoryBlogPostRepository(),
		Users:      NewMemoryUserRepository(),
	}
}

// OpenDatabase connects to postgres or sqlite and migrates the schema.
func OpenDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables of every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}, &models.Category{}, &models.BlogPost{}, &models.User{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
