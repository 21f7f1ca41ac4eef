package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-admin/database"
	"github.com/rpupo63/portfolio-admin/models"
	"github.com/rpupo63/portfolio-admin/storage"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\xff\xff\xff\x00\x00\x00")
	textBytes = []byte("just some notes, definitely not an image\n")
)

// memoryStore is a storage.Store that keeps assets in a map
type memoryStore struct {
	mu        sync.Mutex
	assets    map[string][]byte
	puts      int
	deletes   []string
	putErr    error
	deleteErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{assets: make(map[string][]byte)}
}

func (m *memoryStore) Put(_ context.Context, namespace string, asset storage.Asset) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return "", m.putErr
	}
	m.puts++
	reference := namespace + "/" + uuid.NewString() + asset.Extension
	m.assets[reference] = asset.Data
	return reference, nil
}

func (m *memoryStore) Delete(_ context.Context, reference string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, reference)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.assets, reference)
	return nil
}

func (m *memoryStore) URL(reference string) string {
	return "https://assets.test/" + reference
}

func (m *memoryStore) has(reference string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.assets[reference]
	return ok
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.assets)
}

// ProjectServiceTestSuite provides a migrated in-memory database and seeded lookups
type ProjectServiceTestSuite struct {
	suite.Suite
	db           *gorm.DB
	ctx          context.Context
	rc           RequestContext
	store        *memoryStore
	service      *ProjectService
	categories   []models.Category
	technologies []models.Technology
}

func (s *ProjectServiceTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(s.T(), err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(s.T(), models.Migrate(db), "Failed to run database migrations")

	s.db = db
	s.ctx = context.Background()
	s.rc = RequestContext{Actor: "admin", RequestID: "test"}

	dbase := database.New(db)
	require.NoError(s.T(), dbase.SeedLookups(s.ctx, []string{"Web", "Mobile"}, []string{"Go", "Vue", "Laravel"}))

	s.categories, err = dbase.CategoryRepo().FindAll(s.ctx)
	require.NoError(s.T(), err)
	s.technologies, err = dbase.TechnologyRepo().FindAll(s.ctx)
	require.NoError(s.T(), err)

	s.store = newMemoryStore()
	s.service = NewProjectService(dbase.ProjectRepo(), dbase.CategoryRepo(), dbase.TechnologyRepo(), s.store)
}

func (s *ProjectServiceTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

func (s *ProjectServiceTestSuite) techID(i int) uint {
	return s.technologies[i].ID
}

func (s *ProjectServiceTestSuite) storeProject(title string, techs ...uint) uuid.UUID {
	in := ProjectInput{Title: title, Description: "a project"}
	if len(techs) > 0 {
		in.Technologies = Some(techs)
	}
	id, err := s.service.Store(s.ctx, s.rc, in)
	s.Require().NoError(err)
	return id
}

var (
	errPutFailed    = errors.New("bucket unavailable")
	errDeleteFailed = errors.New("access denied")
)

func TestProjectService(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
