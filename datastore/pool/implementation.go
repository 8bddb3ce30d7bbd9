package pool

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pitabwire/util"
	"gorm.io/gorm"
)

type pool struct {
	readIdx     uint64       // atomic counter for round-robin
	writeIdx    uint64       // atomic counter for round-robin
	mu          sync.RWMutex // protects db slices
	allReadDBs  []*gorm.DB
	allWriteDBs []*gorm.DB
}

func NewPool(_ context.Context) Pool {
	return &pool{
		allReadDBs:  []*gorm.DB{},
		allWriteDBs: []*gorm.DB{},
	}
}

// AddConnection safely adds a DB connection to the pool.
func (s *pool) AddConnection(ctx context.Context, dsn string, readOnly bool, opts ...Option) error {
	db, err := s.createConnection(ctx, dsn, opts...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if readOnly {
		s.allReadDBs = append(s.allReadDBs, db)
	} else {
		s.allWriteDBs = append(s.allWriteDBs, db)
	}
	s.mu.Unlock()

	return nil
}

func (s *pool) Close(_ context.Context) {
	s.mu.RLock()
	readDBs := append([]*gorm.DB(nil), s.allReadDBs...)
	writeDBs := append([]*gorm.DB(nil), s.allWriteDBs...)
	s.mu.RUnlock()

	for _, db := range append(readDBs, writeDBs...) {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

// DB returns a connection for the requested mode; read-only requests fall
// back to a writable connection when no replica is configured.
func (s *pool) DB(ctx context.Context, readOnly bool) *gorm.DB {
	var selectedDB *gorm.DB

	s.mu.RLock()
	if readOnly && len(s.allReadDBs) != 0 {
		selectedDB = s.selectOne(s.allReadDBs, &s.readIdx)
	}

	if selectedDB == nil {
		selectedDB = s.selectOne(s.allWriteDBs, &s.writeIdx)
	}
	s.mu.RUnlock()

	if selectedDB == nil {
		return nil
	}

	return selectedDB.Session(&gorm.Session{NewDB: true}).WithContext(ctx)
}

// selectOne uses atomic round-robin for high concurrency.
func (s *pool) selectOne(dbs []*gorm.DB, idx *uint64) *gorm.DB {
	if len(dbs) == 0 {
		return nil
	}
	pos := atomic.AddUint64(idx, 1)
	return dbs[int(pos-1)%len(dbs)]
}

// Migrate ensures the supplied models have backing tables, tolerating the
// races that happen when several processes start up concurrently.
func (s *pool) Migrate(ctx context.Context, models ...any) error {
	db := s.DB(ctx, false)
	if db == nil {
		return errors.New("migrate datastore: no writable database configured")
	}

	err := db.Migrator().AutoMigrate(models...)
	if err != nil {
		if !isRelationAlreadyExistsErr(err) {
			util.Log(ctx).WithError(err).Error("Migrate -- couldn't auto migrate")
			return err
		}

		util.Log(ctx).WithError(err).Warn("Migrate -- tables already created concurrently")
	}

	return nil
}

func isRelationAlreadyExistsErr(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P07"
	}

	return err != nil && strings.Contains(strings.ToLower(err.Error()), "already exists")
}
