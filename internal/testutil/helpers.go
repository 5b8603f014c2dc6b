// Package testutil builds seeded stores for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"paydesk/internal/db"
	"paydesk/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Seeded ids, assigned in insertion order by a fresh store
const (
	AdminID       int64 = 1 // admin@admin.admin
	User1ID       int64 = 2 // test_user1@user.user
	User2ID       int64 = 3 // test_user2@user.user
	User3ID       int64 = 4 // test_user3@user.user
	User4ID       int64 = 5 // test_user4@user.user
	AdminMainAcct int64 = 1 // main_admin_account, balance 500
	User1MainAcct int64 = 3 // main_user1_account, balance 1000
	User2MainAcct int64 = 4 // main_user2_account, balance 250
)

var dbSeq atomic.Int64

// Hasher is a fast bcrypt hasher for tests
var Hasher = utils.BcryptHasher{Cost: bcrypt.MinCost}

// NewDB returns a migrated and seeded in-memory SQLite store private to the test
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbSeq.Add(1))
	gdb, err := db.Connect(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1) // One writer keeps SQLite transactions serialized
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if err := db.Seed(gdb, Hasher); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return gdb
}

// NewRedis returns a client backed by an in-process Redis server
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

// NewLogger returns a discarding logger plus a hook recording its entries
func NewLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

// Clock is a settable time source
type Clock struct {
	now atomic.Int64
}

// NewClock starts a clock at t
func NewClock(t time.Time) *Clock {
	c := &Clock{}
	c.now.Store(t.UnixNano())
	return c
}

// Now returns the current fake time
func (c *Clock) Now() time.Time { return time.Unix(0, c.now.Load()).UTC() }

// Advance moves the clock forward
func (c *Clock) Advance(d time.Duration) { c.now.Add(int64(d)) }
