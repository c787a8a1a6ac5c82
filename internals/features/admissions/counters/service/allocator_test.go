package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	countermodel "coursedig_backend/internals/features/admissions/counters/model"
	counters "coursedig_backend/internals/features/admissions/counters/service"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// single connection so every goroutine sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&countermodel.EnquiryCounter{}, &countermodel.ApplicationCounter{}))
	return db
}

func TestNextEnquirySeq_StartsAtOneAndIncrements(t *testing.T) {
	db := openTestDB(t)

	seq, err := counters.NextEnquirySeq(db, "2026-08")
	require.NoError(t, err)
	require.Equal(t, 1, seq)

	seq, err = counters.NextEnquirySeq(db, "2026-08")
	require.NoError(t, err)
	require.Equal(t, 2, seq)
}

func TestNextEnquirySeq_ScopesAreIndependent(t *testing.T) {
	db := openTestDB(t)

	for i := 1; i <= 3; i++ {
		seq, err := counters.NextEnquirySeq(db, "2026-08")
		require.NoError(t, err)
		require.Equal(t, i, seq)
	}

	seq, err := counters.NextEnquirySeq(db, "2026-09")
	require.NoError(t, err)
	require.Equal(t, 1, seq)
}

func TestNextApplicationSeq_ConcurrentAllocationsAreUnique(t *testing.T) {
	db := openTestDB(t)
	scope := counters.ApplicationScope(time.Now(), "STANDARD")

	const n = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := counters.NextApplicationSeq(db, scope)
			require.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			require.False(t, seen[seq], "sequence %d allocated twice", seq)
			seen[seq] = true
		}()
	}
	wg.Wait()

	require.Len(t, seen, n)
	for i := 1; i <= n; i++ {
		require.True(t, seen[i], "sequence %d missing", i)
	}
}

func TestEnquiryScope(t *testing.T) {
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "2026-08", counters.EnquiryScope(at))
}

func TestApplicationScope(t *testing.T) {
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "20260828-STANDARD", counters.ApplicationScope(at, " standard "))
}

func TestFormatEnquiryRef(t *testing.T) {
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "ENQ-08-2026-0001", counters.FormatEnquiryRef(at, 1))
	require.Equal(t, "ENQ-08-2026-0042", counters.FormatEnquiryRef(at, 42))
}

func TestFormatApplicationRef(t *testing.T) {
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "APP-OCONNOR-1999-20260828-0007",
		counters.FormatApplicationRef("O'Connor", 1999, at, 7))
}

func TestNormalizeSurname(t *testing.T) {
	cases := map[string]string{
		"Smith":      "SMITH",
		"o'connor":   "OCONNOR",
		"van Helsing": "VANHELSING",
		"  ":         "APPLICANT",
		"123":        "APPLICANT",
		"Núñez":      "NEZ", // non-ASCII letters are dropped, not transliterated
	}
	for in, want := range cases {
		require.Equal(t, want, counters.NormalizeSurname(in), "input %q", in)
	}
}
