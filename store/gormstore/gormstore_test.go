package gormstore

import (
	"context"
	"testing"
	"time"

	"github.com/MrEthical07/mediaguard/clock"
	"github.com/MrEthical07/mediaguard/permission"
	"github.com/MrEthical07/mediaguard/rank"
	"github.com/MrEthical07/mediaguard/reset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedChannels(t *testing.T, db *gorm.DB, ids ...string) {
	t.Helper()
	for i, id := range ids {
		require.NoError(t, db.Create(&Channel{ID: id, Name: "channel " + id, IsActive: true, OrderPosition: i}).Error)
	}
}

func channelOrder(t *testing.T, s *ChannelStore) []string {
	t.Helper()
	chans, err := s.Ordered(context.Background(), false)
	require.NoError(t, err)
	out := make([]string, len(chans))
	for i, c := range chans {
		require.Equal(t, i, c.OrderPosition, "positions must stay dense")
		out[i] = c.ID
	}
	return out
}

func TestChannelStoreMove(t *testing.T) {
	db := newTestDB(t)
	seedChannels(t, db, "a", "b", "c", "d", "e")
	store := NewChannelStore(db)
	orderer := rank.NewOrderer(store)
	ctx := context.Background()

	outcome, err := orderer.MoveTo(ctx, "e", 1)
	require.NoError(t, err)
	assert.Equal(t, rank.Moved, outcome)
	assert.Equal(t, []string{"a", "e", "b", "c", "d"}, channelOrder(t, store))

	_, err = orderer.MoveTo(ctx, "a", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"e", "b", "c", "d", "a"}, channelOrder(t, store))

	outcome, err = orderer.MoveTo(ctx, "c", 2)
	require.NoError(t, err)
	assert.Equal(t, rank.NoOp, outcome)
}

func TestChannelStoreBoundsAndMissing(t *testing.T) {
	db := newTestDB(t)
	seedChannels(t, db, "a", "b", "c")
	orderer := rank.NewOrderer(NewChannelStore(db))
	ctx := context.Background()

	_, err := orderer.MoveTo(ctx, "a", 3)
	assert.ErrorIs(t, err, rank.ErrPositionOutOfRange)

	_, err = orderer.MoveTo(ctx, "missing", 0)
	assert.ErrorIs(t, err, rank.ErrRankNotFound)
}

func TestResetRepositoryWithService(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&UserAccount{ID: "u-1", Email: "alice@example.com", PasswordHash: "old", IsActive: true}).Error)

	clk := clock.NewManual(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	repo := NewResetRepository(db)
	accounts := NewAccountStore(db)
	svc, err := reset.NewService(repo, accounts, reset.Config{Clock: clk})
	require.NoError(t, err)

	first, err := svc.CreateToken(ctx, "u-1", permission.RoleUser, "alice@example.com")
	require.NoError(t, err)
	assert.Len(t, first.ID, 26, "record ids are ULIDs")

	again, err := svc.CreateToken(ctx, "u-1", permission.RoleUser, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.Token, again.Token)

	consumed, err := svc.ConsumeToken(ctx, first.Token, "new-hash")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", consumed.Email)

	var u UserAccount
	require.NoError(t, db.First(&u, "id = ?", "u-1").Error)
	assert.Equal(t, "new-hash", u.PasswordHash)

	_, err = svc.ConsumeToken(ctx, first.Token, "again")
	assert.ErrorIs(t, err, reset.ErrResetTokenInvalid)
}

func TestResetRecordsAreScopedByUserType(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&AdminAccount{ID: "7", Email: "root@example.com", PasswordHash: "admin-old", IsActive: true}).Error)
	require.NoError(t, db.Create(&UserAccount{ID: "7", Email: "alice@example.com", PasswordHash: "user-old", IsActive: true}).Error)

	clk := clock.NewManual(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	svc, err := reset.NewService(NewResetRepository(db), NewAccountStore(db), reset.Config{Clock: clk})
	require.NoError(t, err)

	adminRec, err := svc.CreateToken(ctx, "7", permission.RoleAdmin, "root@example.com")
	require.NoError(t, err)
	userRec, err := svc.CreateToken(ctx, "7", permission.RoleUser, "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, adminRec.Token, userRec.Token, "same id in two tables must not share a reset token")

	consumed, err := svc.ConsumeToken(ctx, userRec.Token, "user-new")
	require.NoError(t, err)
	assert.Equal(t, permission.RoleUser, consumed.UserType)

	var admin AdminAccount
	require.NoError(t, db.First(&admin, "id = ?", "7").Error)
	assert.Equal(t, "admin-old", admin.PasswordHash)
}

func TestAccountStoreScopesByActiveAndType(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&AdminAccount{ID: "a-1", Email: "root@example.com", PasswordHash: "h", IsActive: true}).Error)
	require.NoError(t, db.Create(&UserAccount{ID: "u-2", Email: "gone@example.com", PasswordHash: "h", IsActive: false}).Error)
	store := NewAccountStore(db)

	acct, err := store.FindByEmail(ctx, permission.RoleAdmin, "root@example.com", true)
	require.NoError(t, err)
	assert.Equal(t, "a-1", acct.ID)

	_, err = store.FindByEmail(ctx, permission.RoleUser, "root@example.com", false)
	assert.ErrorIs(t, err, reset.ErrNotFound)

	_, err = store.FindByEmail(ctx, permission.RoleUser, "gone@example.com", true)
	assert.ErrorIs(t, err, reset.ErrNotFound)

	acct, err = store.FindByID(ctx, permission.RoleUser, "u-2")
	require.NoError(t, err)
	assert.False(t, acct.Active)

	n, err := store.UpdatePasswordHash(ctx, permission.RoleUser, "u-2", "gone@example.com", true, "x")
	require.NoError(t, err)
	assert.Zero(t, n)

	id, hash, err := store.PasswordHash(ctx, permission.RoleAdmin, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a-1", id)
	assert.Equal(t, "h", hash)
}
