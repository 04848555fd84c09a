package userservice

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/inkwell/internal/common"
)

func setupTestModel(t *testing.T) (*UserModel, *sql.DB) {
	db := common.TestDB("file://../../migrations", t)

	t.Cleanup(func() {
		_, err := db.Exec("DELETE FROM users")
		assert.NoError(t, err)
	})

	return NewUserModel(db), db
}

func testUser(email, username string) User {
	u := User{
		ID: uuid.New(),
		PersonalInfo: PersonalInfo{
			Fullname:   "Test User",
			Email:      email,
			Username:   username,
			ProfileImg: "https://example.com/me.png",
		},
	}
	return u
}

func TestUserModel(t *testing.T) {
	m, db := setupTestModel(t)
	ctx := context.Background()

	u := testUser("testuser@example.com", "testuser")
	require.NoError(t, u.PersonalInfo.Password.set("Abcde1f"))
	require.NoError(t, m.insert(ctx, &u))
	assert.False(t, u.JoinedAt.IsZero())

	fed := testUser("fed@example.com", "fed")
	fed.GoogleAuth = true
	require.NoError(t, m.insert(ctx, &fed))

	t.Run("get by email", func(t *testing.T) {
		got, err := m.getByEmail(ctx, "testuser@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "testuser", got.PersonalInfo.Username)
		assert.Equal(t, 0, got.AccountInfo.TotalPosts)
		assert.Empty(t, got.Blogs)

		ok, err := got.PersonalInfo.Password.compare("Abcde1f")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("federated account has no password", func(t *testing.T) {
		var hash []byte
		err := db.QueryRow("SELECT password FROM users WHERE id = $1", fed.ID).Scan(&hash)
		require.NoError(t, err)
		assert.Nil(t, hash)

		got, err := m.getByEmail(ctx, "fed@example.com")
		require.NoError(t, err)
		assert.True(t, got.GoogleAuth)

		ok, err := got.PersonalInfo.Password.compare("Abcde1f")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := m.getByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("exists by username", func(t *testing.T) {
		exists, err := m.existsByUsername(ctx, "testuser")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = m.existsByUsername(ctx, "someoneelse")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := testUser("testuser@example.com", "other")
		assert.ErrorIs(t, m.insert(ctx, &dup), ErrDuplicateEmail)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := testUser("other@example.com", "testuser")
		assert.ErrorIs(t, m.insert(ctx, &dup), ErrDuplicateUsername)
	})

	t.Run("increment post count", func(t *testing.T) {
		for i, delta := range []int{1, 0, 1} {
			tx, err := db.BeginTx(ctx, nil)
			require.NoError(t, err)

			_, err = m.IncrementPostCount(ctx, tx, u.ID, "blog-"+string(rune('a'+i)), delta)
			require.NoError(t, err)
			require.NoError(t, tx.Commit())
		}

		var total int
		var blogs []string
		err := db.QueryRow("SELECT total_posts, blogs FROM users WHERE id = $1", u.ID).Scan(&total, pq.Array(&blogs))
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Equal(t, []string{"blog-a", "blog-b", "blog-c"}, blogs)
	})

	t.Run("increment unknown user", func(t *testing.T) {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		defer tx.Rollback()

		_, err = m.IncrementPostCount(ctx, tx, uuid.New(), "blog-x", 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
