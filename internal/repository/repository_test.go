package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"skillswap/internal/models"
	"skillswap/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID_Postgres(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)

	mock.ExpectQuery(query).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).AddRow(1, "testuser", "test@example.com"))
	user, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "testuser", user.Username)

	mock.ExpectQuery(query).
		WithArgs(99, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = repo.GetByID(ctx, 99)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	mock.ExpectQuery(query).
		WithArgs(5, 1).
		WillReturnError(errors.New("connection reset"))
	_, err = repo.GetByID(ctx, 5)
	assert.True(t, models.HasCode(err, models.CodeInternal))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.True(t, isUniqueConstraintError(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueConstraintError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueConstraintError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, isForeignKeyError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isForeignKeyError(gorm.ErrForeignKeyViolated))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%go%", likePattern("Go"))
	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
}

func TestUserRepository_SQLite(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", func(u *models.User) { u.Name = "Alice Smith" })
	testutil.CreateUser(t, db, "alicia", testutil.Private)
	testutil.CreateUser(t, db, "alina", testutil.Banned)
	bob := testutil.CreateUser(t, db, "bob")

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Email: alice.Email, Username: "other", PasswordHash: "x", Name: "x", IsActive: true})
		assert.True(t, models.HasCode(err, models.CodeConflict), "got %v", err)
	})

	t.Run("lookup by email", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, alice.ID, got.ID)
		assert.NotEmpty(t, got.PasswordHash)

		missing, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("actor view has no password hash", func(t *testing.T) {
		actor, err := repo.GetActor(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, actor.PasswordHash)

		_, err = repo.GetActor(ctx, 9999)
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})

	t.Run("search only returns public active users", func(t *testing.T) {
		found, err := repo.Search(ctx, "ALI", 10, 0)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "alice", found[0].Username)

		byName, err := repo.Search(ctx, "smith", 10, 0)
		require.NoError(t, err)
		assert.Len(t, byName, 1)
	})

	t.Run("ban and promote", func(t *testing.T) {
		require.NoError(t, repo.SetBanned(ctx, alice.ID, true))
		require.NoError(t, repo.SetRole(ctx, alice.ID, models.RoleAdmin))
		got, err := repo.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.True(t, got.IsBanned)
		assert.Equal(t, models.RoleAdmin, got.Role)

		admins, err := repo.ListAdmins(ctx)
		require.NoError(t, err)
		assert.Len(t, admins, 1)

		assert.True(t, models.HasCode(repo.SetBanned(ctx, 9999, true), models.CodeNotFound))
	})

	t.Run("list and recipients", func(t *testing.T) {
		users, total, err := repo.List(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, int64(4), total)

		n, err := repo.CountBroadcastRecipients(ctx)
		require.NoError(t, err)
		// alina and alice (banned above) are excluded.
		assert.Equal(t, int64(2), n)
	})

	t.Run("ban skips admins at write time", func(t *testing.T) {
		assert.True(t, models.HasCode(repo.BanNonAdmin(ctx, alice.ID), models.CodeForbidden))
		assert.True(t, models.HasCode(repo.BanNonAdmin(ctx, 9999), models.CodeNotFound))

		require.NoError(t, repo.BanNonAdmin(ctx, bob.ID))
		got, err := repo.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.True(t, got.IsBanned)
	})
}

func TestSkillRepository_SQLite(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSkillRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	banned := testutil.CreateUser(t, db, "mallory", testutil.Banned)

	goSkill := testutil.CreateOfferedSkill(t, db, alice.ID, "Golang", models.SkillStatusApproved)
	testutil.CreateOfferedSkill(t, db, alice.ID, "Go kart racing", models.SkillStatusPending)
	testutil.CreateOfferedSkill(t, db, banned.ID, "Go board game", models.SkillStatusApproved)
	wanted := testutil.CreateWantedSkill(t, db, bob.ID, "Gourmet cooking")

	dormant := testutil.CreateUser(t, db, "dormant", testutil.Inactive)
	testutil.CreateOfferedSkill(t, db, dormant.ID, "Go fishing", models.SkillStatusApproved)
	testutil.CreateWantedSkill(t, db, dormant.ID, "Gold panning")
	testutil.CreateWantedSkill(t, db, banned.ID, "Goat herding")

	t.Run("default status is approved", func(t *testing.T) {
		s := &models.SkillOffered{UserID: bob.ID, Name: "Guitar"}
		require.NoError(t, repo.CreateOffered(ctx, s))
		got, err := repo.GetOffered(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SkillStatusApproved, got.Status)
	})

	t.Run("search filters status and owners", func(t *testing.T) {
		results, err := repo.Search(ctx, "go", "", 50)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, models.SkillTypeOffered, results[0].SkillType)
		assert.Equal(t, goSkill.ID, results[0].SkillID)
		assert.Equal(t, "alice", results[0].Username)
		assert.Equal(t, models.SkillTypeWanted, results[1].SkillType)
		assert.Equal(t, "bob", results[1].UserName)

		onlyWanted, err := repo.Search(ctx, "go", models.SkillTypeWanted, 50)
		require.NoError(t, err)
		require.Len(t, onlyWanted, 1)
		assert.Equal(t, wanted.ID, onlyWanted[0].SkillID)
	})

	t.Run("search ignores case", func(t *testing.T) {
		upper, err := repo.Search(ctx, "GO", "", 50)
		require.NoError(t, err)
		assert.Len(t, upper, 2)

		guitar, err := repo.Search(ctx, "GUITAR", models.SkillTypeOffered, 50)
		require.NoError(t, err)
		require.Len(t, guitar, 1)
		assert.Equal(t, "Guitar", guitar[0].Name)
	})

	t.Run("pending queue and moderation", func(t *testing.T) {
		pending, err := repo.ListPendingOffered(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)

		approved, err := repo.SetOfferedStatus(ctx, pending[0].ID, models.SkillStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, models.SkillStatusApproved, approved.Status)

		_, err = repo.SetOfferedStatus(ctx, 9999, models.SkillStatusRejected)
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})

	t.Run("delete clears swap references", func(t *testing.T) {
		swap := &models.Swap{RequesterID: bob.ID, ProviderID: alice.ID, SkillOfferedID: &goSkill.ID, SkillWantedID: &wanted.ID}
		require.NoError(t, db.Create(swap).Error)

		require.NoError(t, repo.DeleteOffered(ctx, goSkill.ID))
		require.NoError(t, repo.DeleteWanted(ctx, wanted.ID))

		var reloaded models.Swap
		require.NoError(t, db.First(&reloaded, swap.ID).Error)
		assert.Nil(t, reloaded.SkillOfferedID)
		assert.Nil(t, reloaded.SkillWantedID)

		assert.True(t, models.HasCode(repo.DeleteOffered(ctx, goSkill.ID), models.CodeNotFound))
	})

	t.Run("update keeps owner", func(t *testing.T) {
		s := testutil.CreateWantedSkill(t, db, alice.ID, "Piano")
		desc := "beginner"
		s.Name = "Grand piano"
		s.Description = &desc
		require.NoError(t, repo.UpdateWanted(ctx, s))
		got, err := repo.GetWanted(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "Grand piano", got.Name)
		assert.Equal(t, alice.ID, got.UserID)

		list, err := repo.ListWantedByUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestSwapRepository_SQLite(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSwapRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	swap := &models.Swap{RequesterID: alice.ID, ProviderID: bob.ID, Status: models.SwapStatusPending}
	require.NoError(t, repo.Create(ctx, swap))
	testutil.CreateSwap(t, db, carol.ID, alice.ID, models.SwapStatusAccepted)
	testutil.CreateSwap(t, db, bob.ID, carol.ID, models.SwapStatusPending)

	t.Run("details are preloaded", func(t *testing.T) {
		got, err := repo.GetByID(ctx, swap.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Requester)
		assert.Equal(t, "alice", got.Requester.Username)
		assert.Equal(t, "bob", got.Provider.Username)
	})

	t.Run("list filters", func(t *testing.T) {
		all, err := repo.List(ctx, SwapFilter{UserID: alice.ID})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		sent, err := repo.List(ctx, SwapFilter{UserID: alice.ID, Role: SwapRoleRequester})
		require.NoError(t, err)
		assert.Len(t, sent, 1)

		received, err := repo.List(ctx, SwapFilter{UserID: alice.ID, Role: SwapRoleProvider, Status: models.SwapStatusAccepted})
		require.NoError(t, err)
		assert.Len(t, received, 1)

		pending, err := repo.List(ctx, SwapFilter{Status: models.SwapStatusPending})
		require.NoError(t, err)
		assert.Len(t, pending, 2)
	})

	t.Run("transition persists and aborts", func(t *testing.T) {
		msg := "see you tuesday"
		updated, err := repo.Transition(ctx, swap.ID, func(s *models.Swap) error {
			s.Status = models.SwapStatusAccepted
			s.Message = &msg
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, models.SwapStatusAccepted, updated.Status)
		assert.Equal(t, msg, *updated.Message)

		_, err = repo.Transition(ctx, swap.ID, func(s *models.Swap) error {
			s.Status = models.SwapStatusRejected
			return models.NewForbiddenError("nope")
		})
		assert.True(t, models.HasCode(err, models.CodeForbidden))

		got, err := repo.GetByID(ctx, swap.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SwapStatusAccepted, got.Status)

		_, err = repo.Transition(ctx, 9999, func(*models.Swap) error { return nil })
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})

	t.Run("conditional delete", func(t *testing.T) {
		blocked := errors.New("blocked")
		err := repo.DeleteIf(ctx, swap.ID, func(*models.Swap) error { return blocked })
		assert.True(t, models.HasCode(err, models.CodeInternal))
		_, err = repo.GetByID(ctx, swap.ID)
		require.NoError(t, err)

		require.NoError(t, repo.DeleteIf(ctx, swap.ID, func(*models.Swap) error { return nil }))
		_, err = repo.GetByID(ctx, swap.ID)
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})
}

func TestFeedbackRepository_SQLite(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFeedbackRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	swap := testutil.CreateSwap(t, db, alice.ID, bob.ID, models.SwapStatusCompleted)

	fb := &models.Feedback{SwapID: swap.ID, GiverID: alice.ID, ReceiverID: bob.ID, Rating: 4.5}
	require.NoError(t, repo.Create(ctx, fb))

	dup := &models.Feedback{SwapID: swap.ID, GiverID: alice.ID, ReceiverID: bob.ID, Rating: 3}
	assert.True(t, models.HasCode(repo.Create(ctx, dup), models.CodeDuplicateFeedback))

	exists, err := repo.ExistsForGiver(ctx, swap.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsForGiver(ctx, swap.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	received, err := repo.ListByReceiver(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, received, 1)
	require.NotNil(t, received[0].Giver)
	assert.Equal(t, "alice", received[0].Giver.Username)

	given, err := repo.ListByGiver(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, given)

	bySwap, err := repo.ListBySwap(ctx, swap.ID)
	require.NoError(t, err)
	assert.Len(t, bySwap, 1)

	got, err := repo.GetByID(ctx, fb.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, got.Rating, 0.001)
}

func TestStatsRepository_SQLite(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewStatsRepository(db)
	ctx := context.Background()

	stats, err := repo.PlatformStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalUsers)
	assert.Len(t, stats.SwapsByStatus, len(models.AllSwapStatuses))

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	testutil.CreateUser(t, db, "dave")
	testutil.CreateOfferedSkill(t, db, alice.ID, "Go", models.SkillStatusApproved)
	testutil.CreateWantedSkill(t, db, bob.ID, "Rust")
	testutil.CreateSwap(t, db, alice.ID, bob.ID, models.SwapStatusPending)
	testutil.CreateSwap(t, db, bob.ID, carol.ID, models.SwapStatusCompleted)
	testutil.CreateSwap(t, db, alice.ID, carol.ID, models.SwapStatusCompleted)

	stats, err = repo.PlatformStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalUsers)
	assert.Equal(t, int64(3), stats.ActiveUsers)
	assert.Equal(t, int64(1), stats.TotalSkillsOffered)
	assert.Equal(t, int64(1), stats.TotalSkillsWanted)
	assert.Equal(t, int64(3), stats.TotalSwaps)
	assert.Equal(t, int64(1), stats.SwapsByStatus[models.SwapStatusPending])
	assert.Equal(t, int64(2), stats.SwapsByStatus[models.SwapStatusCompleted])
	assert.Equal(t, int64(0), stats.SwapsByStatus[models.SwapStatusRejected])
}
