package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive-inc/taskhive/pkg/apperrors"
	"github.com/taskhive-inc/taskhive/pkg/models"
	"github.com/taskhive-inc/taskhive/pkg/repositories"
	"github.com/taskhive-inc/taskhive/pkg/testhelpers"
)

func seedDBUser(t *testing.T, repo repositories.UserRepository, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		Role:         role,
		PasswordHash: "$2a$12$fakehashfakehashfakehashfakehashfakehashfakehash",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository_Integration(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	ctx := context.Background()

	repo := repositories.NewUserRepository(tdb.DB)
	user := seedDBUser(t, repo, "ada@example.com", models.RoleAdmin)

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", got.Email)
	})

	t.Run("get by email is case-insensitive", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "ADA@Example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{
			FirstName:    "Other",
			LastName:     "User",
			Email:        "ada@example.com",
			Role:         models.RoleTeamMember,
			PasswordHash: "x",
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("refresh token round trip", func(t *testing.T) {
		token := "refresh-token-value"
		require.NoError(t, repo.SetRefreshToken(ctx, user.ID, &token))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got.RefreshToken)
		assert.Equal(t, token, *got.RefreshToken)

		require.NoError(t, repo.SetRefreshToken(ctx, user.ID, nil))
		got, err = repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, got.RefreshToken)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestProjectRepository_Integration(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	ctx := context.Background()

	userRepo := repositories.NewUserRepository(tdb.DB)
	manager := seedDBUser(t, userRepo, "pm@example.com", models.RoleProjectManager)
	member := seedDBUser(t, userRepo, "member@example.com", models.RoleTeamMember)

	repo := repositories.NewProjectRepository(tdb.DB)
	project := &models.Project{
		Title:          "LAUNCH",
		Description:    "Launch prep",
		StartDate:      time.Now(),
		EndDate:        time.Now().Add(30 * 24 * time.Hour),
		Status:         models.StatusNA,
		ProjectManager: manager.ID,
		TeamMembers:    []uuid.UUID{member.ID},
	}
	require.NoError(t, repo.Create(ctx, project))

	t.Run("members round trip", func(t *testing.T) {
		got, err := repo.GetByID(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, got.TeamMembers, 1)
		assert.Equal(t, member.ID, got.TeamMembers[0])
	})

	t.Run("list for manager and member", func(t *testing.T) {
		forManager, err := repo.ListForUser(ctx, manager.ID)
		require.NoError(t, err)
		assert.Len(t, forManager, 1)

		forMember, err := repo.ListForUser(ctx, member.ID)
		require.NoError(t, err)
		assert.Len(t, forMember, 1)
	})

	t.Run("update rewrites membership", func(t *testing.T) {
		project.TeamMembers = nil
		require.NoError(t, repo.Update(ctx, project))

		got, err := repo.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Empty(t, got.TeamMembers)

		ids, err := repo.MemberProjectIDs(ctx, member.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestTaskAndMarkerRepositories_Integration(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	ctx := context.Background()

	userRepo := repositories.NewUserRepository(tdb.DB)
	admin := seedDBUser(t, userRepo, "admin@example.com", models.RoleAdmin)
	member := seedDBUser(t, userRepo, "member@example.com", models.RoleTeamMember)

	taskRepo := repositories.NewTaskRepository(tdb.DB)
	task := &models.Task{
		Title:        "WRITE REPORT",
		Description:  "Quarterly report",
		Status:       models.StatusNA,
		AssignedTo:   member.ID,
		AssignedDate: time.Now(),
		DueTime:      time.Now().Add(8 * time.Hour),
		CreatedBy:    admin.ID,
	}
	require.NoError(t, taskRepo.Create(ctx, task))

	t.Run("duplicate title conflicts", func(t *testing.T) {
		err := taskRepo.Create(ctx, &models.Task{
			Title:        "WRITE REPORT",
			Description:  "Another",
			Status:       models.StatusNA,
			AssignedTo:   member.ID,
			AssignedDate: time.Now(),
			DueTime:      time.Now().Add(time.Hour),
			CreatedBy:    admin.ID,
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("list by assignee and date", func(t *testing.T) {
		tasks, err := taskRepo.ListByAssigneeAndDate(ctx, member.ID, time.Now())
		require.NoError(t, err)
		assert.Len(t, tasks, 1)

		// A query late in the local day must stay on the same calendar day.
		now := time.Now()
		endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
		tasks, err = taskRepo.ListByAssigneeAndDate(ctx, member.ID, endOfDay)
		require.NoError(t, err)
		assert.Len(t, tasks, 1)

		tasks, err = taskRepo.ListByAssigneeAndDate(ctx, member.ID, now.Add(48*time.Hour))
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	markerRepo := repositories.NewMarkerRepository(tdb.DB)

	t.Run("pending markers", func(t *testing.T) {
		exists, err := markerRepo.PendingExists(ctx, task.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, markerRepo.CreatePending(ctx, task.ID))

		exists, err = markerRepo.PendingExists(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("completion history keeps duplicates", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			require.NoError(t, markerRepo.CreateCompleted(ctx, &models.CompletedTask{
				TaskID:      task.ID,
				CompletedBy: member.ID,
				CompletedAt: time.Now(),
			}))
		}

		markers, err := markerRepo.ListCompletedByTaskIDs(ctx, []uuid.UUID{task.ID})
		require.NoError(t, err)
		assert.Len(t, markers, 2)
	})
}

func TestCommentAndReplyRepositories_Integration(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	ctx := context.Background()

	userRepo := repositories.NewUserRepository(tdb.DB)
	admin := seedDBUser(t, userRepo, "admin@example.com", models.RoleAdmin)
	member := seedDBUser(t, userRepo, "member@example.com", models.RoleTeamMember)

	taskRepo := repositories.NewTaskRepository(tdb.DB)
	task := &models.Task{
		Title:        "TASK",
		Description:  "desc",
		Status:       models.StatusNA,
		AssignedTo:   member.ID,
		AssignedDate: time.Now(),
		DueTime:      time.Now().Add(time.Hour),
		CreatedBy:    admin.ID,
	}
	require.NoError(t, taskRepo.Create(ctx, task))

	commentRepo := repositories.NewCommentRepository(tdb.DB)
	comment := &models.Comment{
		Content:   "first",
		TaskID:    task.ID,
		CommentBy: member.ID,
	}
	require.NoError(t, commentRepo.Create(ctx, comment))

	t.Run("list by task ids", func(t *testing.T) {
		comments, err := commentRepo.ListByTaskIDs(ctx, []uuid.UUID{task.ID})
		require.NoError(t, err)
		assert.Len(t, comments, 1)
	})

	replyRepo := repositories.NewReplyRepository(tdb.DB)
	parent := &models.Reply{
		Reply:     "parent",
		ReplyBy:   admin.ID,
		CommentID: comment.ID,
	}
	require.NoError(t, replyRepo.Create(ctx, parent))

	t.Run("nested reply", func(t *testing.T) {
		child := &models.Reply{
			Reply:         "child",
			ReplyBy:       member.ID,
			CommentID:     comment.ID,
			ParentReplyID: &parent.ID,
		}
		require.NoError(t, replyRepo.Create(ctx, child))

		replies, err := replyRepo.ListByComment(ctx, comment.ID)
		require.NoError(t, err)
		assert.Len(t, replies, 2)
	})

	t.Run("self-referencing reply rejected by schema", func(t *testing.T) {
		id := uuid.New()
		err := replyRepo.Create(ctx, &models.Reply{
			ID:            id,
			Reply:         "loop",
			ReplyBy:       member.ID,
			CommentID:     comment.ID,
			ParentReplyID: &id,
		})
		assert.Error(t, err)
	})

	t.Run("deleting comment cascades replies", func(t *testing.T) {
		require.NoError(t, commentRepo.Delete(ctx, comment.ID))

		replies, err := replyRepo.ListByComment(ctx, comment.ID)
		require.NoError(t, err)
		assert.Empty(t, replies)
	})
}
