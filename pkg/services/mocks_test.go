package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive-inc/taskhive/pkg/apperrors"
	"github.com/taskhive-inc/taskhive/pkg/models"
	"github.com/taskhive-inc/taskhive/pkg/repositories"
)

// In-memory fakes implementing the repository interfaces. They mirror the
// store semantics the services rely on: NotFound on missing rows,
// Conflict on duplicate unique keys.

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserRepo) add(user *models.User) *models.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperrors.ErrConflict
		}
	}
	f.add(user)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperrors.ErrNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	user, ok := f.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	user.RefreshToken = token
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) Count(ctx context.Context) (int, error) {
	return len(f.users), nil
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

type fakeProjectRepo struct {
	projects map[uuid.UUID]*models.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[uuid.UUID]*models.Project)}
}

func (f *fakeProjectRepo) Create(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return project, nil
}

func (f *fakeProjectRepo) ListAll(ctx context.Context) ([]*models.Project, error) {
	projects := make([]*models.Project, 0, len(f.projects))
	for _, p := range f.projects {
		projects = append(projects, p)
	}
	return projects, nil
}

func (f *fakeProjectRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Project, error) {
	var projects []*models.Project
	for _, p := range f.projects {
		if p.ProjectManager == userID || p.HasMember(userID) {
			projects = append(projects, p)
		}
	}
	return projects, nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, project *models.Project) error {
	if _, ok := f.projects[project.ID]; !ok {
		return apperrors.ErrNotFound
	}
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.projects[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectRepo) Count(ctx context.Context) (int, error) {
	return len(f.projects), nil
}

func (f *fakeProjectRepo) CountByMember(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, p := range f.projects {
		if p.HasMember(userID) {
			count++
		}
	}
	return count, nil
}

func (f *fakeProjectRepo) MemberProjectIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, p := range f.projects {
		if p.HasMember(userID) {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

var _ repositories.ProjectRepository = (*fakeProjectRepo)(nil)

type fakeTaskRepo struct {
	tasks map[uuid.UUID]*models.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uuid.UUID]*models.Task)}
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *models.Task) error {
	for _, t := range f.tasks {
		if t.Title == task.Title {
			return apperrors.ErrConflict
		}
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return task, nil
}

func (f *fakeTaskRepo) GetByTitle(ctx context.Context, title string) (*models.Task, error) {
	for _, t := range f.tasks {
		if t.Title == title {
			return t, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeTaskRepo) ListAll(ctx context.Context) ([]*models.Task, error) {
	tasks := make([]*models.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (f *fakeTaskRepo) ListByAssigneeAndDate(ctx context.Context, userID uuid.UUID, day time.Time) ([]*models.Task, error) {
	var tasks []*models.Task
	for _, t := range f.tasks {
		if t.AssignedTo == userID && sameDay(t.AssignedDate, day) {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (f *fakeTaskRepo) ListByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]*models.Task, error) {
	var tasks []*models.Task
	for _, t := range f.tasks {
		if t.Project == nil {
			continue
		}
		for _, id := range projectIDs {
			if *t.Project == id {
				tasks = append(tasks, t)
				break
			}
		}
	}
	return tasks, nil
}

func (f *fakeTaskRepo) ListByCreator(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	var tasks []*models.Task
	for _, t := range f.tasks {
		if t.CreatedBy == userID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *models.Task) error {
	if _, ok := f.tasks[task.ID]; !ok {
		return apperrors.ErrNotFound
	}
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.tasks[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) Count(ctx context.Context) (int, error) {
	return len(f.tasks), nil
}

func (f *fakeTaskRepo) CountByAssignee(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, t := range f.tasks {
		if t.AssignedTo == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTaskRepo) IDsByAssignee(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, t := range f.tasks {
		if t.AssignedTo == userID {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}

var _ repositories.TaskRepository = (*fakeTaskRepo)(nil)

type fakeMarkerRepo struct {
	pending   []*models.PendingTask
	completed []*models.CompletedTask
}

func newFakeMarkerRepo() *fakeMarkerRepo {
	return &fakeMarkerRepo{}
}

func (f *fakeMarkerRepo) CreatePending(ctx context.Context, taskID uuid.UUID) error {
	f.pending = append(f.pending, &models.PendingTask{
		ID:        uuid.New(),
		TaskID:    taskID,
		CreatedAt: time.Now(),
	})
	return nil
}

func (f *fakeMarkerRepo) PendingExists(ctx context.Context, taskID uuid.UUID) (bool, error) {
	for _, m := range f.pending {
		if m.TaskID == taskID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMarkerRepo) ListPendingByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]*models.PendingTask, error) {
	var markers []*models.PendingTask
	for _, m := range f.pending {
		for _, id := range taskIDs {
			if m.TaskID == id {
				markers = append(markers, m)
				break
			}
		}
	}
	return markers, nil
}

func (f *fakeMarkerRepo) CreateCompleted(ctx context.Context, marker *models.CompletedTask) error {
	f.completed = append(f.completed, marker)
	return nil
}

func (f *fakeMarkerRepo) ListCompletedByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]*models.CompletedTask, error) {
	var markers []*models.CompletedTask
	for _, m := range f.completed {
		for _, id := range taskIDs {
			if m.TaskID == id {
				markers = append(markers, m)
				break
			}
		}
	}
	return markers, nil
}

var _ repositories.MarkerRepository = (*fakeMarkerRepo)(nil)

type fakeCommentRepo struct {
	comments map[uuid.UUID]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uuid.UUID]*models.Comment)}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return comment, nil
}

func (f *fakeCommentRepo) ListAll(ctx context.Context) ([]*models.Comment, error) {
	comments := make([]*models.Comment, 0, len(f.comments))
	for _, c := range f.comments {
		comments = append(comments, c)
	}
	return comments, nil
}

func (f *fakeCommentRepo) ListByAuthor(ctx context.Context, userID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	for _, c := range f.comments {
		if c.CommentBy == userID {
			comments = append(comments, c)
		}
	}
	return comments, nil
}

func (f *fakeCommentRepo) ListByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	for _, c := range f.comments {
		for _, id := range taskIDs {
			if c.TaskID == id {
				comments = append(comments, c)
				break
			}
		}
	}
	return comments, nil
}

func (f *fakeCommentRepo) Update(ctx context.Context, comment *models.Comment) error {
	if _, ok := f.comments[comment.ID]; !ok {
		return apperrors.ErrNotFound
	}
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.comments[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepo) CountByAuthor(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, c := range f.comments {
		if c.CommentBy == userID {
			count++
		}
	}
	return count, nil
}

var _ repositories.CommentRepository = (*fakeCommentRepo)(nil)

type fakeReplyRepo struct {
	replies map[uuid.UUID]*models.Reply
}

func newFakeReplyRepo() *fakeReplyRepo {
	return &fakeReplyRepo{replies: make(map[uuid.UUID]*models.Reply)}
}

func (f *fakeReplyRepo) Create(ctx context.Context, reply *models.Reply) error {
	if reply.ID == uuid.Nil {
		reply.ID = uuid.New()
	}
	f.replies[reply.ID] = reply
	return nil
}

func (f *fakeReplyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Reply, error) {
	reply, ok := f.replies[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return reply, nil
}

func (f *fakeReplyRepo) ListByComment(ctx context.Context, commentID uuid.UUID) ([]*models.Reply, error) {
	var replies []*models.Reply
	for _, r := range f.replies {
		if r.CommentID == commentID {
			replies = append(replies, r)
		}
	}
	return replies, nil
}

var _ repositories.ReplyRepository = (*fakeReplyRepo)(nil)
