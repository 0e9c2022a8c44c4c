// Package memory provides the default, non-durable backend for the repository
// interfaces. Entities live in id-keyed maps with an insertion-order slice and
// a per-owner secondary index, so owner-scoped listings are not full scans and
// come back in insertion order. A single mutex serializes every operation, so
// each one (including the project cascade) is atomic: nothing is mutated
// before all checks pass.
package memory

import (
	"context"
	"strings"
	"sync"

	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

// Store holds all entities for the lifetime of the process.
type Store struct {
	mu sync.Mutex

	users        map[string]*model.User
	usersByEmail map[string]string

	projects        map[string]*model.Project
	projectOrder    []string
	projectsByOwner map[string][]string

	tasks        map[string]*model.Task
	taskOrder    []string
	tasksByOwner map[string][]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:           make(map[string]*model.User),
		usersByEmail:    make(map[string]string),
		projects:        make(map[string]*model.Project),
		projectsByOwner: make(map[string][]string),
		tasks:           make(map[string]*model.Task),
		tasksByOwner:    make(map[string][]string),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// Projects returns the project repository view of the store.
func (s *Store) Projects() repository.ProjectRepository { return &projectRepo{s} }

// Tasks returns the task repository view of the store.
func (s *Store) Tasks() repository.TaskRepository { return &taskRepo{s} }

func nameMatches(name, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(search))
}

func removeString(list []string, v string) []string {
	for i, s := range list {
		if s == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func cloneTask(t *model.Task) *model.Task {
	clone := *t
	if t.Tags != nil {
		clone.Tags = append([]string(nil), t.Tags...)
	}
	if t.ProjectID != nil {
		projectID := *t.ProjectID
		clone.ProjectID = &projectID
	}
	return &clone
}

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.usersByEmail[user.Email]; ok {
		return apperrors.ErrEmailRegistered
	}
	stored := *user
	r.s.users[user.ID] = &stored
	r.s.usersByEmail[user.Email] = user.ID
	return nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.usersByEmail[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	user := *r.s.users[id]
	return &user, nil
}

type projectRepo struct {
	s *Store
}

func (r *projectRepo) Create(_ context.Context, project *model.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *project
	r.s.projects[project.ID] = &stored
	r.s.projectOrder = append(r.s.projectOrder, project.ID)
	r.s.projectsByOwner[project.UserID] = append(r.s.projectsByOwner[project.UserID], project.ID)
	return nil
}

func (r *projectRepo) FindByIDAndOwner(_ context.Context, ownerID, id string) (*model.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	project, ok := r.s.projects[id]
	if !ok || project.UserID != ownerID {
		return nil, apperrors.ErrProjectNotFound
	}
	clone := *project
	return &clone, nil
}

func (r *projectRepo) ListByOwner(_ context.Context, ownerID, search string) ([]model.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	projects := make([]model.Project, 0)
	for _, id := range r.s.projectsByOwner[ownerID] {
		if p := r.s.projects[id]; nameMatches(p.Name, search) {
			projects = append(projects, *p)
		}
	}
	return projects, nil
}

func (r *projectRepo) Update(_ context.Context, project *model.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[project.ID]; !ok {
		return apperrors.ErrProjectNotFound
	}
	stored := *project
	r.s.projects[project.ID] = &stored
	return nil
}

func (r *projectRepo) DeleteCascade(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	project, ok := r.s.projects[id]
	if !ok || project.UserID != ownerID {
		return apperrors.ErrProjectNotFound
	}

	delete(r.s.projects, id)
	r.s.projectOrder = removeString(r.s.projectOrder, id)
	r.s.projectsByOwner[ownerID] = removeString(r.s.projectsByOwner[ownerID], id)

	// Cascade is keyed purely on the projectId match.
	for _, taskID := range append([]string(nil), r.s.taskOrder...) {
		task := r.s.tasks[taskID]
		if task.ProjectID == nil || *task.ProjectID != id {
			continue
		}
		delete(r.s.tasks, taskID)
		r.s.taskOrder = removeString(r.s.taskOrder, taskID)
		r.s.tasksByOwner[task.UserID] = removeString(r.s.tasksByOwner[task.UserID], taskID)
	}
	return nil
}

type taskRepo struct {
	s *Store
}

func (r *taskRepo) Create(_ context.Context, task *model.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// The reference check and the insert share one lock acquisition, so a
	// cascade delete can never slip in between them.
	if task.ProjectID != nil {
		project, ok := r.s.projects[*task.ProjectID]
		if !ok || project.UserID != task.UserID {
			return apperrors.ErrInvalidProjectID
		}
	}
	r.s.tasks[task.ID] = cloneTask(task)
	r.s.taskOrder = append(r.s.taskOrder, task.ID)
	r.s.tasksByOwner[task.UserID] = append(r.s.tasksByOwner[task.UserID], task.ID)
	return nil
}

func (r *taskRepo) FindByID(_ context.Context, id string) (*model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task, ok := r.s.tasks[id]
	if !ok {
		return nil, apperrors.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

func (r *taskRepo) ListByOwner(_ context.Context, ownerID, search string) ([]model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tasks := make([]model.Task, 0)
	for _, id := range r.s.tasksByOwner[ownerID] {
		if t := r.s.tasks[id]; nameMatches(t.Name, search) {
			tasks = append(tasks, *cloneTask(t))
		}
	}
	return tasks, nil
}

func (r *taskRepo) Update(_ context.Context, task *model.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[task.ID]; !ok {
		return apperrors.ErrTaskNotFound
	}
	r.s.tasks[task.ID] = cloneTask(task)
	return nil
}

func (r *taskRepo) DeleteByOwner(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task, ok := r.s.tasks[id]
	if !ok || task.UserID != ownerID {
		return apperrors.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	r.s.taskOrder = removeString(r.s.taskOrder, id)
	r.s.tasksByOwner[ownerID] = removeString(r.s.tasksByOwner[ownerID], id)
	return nil
}
