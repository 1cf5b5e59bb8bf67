package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskflow-app/taskflow-api/internal/authz"
	"github.com/taskflow-app/taskflow-api/internal/models"
	"github.com/taskflow-app/taskflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidTaskTitle = errors.New("task title cannot be empty")
)

// TaskService provides business logic for task operations.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Creator", "AssignedTo", "Project", "Project.Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// checkAssignee enforces that a non-null assignee is the project owner or a
// team member. A bad target is InvalidAssignment, not Forbidden: the acting
// principal is allowed to assign, the target is what's wrong.
func checkAssignee(project *models.Project, assignedToID *uint64) error {
	if assignedToID == nil {
		return nil
	}
	if !authz.IsMember(project, *assignedToID) {
		return ErrInvalidAssignment
	}
	return nil
}

// CreateTaskInput represents parameters to create a new task.
type CreateTaskInput struct {
	Title        string
	Description  string
	ProjectID    uint64
	AssignedToID *uint64
	Status       models.TaskStatus
	Priority     models.Priority
	DueDate      *time.Time
	CreatorID    uint64
}

// CreateTask creates a task in a project the caller belongs to. Assignment
// is optional; when present the assignee must belong to the project.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidTaskTitle
	}

	project, err := s.projectRepo.FindByID(input.ProjectID, "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if !authz.CanCreateTask(project, input.CreatorID) {
		return nil, ErrForbidden
	}

	if err := checkAssignee(project, input.AssignedToID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		ProjectID:    input.ProjectID,
		CreatorID:    input.CreatorID,
		AssignedToID: input.AssignedToID,
		Status:       input.Status,
		Priority:     input.Priority,
		DueDate:      input.DueDate,
	}
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityLow
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns a task from a project the caller belongs to.
func (s *TaskService) GetTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !authz.CanViewProject(&task.Project, userID) {
		return nil, ErrForbidden
	}

	return task, nil
}

// ListTasksInput holds list filters on top of the caller identity.
type ListTasksInput struct {
	UserID       uint64
	ProjectID    *uint64
	Status       *models.TaskStatus
	CreatorID    *uint64
	AssignedToID *uint64
	DueDateFrom  *time.Time
	DueDateTo    *time.Time
	SortByDue    bool
	Page         int
	PageSize     int
}

// ListTasks lists tasks across the caller's projects, or within one project
// the caller belongs to.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	var projectIDs []uint64

	if input.ProjectID != nil {
		project, err := s.projectRepo.FindByID(*input.ProjectID, "Members")
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrProjectNotFound
			}
			return nil, 0, fmt.Errorf("failed to find project: %w", err)
		}
		if !authz.CanViewProject(project, input.UserID) {
			return nil, 0, ErrForbidden
		}
		projectIDs = []uint64{project.ID}
	} else {
		projects, err := s.projectRepo.ListForUser(input.UserID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list projects: %w", err)
		}
		for _, p := range projects {
			projectIDs = append(projectIDs, p.ID)
		}
	}

	tasks, total, err := s.taskRepo.List(repository.TaskFilter{
		ProjectIDs:    projectIDs,
		Status:        input.Status,
		CreatorID:     input.CreatorID,
		AssignedToID:  input.AssignedToID,
		DueDateFrom:   input.DueDateFrom,
		DueDateTo:     input.DueDateTo,
		SortByDueDate: input.SortByDue,
		Page:          input.Page,
		PageSize:      input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// UpdateTaskInput represents mutable task fields. The owning project and the
// creator are immutable.
type UpdateTaskInput struct {
	Title         string
	Description   string
	AssignedToID  *uint64
	ClearAssignee bool
	Status        models.TaskStatus
	Priority      models.Priority
	DueDate       *time.Time
}

// UpdateTask updates a task. Deliberately broader than delete: the creator
// or any project member (the owner included) may update.
func (s *TaskService) UpdateTask(taskID, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !authz.CanUpdateTask(&task.Project, task, userID) {
		return nil, ErrForbidden
	}

	if input.Title != "" {
		task.Title = strings.TrimSpace(input.Title)
	}
	if input.Description != "" {
		task.Description = strings.TrimSpace(input.Description)
	}
	if input.Status != "" {
		task.Status = input.Status
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearAssignee {
		task.AssignedToID = nil
		task.AssignedTo = nil
	} else if input.AssignedToID != nil {
		if err := checkAssignee(&task.Project, input.AssignedToID); err != nil {
			return nil, err
		}
		task.AssignedToID = input.AssignedToID
		task.AssignedTo = nil
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.findTask(taskID)
}

// DeleteTask deletes a task; stricter than update, only the creator or the
// project owner may delete.
func (s *TaskService) DeleteTask(taskID, userID uint64) error {
	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	if !authz.CanDeleteTask(&task.Project, task, userID) {
		return ErrForbidden
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
