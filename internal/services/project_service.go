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
	ErrProjectNotFound     = errors.New("project not found")
	ErrInvalidProjectTitle = errors.New("project title cannot be empty")
)

// ProjectService provides business logic for project operations. Every
// permission decision is delegated to the authz package.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

func (s *ProjectService) findProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, "Owner", "Members.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Title       string
	Description string
	Status      models.ProjectStatus
	Priority    models.Priority
	StartDate   *time.Time
	DueDate     *time.Time
	OwnerID     uint64
}

// CreateProject creates a new project owned by the caller. Ownership is
// immutable afterwards.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidProjectTitle
	}

	project := &models.Project{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		OwnerID:     input.OwnerID,
		Status:      input.Status,
		Priority:    input.Priority,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusPending
	}
	if project.Priority == "" {
		project.Priority = models.PriorityLow
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjectsForUser returns projects the user owns or is a member of.
func (s *ProjectService) ListProjectsForUser(userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project the caller can view.
func (s *ProjectService) GetProject(projectID, userID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if !authz.CanViewProject(project, userID) {
		return nil, ErrForbidden
	}

	return project, nil
}

// UpdateProjectInput represents mutable project fields.
type UpdateProjectInput struct {
	Title       string
	Description string
	Status      models.ProjectStatus
	Priority    models.Priority
	StartDate   *time.Time
	DueDate     *time.Time
}

// UpdateProject updates project fields; owner-only.
func (s *ProjectService) UpdateProject(projectID, userID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if !authz.CanManageProject(project, userID) {
		return nil, ErrForbidden
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidProjectTitle
	}

	project.Title = strings.TrimSpace(input.Title)
	project.Description = strings.TrimSpace(input.Description)
	if input.Status != "" {
		project.Status = input.Status
	}
	if input.Priority != "" {
		project.Priority = input.Priority
	}
	if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.DueDate != nil {
		project.DueDate = input.DueDate
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project with its tasks, comments, members, and
// invitations; owner-only.
func (s *ProjectService) DeleteProject(projectID, userID uint64) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}

	if !authz.CanManageProject(project, userID) {
		return ErrForbidden
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// ListMembers returns the project with its team; any member may look.
func (s *ProjectService) ListMembers(projectID, userID uint64) (*models.Project, []models.ProjectMember, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, nil, err
	}

	if !authz.CanViewProject(project, userID) {
		return nil, nil, ErrForbidden
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list members: %w", err)
	}

	return project, members, nil
}

// RemoveMember removes a team member; owner-only. The owner has no removal
// path. Assignments held by the removed member are left untouched.
func (s *ProjectService) RemoveMember(projectID, actorID, targetID uint64) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}

	if !authz.CanManageProject(project, actorID) {
		return ErrForbidden
	}

	if authz.IsOwner(project, targetID) {
		return ErrForbidden
	}

	if err := s.projectRepo.RemoveMember(projectID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}
