package repository

import (
	"time"

	"github.com/taskflow-app/taskflow-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete soft deletes a user
	Delete(id uint64) error

	// SearchVerified finds verified users matching the query by username or
	// email, excluding the given user
	SearchVerified(query string, excludeID uint64, limit int) ([]models.User, error)
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListForUser retrieves projects the user owns or is a member of
	ListForUser(userID uint64) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and all related data
	Delete(id uint64) error

	// AddMember adds a user to the project team. Adding an existing member
	// or the owner is a no-op.
	AddMember(project *models.Project, userID uint64, now time.Time) error

	// RemoveMember removes a user from the project team. Removing a
	// non-member is a no-op.
	RemoveMember(projectID, userID uint64) error

	// ListMembers lists all team members of a project
	ListMembers(projectID uint64) ([]models.ProjectMember, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectIDs    []uint64
	Status        *models.TaskStatus
	CreatorID     *uint64
	AssignedToID  *uint64
	DueDateFrom   *time.Time
	DueDateTo     *time.Time
	SortByDueDate bool
	Page          int
	PageSize      int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task and its comments
	Delete(id uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Comment, error)

	// ListByTask lists all comments of a task, oldest first
	ListByTask(taskID uint64) ([]models.Comment, error)

	// Update updates a comment
	Update(comment *models.Comment) error

	// Delete soft deletes a comment
	Delete(id uint64) error
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create persists a new pending invitation
	Create(invitation *models.Invitation) error

	// FindByToken finds an invitation by its token
	FindByToken(token string) (*models.Invitation, error)

	// ListByProject lists a project's invitations, newest first
	ListByProject(projectID uint64) ([]models.Invitation, error)

	// Accept atomically consumes a pending, unexpired invitation and adds the
	// user to the project team. The status flip is a single conditional
	// update, so at most one of two concurrent accepts succeeds; the loser
	// gets gorm.ErrRecordNotFound.
	Accept(token string, userID uint64, now time.Time) (*models.Invitation, error)

	// Decline atomically consumes a pending, unexpired invitation without
	// touching the membership set
	Decline(token string, now time.Time) (*models.Invitation, error)
}
