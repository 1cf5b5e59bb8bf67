package dto

import (
	"time"

	"github.com/taskflow-app/taskflow-api/internal/models"
)

// ProjectMemberDTO represents a team member in API responses
type ProjectMemberDTO struct {
	User     UserDTO   `json:"user"`
	JoinedAt time.Time `json:"joined_at"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	Priority    models.Priority      `json:"priority"`
	StartDate   *time.Time           `json:"start_date"`
	DueDate     *time.Time           `json:"due_date"`
	OwnerID     uint64               `json:"owner_id"`
	Owner       *UserDTO             `json:"owner,omitempty"`
	Members     []ProjectMemberDTO   `json:"members,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// ToProjectMemberDTO converts a member to DTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	return ProjectMemberDTO{
		User:     ToUserDTO(member.User),
		JoinedAt: member.JoinedAt,
	}
}

// ToProjectDTO converts a project to DTO. Owner and member details are
// included only when they were preloaded.
func ToProjectDTO(project models.Project) ProjectDTO {
	p := ProjectDTO{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Status:      project.Status,
		Priority:    project.Priority,
		StartDate:   project.StartDate,
		DueDate:     project.DueDate,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	if project.Owner.ID != 0 {
		owner := ToUserDTO(project.Owner)
		p.Owner = &owner
	}

	if len(project.Members) > 0 {
		p.Members = make([]ProjectMemberDTO, len(project.Members))
		for i, m := range project.Members {
			p.Members[i] = ToProjectMemberDTO(m)
		}
	}

	return p
}
