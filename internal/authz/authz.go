// Package authz is the single place ownership and membership are decided.
// Every resource service delegates here instead of comparing IDs inline.
// All predicates are pure; callers load the project with Members preloaded.
package authz

import "github.com/taskflow-app/taskflow-api/internal/models"

// IsOwner reports whether userID owns the project.
func IsOwner(project *models.Project, userID uint64) bool {
	return project.OwnerID == userID
}

// IsMember reports whether userID is the owner or on the project team.
func IsMember(project *models.Project, userID uint64) bool {
	if IsOwner(project, userID) {
		return true
	}
	for _, m := range project.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// CanViewProject: project reads are member-or-owner.
func CanViewProject(project *models.Project, userID uint64) bool {
	return IsMember(project, userID)
}

// CanManageProject gates the owner-only tier: project update/delete,
// invitation issuance and listing, member removal.
func CanManageProject(project *models.Project, userID uint64) bool {
	return IsOwner(project, userID)
}

// CanCreateTask: any member or the owner may create tasks in the project.
func CanCreateTask(project *models.Project, userID uint64) bool {
	return IsMember(project, userID)
}

// CanUpdateTask is deliberately broader than CanDeleteTask: the creator or
// any member (the owner included) may update.
func CanUpdateTask(project *models.Project, task *models.Task, userID uint64) bool {
	return task.CreatorID == userID || IsMember(project, userID)
}

// CanDeleteTask: only the task creator or the project owner.
func CanDeleteTask(project *models.Project, task *models.Task, userID uint64) bool {
	return task.CreatorID == userID || IsOwner(project, userID)
}

// CanComment: commenting requires read access to the task's project.
func CanComment(project *models.Project, userID uint64) bool {
	return IsMember(project, userID)
}

// CanEditComment: exact author match, no owner override.
func CanEditComment(comment *models.Comment, userID uint64) bool {
	return comment.AuthorID == userID
}
