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
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyComment    = errors.New("comment content cannot be empty")
)

// CommentService provides business logic for task comments.
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
	}
}

func (s *CommentService) findTaskWithProject(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Project", "Project.Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *CommentService) findComment(commentID uint64) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(commentID, "Author", "Task", "Task.Project", "Task.Project.Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return comment, nil
}

// AddComment creates a comment on a task in a project the caller belongs to.
func (s *CommentService) AddComment(taskID, authorID uint64, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	task, err := s.findTaskWithProject(taskID)
	if err != nil {
		return nil, err
	}

	if !authz.CanComment(&task.Project, authorID) {
		return nil, ErrForbidden
	}

	comment := &models.Comment{
		TaskID:   taskID,
		AuthorID: authorID,
		Content:  content,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// ListComments lists a task's comments for any project member.
func (s *CommentService) ListComments(taskID, userID uint64) ([]models.Comment, error) {
	task, err := s.findTaskWithProject(taskID)
	if err != nil {
		return nil, err
	}

	if !authz.CanViewProject(&task.Project, userID) {
		return nil, ErrForbidden
	}

	comments, err := s.commentRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// GetComment returns a single comment for any project member.
func (s *CommentService) GetComment(commentID, userID uint64) (*models.Comment, error) {
	comment, err := s.findComment(commentID)
	if err != nil {
		return nil, err
	}

	if !authz.CanViewProject(&comment.Task.Project, userID) {
		return nil, ErrForbidden
	}

	return comment, nil
}

// UpdateComment edits a comment; author-only, the project owner has no
// override. Sets the edited flag and timestamp.
func (s *CommentService) UpdateComment(commentID, userID uint64, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	comment, err := s.findComment(commentID)
	if err != nil {
		return nil, err
	}

	if !authz.CanEditComment(comment, userID) {
		return nil, ErrForbidden
	}

	now := time.Now()
	comment.Content = content
	comment.IsEdited = true
	comment.EditedAt = &now

	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

// DeleteComment removes a comment; author-only.
func (s *CommentService) DeleteComment(commentID, userID uint64) error {
	comment, err := s.findComment(commentID)
	if err != nil {
		return err
	}

	if !authz.CanEditComment(comment, userID) {
		return ErrForbidden
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}
