package dto

import (
	"time"

	"github.com/taskflow-app/taskflow-api/internal/models"
)

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        uint64     `json:"id"`
	TaskID    uint64     `json:"task_id"`
	AuthorID  uint64     `json:"author_id"`
	Author    *UserDTO   `json:"author,omitempty"`
	Content   string     `json:"content"`
	IsEdited  bool       `json:"is_edited"`
	EditedAt  *time.Time `json:"edited_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToCommentDTO converts a comment to DTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	d := CommentDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		IsEdited:  comment.IsEdited,
		EditedAt:  comment.EditedAt,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}

	if comment.Author.ID != 0 {
		author := ToUserDTO(comment.Author)
		d.Author = &author
	}

	return d
}

// ToCommentDTOs converts a slice of comments to DTOs
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		dtos[i] = ToCommentDTO(comment)
	}
	return dtos
}
