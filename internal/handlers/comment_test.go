package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taskflow-app/taskflow-api/internal/dto"
	"github.com/taskflow-app/taskflow-api/internal/models"
	"github.com/taskflow-app/taskflow-api/internal/repository"
	"github.com/taskflow-app/taskflow-api/internal/services"
	"gorm.io/gorm"
)

type commentTestEnv struct {
	db             *gorm.DB
	handler        *CommentHandler
	commentService *services.CommentService
}

type commentTestFixture struct {
	owner    *models.User
	member   *models.User
	outsider *models.User
	task     *models.Task
}

func setupCommentTestEnv(t *testing.T) (commentTestEnv, commentTestFixture) {
	t.Helper()

	db := openTestDB(t)

	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	commentService := services.NewCommentService(commentRepo, taskRepo)
	handler := NewCommentHandler(commentService)

	owner := seedVerifiedUser(t, db, "owner")
	member := seedVerifiedUser(t, db, "member")
	outsider := seedVerifiedUser(t, db, "outsider")

	projectService := services.NewProjectService(projectRepo)
	project, err := projectService.CreateProject(services.CreateProjectInput{
		Title:   "Discussion",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)
	require.NoError(t, projectRepo.AddMember(project, member.ID, time.Now()))

	taskService := services.NewTaskService(taskRepo, projectRepo)
	task, err := taskService.CreateTask(services.CreateTaskInput{
		Title:     "Talk about this",
		ProjectID: project.ID,
		CreatorID: owner.ID,
	})
	require.NoError(t, err)

	env := commentTestEnv{db: db, handler: handler, commentService: commentService}
	return env, commentTestFixture{owner: owner, member: member, outsider: outsider, task: task}
}

func TestCommentHandler_AddComment(t *testing.T) {
	env, f := setupCommentTestEnv(t)

	body, err := json.Marshal(map[string]interface{}{
		"task_id": f.task.ID,
		"content": "Looks good to me",
	})
	require.NoError(t, err)

	c, w := handlerTestContext(http.MethodPost, "/api/comments", body, f.member.ID)
	env.handler.AddComment(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.CommentDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Looks good to me", response.Content)
	require.False(t, response.IsEdited)

	// Outsiders cannot comment.
	c, w = handlerTestContext(http.MethodPost, "/api/comments", body, f.outsider.ID)
	env.handler.AddComment(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCommentHandler_UpdateCommentAuthorOnly(t *testing.T) {
	env, f := setupCommentTestEnv(t)

	comment, err := env.commentService.AddComment(f.task.ID, f.member.ID, "first draft")
	require.NoError(t, err)

	body, err := json.Marshal(map[string]string{"content": "second draft"})
	require.NoError(t, err)

	// Even the project owner cannot edit someone else's comment.
	c, w := handlerTestContext(http.MethodPut, "/api/comments/1", body, f.owner.ID)
	idParam(c, "id", comment.ID)
	env.handler.UpdateComment(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	c, w = handlerTestContext(http.MethodPut, "/api/comments/1", body, f.member.ID)
	idParam(c, "id", comment.ID)
	env.handler.UpdateComment(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.CommentDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "second draft", response.Content)
	require.True(t, response.IsEdited)
	require.NotNil(t, response.EditedAt)
}

func TestCommentHandler_DeleteCommentAuthorOnly(t *testing.T) {
	env, f := setupCommentTestEnv(t)

	comment, err := env.commentService.AddComment(f.task.ID, f.member.ID, "delete me")
	require.NoError(t, err)

	c, w := handlerTestContext(http.MethodDelete, "/api/comments/1", nil, f.owner.ID)
	idParam(c, "id", comment.ID)
	env.handler.DeleteComment(c)
	require.Equal(t, http.StatusForbidden, w.Code, "the project owner has no override")

	c, w = handlerTestContext(http.MethodDelete, "/api/comments/1", nil, f.member.ID)
	idParam(c, "id", comment.ID)
	env.handler.DeleteComment(c)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Comment{}).Where("task_id = ?", f.task.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestCommentHandler_ListTaskComments(t *testing.T) {
	env, f := setupCommentTestEnv(t)

	_, err := env.commentService.AddComment(f.task.ID, f.member.ID, "one")
	require.NoError(t, err)
	_, err = env.commentService.AddComment(f.task.ID, f.owner.ID, "two")
	require.NoError(t, err)

	c, w := handlerTestContext(http.MethodGet, "/api/comments/task/1", nil, f.member.ID)
	idParam(c, "taskId", f.task.ID)
	env.handler.ListTaskComments(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Comments []dto.CommentDTO `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Comments, 2)
	require.Equal(t, "one", response.Comments[0].Content, "comments are listed oldest first")

	c, w = handlerTestContext(http.MethodGet, "/api/comments/task/1", nil, f.outsider.ID)
	idParam(c, "taskId", f.task.ID)
	env.handler.ListTaskComments(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}
