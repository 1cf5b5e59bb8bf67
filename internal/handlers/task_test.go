package handlers

import (
	"encoding/json"
	"fmt"
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

type taskTestEnv struct {
	db             *gorm.DB
	handler        *TaskHandler
	taskService    *services.TaskService
	projectRepo    repository.ProjectRepository
	projectService *services.ProjectService
}

func setupTaskTestEnv(t *testing.T) taskTestEnv {
	t.Helper()

	db := openTestDB(t)

	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo)
	handler := NewTaskHandler(taskService)

	return taskTestEnv{
		db:             db,
		handler:        handler,
		taskService:    taskService,
		projectRepo:    projectRepo,
		projectService: projectService,
	}
}

// taskTestFixture seeds an owner, a member, an outsider, and one project.
type taskTestFixture struct {
	owner    *models.User
	member   *models.User
	outsider *models.User
	project  *models.Project
}

func (env taskTestEnv) fixture(t *testing.T) taskTestFixture {
	t.Helper()

	owner := seedVerifiedUser(t, env.db, "owner")
	member := seedVerifiedUser(t, env.db, "member")
	outsider := seedVerifiedUser(t, env.db, "outsider")

	project, err := env.projectService.CreateProject(services.CreateProjectInput{
		Title:   "Sprint",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)
	require.NoError(t, env.projectRepo.AddMember(project, member.ID, time.Now()))

	return taskTestFixture{owner: owner, member: member, outsider: outsider, project: project}
}

func TestTaskHandler_CreateTaskWithoutAssignee(t *testing.T) {
	env := setupTaskTestEnv(t)
	f := env.fixture(t)

	body, err := json.Marshal(map[string]interface{}{
		"title":      "Unassigned work",
		"project_id": f.project.ID,
	})
	require.NoError(t, err)

	c, w := handlerTestContext(http.MethodPost, "/api/tasks", body, f.member.ID)
	env.handler.CreateTask(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.TaskStatusTodo, response.Status)
	require.Nil(t, response.AssignedTo, "assignment is optional")
}

func TestTaskHandler_CreateTaskAssigneeMustBelong(t *testing.T) {
	env := setupTaskTestEnv(t)
	f := env.fixture(t)

	body, err := json.Marshal(map[string]interface{}{
		"title":          "Misassigned",
		"project_id":     f.project.ID,
		"assigned_to_id": f.outsider.ID,
	})
	require.NoError(t, err)

	c, w := handlerTestContext(http.MethodPost, "/api/tasks", body, f.owner.ID)
	env.handler.CreateTask(c)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	require.Equal(t, "INVALID_ASSIGNMENT", apiErr.Code)

	// Assigning the owner is fine; the owner belongs without a member row.
	body, err = json.Marshal(map[string]interface{}{
		"title":          "Owner's task",
		"project_id":     f.project.ID,
		"assigned_to_id": f.owner.ID,
	})
	require.NoError(t, err)

	c, w = handlerTestContext(http.MethodPost, "/api/tasks", body, f.member.ID)
	env.handler.CreateTask(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestTaskHandler_CreateTaskOutsiderForbidden(t *testing.T) {
	env := setupTaskTestEnv(t)
	f := env.fixture(t)

	body, err := json.Marshal(map[string]interface{}{
		"title":      "Sneaky",
		"project_id": f.project.ID,
	})
	require.NoError(t, err)

	c, w := handlerTestContext(http.MethodPost, "/api/tasks", body, f.outsider.ID)
	env.handler.CreateTask(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTaskHandler_UpdateBroaderThanDelete(t *testing.T) {
	env := setupTaskTestEnv(t)
	f := env.fixture(t)

	second := seedVerifiedUser(t, env.db, "second-member")
	require.NoError(t, env.projectRepo.AddMember(f.project, second.ID, time.Now()))

	task, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:     "Contested",
		ProjectID: f.project.ID,
		CreatorID: f.member.ID,
	})
	require.NoError(t, err)

	// A non-creator member may update...
	body, err := json.Marshal(map[string]string{"status": "in-progress"})
	require.NoError(t, err)

	c, w := handlerTestContext(http.MethodPatch, "/api/tasks/1", body, second.ID)
	idParam(c, "id", task.ID)
	env.handler.UpdateTask(c)
	require.Equal(t, http.StatusOK, w.Code)

	// ...but not delete.
	c, w = handlerTestContext(http.MethodDelete, "/api/tasks/1", nil, second.ID)
	idParam(c, "id", task.ID)
	env.handler.DeleteTask(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	// The creator may delete their own task.
	c, w = handlerTestContext(http.MethodDelete, "/api/tasks/1", nil, f.member.ID)
	idParam(c, "id", task.ID)
	env.handler.DeleteTask(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTaskHandler_UpdateTaskReassignAndClear(t *testing.T) {
	env := setupTaskTestEnv(t)
	f := env.fixture(t)

	task, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:        "Handoff",
		ProjectID:    f.project.ID,
		CreatorID:    f.owner.ID,
		AssignedToID: &f.member.ID,
	})
	require.NoError(t, err)

	// Reassignment to a non-member fails with the same distinct error.
	body, err := json.Marshal(map[string]interface{}{"assigned_to_id": f.outsider.ID})
	require.NoError(t, err)

	c, w := handlerTestContext(http.MethodPatch, "/api/tasks/1", body, f.owner.ID)
	idParam(c, "id", task.ID)
	env.handler.UpdateTask(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Clearing the assignee is always allowed.
	body, err = json.Marshal(map[string]interface{}{"clear_assignee": true})
	require.NoError(t, err)

	c, w = handlerTestContext(http.MethodPatch, "/api/tasks/1", body, f.owner.ID)
	idParam(c, "id", task.ID)
	env.handler.UpdateTask(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Nil(t, response.AssignedTo)
}

func TestTaskHandler_RemovedMemberKeepsAssignment(t *testing.T) {
	env := setupTaskTestEnv(t)
	f := env.fixture(t)

	task, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:        "Left behind",
		ProjectID:    f.project.ID,
		CreatorID:    f.owner.ID,
		AssignedToID: &f.member.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.projectService.RemoveMember(f.project.ID, f.owner.ID, f.member.ID))

	// Removal does not cascade into existing assignments.
	var stored models.Task
	require.NoError(t, env.db.First(&stored, task.ID).Error)
	require.NotNil(t, stored.AssignedToID)
	require.Equal(t, f.member.ID, *stored.AssignedToID)
}

func TestTaskHandler_ListTasksFilters(t *testing.T) {
	env := setupTaskTestEnv(t)
	f := env.fixture(t)

	due := time.Now().Add(48 * time.Hour)
	for _, in := range []services.CreateTaskInput{
		{Title: "Todo one", ProjectID: f.project.ID, CreatorID: f.owner.ID},
		{Title: "Doing", ProjectID: f.project.ID, CreatorID: f.owner.ID, Status: models.TaskStatusInProgress},
		{Title: "Due soon", ProjectID: f.project.ID, CreatorID: f.member.ID, DueDate: &due},
	} {
		_, err := env.taskService.CreateTask(in)
		require.NoError(t, err)
	}

	c, w := handlerTestContext(http.MethodGet, "/api/tasks?status=in-progress", nil, f.member.ID)
	env.handler.ListTasks(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TaskListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Tasks, 1)
	require.Equal(t, "Doing", response.Tasks[0].Title)

	// Filtering by creator recovers a member's own tasks.
	c, w = handlerTestContext(http.MethodGet, fmt.Sprintf("/api/tasks?created_by=%d", f.member.ID), nil, f.member.ID)
	env.handler.ListTasks(c)
	require.Equal(t, http.StatusOK, w.Code)

	response = dto.TaskListResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Tasks, 1)
	require.Equal(t, "Due soon", response.Tasks[0].Title)

	// An outsider scoping to the project is rejected outright.
	c, w = handlerTestContext(http.MethodGet, "/api/tasks?project_id=1", nil, f.outsider.ID)
	env.handler.ListTasks(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}
