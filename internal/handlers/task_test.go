package handlers

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/staff-management-api/internal/constants"
	"github.com/yukikurage/staff-management-api/internal/dto"
	apierrors "github.com/yukikurage/staff-management-api/internal/errors"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/repository"
	"github.com/yukikurage/staff-management-api/internal/services"
)

type fakeDrafter struct {
	tasks []services.GeneratedTask
	err   error
}

func (f *fakeDrafter) DraftTasks(_ context.Context, _ string, _ time.Time) ([]services.GeneratedTask, error) {
	return f.tasks, f.err
}

type draftsResponse struct {
	Tasks []dto.TaskDraftDTO `json:"tasks"`
}

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	env      *testEnv
	drafter  *fakeDrafter
	service  *services.TaskService
	handler  *TaskHandler
	admin    *models.User
	assignee *models.User
	other    *models.User
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	t := suite.T()
	suite.env = newTestEnv(t)
	suite.drafter = &fakeDrafter{}
	suite.service = services.NewTaskService(repository.NewTaskRepository(suite.env.db), suite.env.users, suite.env.notifier, suite.drafter)
	suite.handler = NewTaskHandler(suite.service)

	suite.admin = suite.env.createUser(t, "admin", true)
	suite.assignee = suite.env.createUser(t, "assignee", false)
	suite.other = suite.env.createUser(t, "other", false)
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, assignee *models.User) *models.Task {
	input := services.CreateTaskInput{Title: title, CreatorID: suite.admin.ID}
	if assignee != nil {
		input.AssignedTo = &assignee.ID
	}
	task, err := suite.service.CreateTask(input)
	suite.Require().NoError(err)
	return task
}

// setTaskContext simulates RequireTaskAccess
func (suite *TaskHandlerTestSuite) setTaskContext(c *gin.Context, task *models.Task) {
	c.Set(constants.ContextKeyTask, task)
	setParam(c, "id", strconv.FormatUint(task.ID, 10))
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	due := time.Date(2030, 1, 2, 15, 0, 0, 0, time.UTC)
	c, w := newContext(suite.T(), http.MethodPost, "/api/tasks", map[string]any{
		"title":       "Restock napkins",
		"description": "Back shelf",
		"priority":    "high",
		"assignedTo":  suite.assignee.ID,
		"dueDate":     due,
	}, suite.admin)

	suite.handler.CreateTask(c)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	resp := decode[dto.TaskWithRelationsDTO](suite.T(), w)
	assert.Equal(suite.T(), "Restock napkins", resp.Title)
	assert.Equal(suite.T(), models.TaskPriorityHigh, resp.Priority)
	assert.Equal(suite.T(), models.TaskStatusPending, resp.Status)
	assert.Equal(suite.T(), suite.admin.ID, resp.CreatedBy)
	suite.Require().NotNil(resp.Assignee)
	assert.Equal(suite.T(), "assignee", resp.Assignee.Username)
	suite.Require().NotNil(resp.DueDate)
	assert.True(suite.T(), due.Equal(*resp.DueDate))

	sent := suite.env.mail.Sent()
	suite.Require().Len(sent, 1)
	assert.Equal(suite.T(), []string{"assignee@example.com"}, sent[0].To)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidRequest() {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"description": "x"}},
		{"blank title", map[string]any{"title": "   "}},
		{"bad priority", map[string]any{"title": "x", "priority": "urgent"}},
		{"unknown assignee", map[string]any{"title": "x", "assignedTo": 9999}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			c, w := newContext(suite.T(), http.MethodPost, "/api/tasks", tt.body, suite.admin)
			suite.handler.CreateTask(c)
			assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
		})
	}
}

func (suite *TaskHandlerTestSuite) TestListTasks() {
	suite.createTestTask("Mine", suite.assignee)
	suite.createTestTask("Theirs", suite.other)
	suite.createTestTask("Nobody's", nil)

	c, w := newContext(suite.T(), http.MethodGet, "/api/tasks", nil, suite.admin)
	suite.handler.ListTasks(c)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Len(suite.T(), decode[[]dto.TaskWithRelationsDTO](suite.T(), w), 3)

	c, w = newContext(suite.T(), http.MethodGet, "/api/tasks", nil, suite.assignee)
	suite.handler.ListTasks(c)
	suite.Require().Equal(http.StatusOK, w.Code)
	tasks := decode[[]dto.TaskWithRelationsDTO](suite.T(), w)
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), "Mine", tasks[0].Title)

	c, w = newContext(suite.T(), http.MethodGet, "/api/tasks/my", nil, suite.admin)
	suite.handler.ListMyTasks(c)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Empty(suite.T(), decode[[]dto.TaskWithRelationsDTO](suite.T(), w))

	c, w = newContext(suite.T(), http.MethodGet, "/api/tasks?status=done", nil, suite.admin)
	suite.handler.ListTasks(c)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask() {
	task := suite.createTestTask("Mine", suite.assignee)

	c, w := newContext(suite.T(), http.MethodGet, "/", nil, suite.assignee)
	suite.setTaskContext(c, task)
	suite.handler.GetTask(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	resp := decode[dto.TaskWithRelationsDTO](suite.T(), w)
	assert.Equal(suite.T(), task.ID, resp.ID)
	suite.Require().NotNil(resp.Creator)
	assert.Equal(suite.T(), "admin", resp.Creator.Username)
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotFoundInContext() {
	c, w := newContext(suite.T(), http.MethodGet, "/", nil, suite.assignee)
	suite.handler.GetTask(c)
	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_AssigneeStatusOnly() {
	task := suite.createTestTask("Mine", suite.assignee)

	c, w := newContext(suite.T(), http.MethodPatch, "/", map[string]any{"status": "in_progress"}, suite.assignee)
	suite.setTaskContext(c, task)
	suite.handler.UpdateTask(c)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	assert.Equal(suite.T(), models.TaskStatusInProgress, decode[dto.TaskWithRelationsDTO](suite.T(), w).Status)

	c, w = newContext(suite.T(), http.MethodPatch, "/", map[string]any{"title": "Renamed", "status": "completed"}, suite.assignee)
	suite.setTaskContext(c, task)
	suite.handler.UpdateTask(c)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	c, w = newContext(suite.T(), http.MethodPatch, "/", map[string]any{"status": "archived"}, suite.assignee)
	suite.setTaskContext(c, task)
	suite.handler.UpdateTask(c)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	c, w = newContext(suite.T(), http.MethodPatch, "/", map[string]any{"status": "completed"}, suite.other)
	suite.setTaskContext(c, task)
	suite.handler.UpdateTask(c)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_AdminReassignAndClear() {
	due := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)
	task := suite.createTestTask("Mine", suite.assignee)
	mailsBefore := len(suite.env.mail.Sent())

	c, w := newContext(suite.T(), http.MethodPatch, "/", map[string]any{
		"title":      "Reassigned",
		"assignedTo": suite.other.ID,
		"dueDate":    due,
	}, suite.admin)
	suite.setTaskContext(c, task)
	suite.handler.UpdateTask(c)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	resp := decode[dto.TaskWithRelationsDTO](suite.T(), w)
	assert.Equal(suite.T(), "Reassigned", resp.Title)
	suite.Require().NotNil(resp.AssignedTo)
	assert.Equal(suite.T(), suite.other.ID, *resp.AssignedTo)

	sent := suite.env.mail.Sent()
	suite.Require().Len(sent, mailsBefore+1)
	assert.Equal(suite.T(), []string{"other@example.com"}, sent[len(sent)-1].To)

	// Explicit nulls clear; absent fields stay.
	c, w = newContext(suite.T(), http.MethodPatch, "/", map[string]any{
		"assignedTo": nil,
		"dueDate":    nil,
	}, suite.admin)
	suite.setTaskContext(c, task)
	suite.handler.UpdateTask(c)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	resp = decode[dto.TaskWithRelationsDTO](suite.T(), w)
	assert.Nil(suite.T(), resp.AssignedTo)
	assert.Nil(suite.T(), resp.Assignee)
	assert.Nil(suite.T(), resp.DueDate)
	assert.Equal(suite.T(), "Reassigned", resp.Title)
}

func (suite *TaskHandlerTestSuite) TestGenerateTasks() {
	suite.drafter.tasks = []services.GeneratedTask{
		{Title: "Order flour", Priority: "high"},
		{Title: "  ", Priority: "low"},
		{Title: "Call supplier", Priority: "whenever"},
	}

	c, w := newContext(suite.T(), http.MethodPost, "/api/tasks/generate", map[string]string{"text": "we are out of flour"}, suite.admin)
	suite.handler.GenerateTasks(c)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	resp := decode[draftsResponse](suite.T(), w)
	suite.Require().Len(resp.Tasks, 2)
	assert.Equal(suite.T(), "Order flour", resp.Tasks[0].Title)
	assert.Equal(suite.T(), "medium", resp.Tasks[1].Priority)

	var count int64
	suite.Require().NoError(suite.env.db.Model(&models.Task{}).Count(&count).Error)
	assert.Zero(suite.T(), count, "drafts are not persisted")
}

func (suite *TaskHandlerTestSuite) TestGenerateTasks_NotConfigured() {
	handler := NewTaskHandler(services.NewTaskService(repository.NewTaskRepository(suite.env.db), suite.env.users, suite.env.notifier, nil))

	c, w := newContext(suite.T(), http.MethodPost, "/api/tasks/generate", map[string]string{"text": "anything"}, suite.admin)
	handler.GenerateTasks(c)
	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
	assert.Equal(suite.T(), apierrors.ErrCodeServiceUnavailable, errorCode(suite.T(), w))
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
