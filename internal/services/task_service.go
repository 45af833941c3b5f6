package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/staff-management-api/internal/constants"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskPermissionDenied   = errors.New("user does not have permission to modify this task")
	ErrStatusOnlyUpdate       = errors.New("assignees can only change the task status")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrInvalidTaskStatus      = errors.New("invalid task status")
	ErrInvalidTaskPriority    = errors.New("invalid task priority")
	ErrInvalidTaskAssignee    = errors.New("assigned user does not exist")
	ErrTaskTextRequired       = errors.New("text is required")
	ErrTaskTextTooLong        = errors.New("text is too long")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	notifier *Notifier
	drafter  TaskDrafter
	now      func() time.Time
}

// NewTaskService creates a new TaskService. drafter may be nil.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, notifier *Notifier, drafter TaskDrafter) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		notifier: notifier,
		drafter:  drafter,
		now:      time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description *string
	Priority    models.TaskPriority
	Status      models.TaskStatus
	AssignedTo  *uint64
	DueDate     *time.Time
	CreatorID   uint64
}

// UpdateTaskInput represents input for updating a task. Nil fields are left as is;
// AssigneeSet and DueDateSet allow clearing with a nil value.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *models.TaskPriority
	Status      *models.TaskStatus
	AssigneeSet bool
	AssignedTo  *uint64
	DueDateSet  bool
	DueDate     *time.Time
}

func (in UpdateTaskInput) onlyStatus() bool {
	return in.Title == nil && in.Description == nil && in.Priority == nil && !in.AssigneeSet && !in.DueDateSet
}

// CanAccess reports whether user may read and update task.
func CanAccess(user *models.User, task *models.Task) bool {
	if user.IsAdmin {
		return true
	}
	return task.AssignedTo != nil && *task.AssignedTo == user.ID
}

// ListTasks returns every task for admins and the assigned tasks for everyone else.
func (s *TaskService) ListTasks(actor *models.User, status *models.TaskStatus) ([]models.Task, error) {
	filter := repository.TaskFilter{Status: status}
	if !actor.IsAdmin {
		filter.AssignedTo = &actor.ID
	}
	return s.list(filter)
}

// ListMyTasks returns the tasks assigned to userID.
func (s *TaskService) ListMyTasks(userID uint64, status *models.TaskStatus) ([]models.Task, error) {
	return s.list(repository.TaskFilter{AssignedTo: &userID, Status: status})
}

func (s *TaskService) list(filter repository.TaskFilter) ([]models.Task, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task with its assignee and creator
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task and notifies the assignee
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}
	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	assignee, err := s.resolveAssignee(input.AssignedTo)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      input.Status,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   input.CreatorID,
		DueDate:     input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created, err := s.GetTask(task.ID)
	if err != nil {
		return nil, err
	}
	s.notifier.TaskAssigned(created, assignee)
	return created, nil
}

// UpdateTask applies input on behalf of actor. Admins may change any field;
// the assignee may only change the status.
func (s *TaskService) UpdateTask(actor *models.User, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if !CanAccess(actor, task) {
		return nil, ErrTaskPermissionDenied
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	if !actor.IsAdmin {
		if !input.onlyStatus() {
			return nil, ErrStatusOnlyUpdate
		}
		if input.Status == nil {
			return task, nil
		}
		if err := s.taskRepo.UpdateStatus(task.ID, *input.Status); err != nil {
			return nil, fmt.Errorf("failed to update task status: %w", err)
		}
		return s.GetTask(task.ID)
	}

	previousAssignee := task.AssignedTo
	var assignee *models.User

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidTaskPriority
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.AssigneeSet {
		if assignee, err = s.resolveAssignee(input.AssignedTo); err != nil {
			return nil, err
		}
		task.AssignedTo = input.AssignedTo
	}
	if input.DueDateSet {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	updated, err := s.GetTask(task.ID)
	if err != nil {
		return nil, err
	}
	if assignee != nil && !sameUserID(previousAssignee, updated.AssignedTo) {
		s.notifier.TaskAssigned(updated, assignee)
	}
	return updated, nil
}

// GenerateTasks uses AI to draft tasks from text. Nothing is persisted.
func (s *TaskService) GenerateTasks(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTaskTextRequired
	}
	if len(text) > constants.MaxAIInputLength {
		return nil, ErrTaskTextTooLong
	}

	now := s.now()
	aiTasks, err := s.drafter.DraftTasks(ctx, text, now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxAIGeneratedTasks]
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := now.Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" {
			continue
		}
		if !models.TaskPriority(aiTask.Priority).Valid() {
			aiTask.Priority = string(models.TaskPriorityMedium)
		}
		if aiTask.DueDate != nil && aiTask.DueDate.Before(cutoff) {
			aiTask.DueDate = nil
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func (s *TaskService) resolveAssignee(userID *uint64) (*models.User, error) {
	if userID == nil {
		return nil, nil
	}
	user, err := s.userRepo.FindByID(*userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidTaskAssignee
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}
	return user, nil
}

func sameUserID(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
