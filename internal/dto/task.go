package dto

import (
	"time"

	"github.com/yukikurage/staff-management-api/internal/models"
)

// TaskWithRelationsDTO represents a task joined with its assignee and creator
type TaskWithRelationsDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	AssignedTo  *uint64             `json:"assignedTo"`
	CreatedBy   uint64              `json:"createdBy"`
	DueDate     *time.Time          `json:"dueDate"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	Assignee    *UserSummaryDTO     `json:"assignee"`
	Creator     *UserSummaryDTO     `json:"creator"`
}

// ToTaskWithRelationsDTO converts a Task model
func ToTaskWithRelationsDTO(task models.Task) TaskWithRelationsDTO {
	return TaskWithRelationsDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		AssignedTo:  task.AssignedTo,
		CreatedBy:   task.CreatedBy,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Assignee:    userSummaryOrNil(task.Assignee),
		Creator:     userSummaryOrNil(&task.Creator),
	}
}

// ToTaskWithRelationsDTOs converts a slice of tasks
func ToTaskWithRelationsDTOs(tasks []models.Task) []TaskWithRelationsDTO {
	items := make([]TaskWithRelationsDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskWithRelationsDTO(task)
	}
	return items
}

// TaskDraftDTO is a generated, not yet persisted task
type TaskDraftDTO struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}
