package dto

import (
	"time"

	"github.com/yukikurage/agency-project-tracker/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// AssigneeDTO represents a developer together with their workload
type AssigneeDTO struct {
	UserDTO
	AssignedProjects int `json:"assigned_projects"`
}

// AssigneeListResponse represents the list of developers
type AssigneeListResponse struct {
	Assignees []AssigneeDTO `json:"assignees"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// ToAssigneeDTOs pairs each assignee with the number of projects assigned to them
func ToAssigneeDTOs(users []models.User, counts map[string]int) []AssigneeDTO {
	out := make([]AssigneeDTO, len(users))
	for i, user := range users {
		out[i] = AssigneeDTO{
			UserDTO:          ToUserDTO(user),
			AssignedProjects: counts[user.ID],
		}
	}
	return out
}
