package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Doctor and patient ids are included when those relations are loaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  user.FullName(),
		Role:      user.Role.RoleName,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.Doctor != nil {
		id := user.Doctor.ID
		response.DoctorID = &id
	}
	if user.Patient != nil {
		id := user.Patient.ID
		response.PatientID = &id
	}

	return response
}

func UsersToResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *UserToResponse(&users[i])
	}
	return responses
}
