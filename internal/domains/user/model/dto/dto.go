package dto

import (
	"cmp"
	"strings"

	"meetingbook/internal/domains/user/model"
	"meetingbook/shared/constant"
	gDto "meetingbook/shared/dto"
	gModel "meetingbook/shared/model"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin user"`
	Active   *bool  `json:"active"`
}

// ToModel defaults to an active user-role account when role or active is omitted.
func (r *CreateUserRequest) ToModel(actor string, hashedPassword string) model.User {
	return model.User{
		ID:       uuid.NewString(),
		Name:     r.Name,
		Email:    strings.ToLower(r.Email),
		Password: hashedPassword,
		Role:     cmp.Or(r.Role, constant.RoleUser),
		Active:   r.Active == nil || *r.Active,
		Metadata: gModel.NewMetadata(actor),
	}
}

type UpdateUserRequest struct {
	Name     *string `db:"name"     json:"name,omitempty"     validate:"omitempty,max=100"`
	Role     *string `db:"role"     json:"role,omitempty"     validate:"omitempty,oneof=admin user"`
	Active   *bool   `db:"active"   json:"active,omitempty"`
	Password *string `db:"password" json:"password,omitempty" validate:"omitempty,min=8"`
}

type UserResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
	gDto.Metadata
}

// FromModel never copies the password hash.
func (r *UserResponse) FromModel(user model.User) {
	*r = UserResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role, Active: user.Active}
	r.Metadata.FromModel(user.Metadata)
}

type GetUsersResponse struct {
	Users []UserResponse `json:"users"`
	gDto.Pagination
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.Users = gDto.FromModels[model.User, UserResponse](models)
	r.Pagination = gDto.NewPagination(totalData, limit)
}
