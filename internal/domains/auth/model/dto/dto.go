package dto

import (
	"strings"

	"meetingbook/infras/jwt"
	userModel "meetingbook/internal/domains/user/model"
	"meetingbook/shared/constant"
	gModel "meetingbook/shared/model"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

// ToUserModel builds an active user-role account. Emails are stored lower-cased and
// the new account is its own creator.
func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	email := strings.ToLower(r.Email)

	return userModel.User{
		ID:       uuid.NewString(),
		Name:     r.Name,
		Email:    email,
		Password: hashedPassword,
		Role:     constant.RoleUser,
		Active:   true,
		Metadata: gModel.NewMetadata(email),
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}

// UpdatePasswordRequest is the column set written when a password changes.
type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password"`
}

type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (p *Profile) FromModel(user userModel.User) {
	*p = Profile{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
}

// Tokens is the wire form of an issued token pair.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (t *Tokens) FromTokenPair(pair *jwt.TokenPair) {
	*t = Tokens{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}
}

type LoginResponse struct {
	Tokens
	User Profile `json:"user"`
}

type RefreshTokenResponse struct {
	Tokens
}
