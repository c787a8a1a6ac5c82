package dto

type ChangeRoleRequest struct {
	Role           string `json:"role" validate:"required,oneof=user admin super_admin"`
	Justification  string `json:"justification"`
	SecondPassword string `json:"second_password"`
}

type VerifyEmailRequest struct {
	Justification  string `json:"justification"`
	SecondPassword string `json:"second_password"`
}

type SetSecondPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	SecondPassword  string `json:"second_password" validate:"required,min=8,max=72"`
}
