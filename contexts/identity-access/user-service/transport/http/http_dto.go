package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SignUpRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse mirrors the signup/signin contract. Status=false with a
// message is also the shape of the degraded "try again later" fallback.
type AuthResponse struct {
	Jwt     string `json:"jwt,omitempty"`
	Message string `json:"message"`
	Status  bool   `json:"status"`
}

type UserDTO struct {
	ID             string   `json:"id"`
	FullName       string   `json:"fullName"`
	Email          string   `json:"email"`
	Role           string   `json:"role"`
	Mobile         string   `json:"mobile,omitempty"`
	CompletedTasks []string `json:"completedTasks,omitempty"`
}

type GetUserResponse struct {
	User UserDTO `json:"user"`
}

type ListUsersResponse struct {
	Items []UserDTO `json:"items"`
}
