package request_models

type CreateRoadTripRequest struct {
	Name string `json:"name" binding:"required,min=1,max=120"`
}

type UpdateRoadTripRequest struct {
	Name string `json:"name" binding:"required,min=1,max=120"`
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}
