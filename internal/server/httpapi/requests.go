package httpapi

// Request bodies. Only the fields named here are read; anything else in the
// payload is ignored.

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createTodoRequest struct {
	Description string `json:"description" binding:"required"`
	Completed   bool   `json:"completed"`
}

type updateTodoRequest struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}
