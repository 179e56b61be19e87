package client

// ChatRequest for POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	WantVideo bool   `json:"want_video"`
}

// ChatResponse from POST /chat. VideoJobID is present only when a video was
// requested and the server accepted the job.
type ChatResponse struct {
	Text       string `json:"text"`
	VideoJobID string `json:"video_job_id,omitempty"`
}

// VideoJobResponse from GET /video/{jobId}. VideoURL is present only when
// Status is "ready".
type VideoJobResponse struct {
	Status   string `json:"status"`
	VideoURL string `json:"video_url,omitempty"`
}

// LoginRequest for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse from POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// SignupRequest for POST /auth/signup. Success is any 2xx status; the body
// carries no required fields.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ErrorResponse is the error body the backend attaches to non-2xx responses.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
