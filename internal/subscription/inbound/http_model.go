package inbound

type SubscribeRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type SubscribeResponse struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

func (SubscribeResponse) Message() string {
	return "Subscription received. Please check your email to confirm it."
}

type ConfirmResponse struct {
	Status string `json:"status"`
}

func (ConfirmResponse) Message() string {
	return "Subscription confirmed."
}
