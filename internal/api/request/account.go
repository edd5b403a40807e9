package request

type CreateAccountRequest struct {
	Name     string `json:"name"`
	Broker   string `json:"broker"`
	Currency string `json:"currency"`
}
