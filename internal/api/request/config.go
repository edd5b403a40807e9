package request

type UpdateConfigsRequest struct {
	KuveraFunds []KuveraFund `json:"kuveraFunds"`
}

type KuveraFund struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
