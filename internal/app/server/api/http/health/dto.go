package health

type Input struct{}

type Output struct {
	Body Response
}

type Response struct {
	Status     string `json:"status" example:"OK" doc:"Whether the sync backend is accepting requests"`
	ServerTime int64  `json:"serverTime" doc:"Server clock in epoch milliseconds, for spotting client skew"`
}
