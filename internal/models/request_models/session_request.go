package request_models

type ExtendSessionRequest struct {
	// Hours defaults to 24 when omitted.
	Hours *int `json:"hours"`
}
