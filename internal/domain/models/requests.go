package models

// Requests for the HTTP API. Defined in domain for consistency and reuse.

type PillarsRequest struct {
	At        string  `query:"at" json:"at" validate:"required"`
	Longitude float64 `query:"longitude" json:"longitude" default:"114.17" validate:"gte=-180,lte=180"`
	Correct   bool    `query:"correct" json:"correct" default:"true"`
}

type SignalsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"200" validate:"gte=1,lte=5000"`
}

type RunRequest struct {
	Symbol string `json:"symbol" validate:"required"`
	From   string `json:"from" validate:"required"`
	To     string `json:"to" validate:"required"`
	TF     string `json:"tf" default:"1d" validate:"oneof=1m 1h 1d"`
}

// WebhookBar is the payload accepted from external bar push notifications.
type WebhookBar struct {
	Symbol    string  `json:"symbol" validate:"required"`
	Timestamp int64   `json:"t" validate:"required,gt=0"`
	Open      float64 `json:"o" validate:"gte=0"`
	High      float64 `json:"h" validate:"gte=0"`
	Low       float64 `json:"l" validate:"gte=0"`
	Close     float64 `json:"c" validate:"gte=0"`
	Volume    float64 `json:"v" validate:"gte=0"`
}
