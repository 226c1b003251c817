package tickets

type TicketRequest struct {
	Quantity int        `json:"quantity"`
	Type     TicketType `json:"type"`
}
