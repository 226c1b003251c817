package tickets

import "time"

type TicketResponse struct {
	Code       string     `json:"code"`
	EventID    string     `json:"event_id"`
	EventTitle string     `json:"event_title,omitempty"`
	UserID     string     `json:"user_id"`
	Quantity   int        `json:"quantity"`
	Type       TicketType `json:"type"`
	BuyDate    time.Time  `json:"buy_date"`
}

func (t *Ticket) ToResponse() TicketResponse {
	resp := TicketResponse{
		Code:     t.Code.String(),
		EventID:  t.EventID.String(),
		UserID:   t.UserID.String(),
		Quantity: t.Quantity,
		Type:     t.Type,
		BuyDate:  t.BuyDate,
	}
	if t.Event != nil {
		resp.EventTitle = t.Event.Title
	}
	return resp
}

func toResponses(list []Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToResponse())
	}
	return out
}
