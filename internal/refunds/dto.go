package refunds

import "strings"

type CreateRefundRequest struct {
	TicketCode string `json:"ticket_code" validate:"required,max=255"`
	Reason     Reason `json:"reason" validate:"required,oneof=NO_ATTENDANCE EVENT_CHANGED PURCHASE_ERROR"`
	Details    string `json:"details"`
}

type UpdateRefundRequest struct {
	Reason  Reason `json:"reason" validate:"required,oneof=NO_ATTENDANCE EVENT_CHANGED PURCHASE_ERROR"`
	Details string `json:"details"`
}

type PendingStatus struct {
	HasPending bool `json:"has_pending"`
}

func (r *CreateRefundRequest) normalize() {
	r.TicketCode = strings.TrimSpace(r.TicketCode)
	r.Details = strings.TrimSpace(r.Details)
}
