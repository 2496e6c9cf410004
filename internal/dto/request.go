package dto

type InitializeEventRequest struct {
	Name         string `json:"name"`
	TotalTickets int    `json:"total_tickets"`
}
