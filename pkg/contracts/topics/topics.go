package topics

const (
	// Tickets
	TicketPlaced  = "ticket_placed"
	TicketSettled = "ticket_settled"

	// Resultados
	ResultPublished = "result_published"

	// DLQs
	TicketPlacedDLQ    = "ticket_placed_dlq"
	ResultPublishedDLQ = "result_published_dlq"
)
