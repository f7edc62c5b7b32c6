package payloads

// PassSubmittedPayload представляет событие об успешно принятом перевале,
// публикуемое в RabbitMQ.
type PassSubmittedPayload struct {
	PassID int64  `json:"pass_id"`
	Title  string `json:"title"`
	Email  string `json:"email"`
}
