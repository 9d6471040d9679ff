package models

// HallTicket is an issued admission document stored as base64 text.
type HallTicket struct {
	Collection string `db:"collection" json:"collection"`
	RollNumber string `db:"roll_number" bson:"roll_number" json:"roll_number"`
	Payload    string `db:"payload" bson:"hall_ticket" json:"-"`
}

// HallTicketFile is a decoded hall ticket ready for delivery.
type HallTicketFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
