package notification

import "time"

// Type is the kind of booking event.
type Type string

const (
	TypeBookingCreated   Type = "booking_created"   // Owner: новое бронирование
	TypeBookingConfirmed Type = "booking_confirmed" // Client: бронирование подтверждено салоном
	TypeBookingCompleted Type = "booking_completed" // Client: чек о визите
	TypeBookingCancelled Type = "booking_cancelled" // Both: бронирование отменено
)

// Event is a snapshot of a booking at the moment of a state change. It carries
// everything a sink needs, so sinks never read the database.
type Event struct {
	Type           Type      `json:"type"`
	BookingID      int64     `json:"booking_id"`
	BookingCode    string    `json:"booking_code"`
	Status         string    `json:"status"`
	ClientID       int64     `json:"client_id"`
	ClientName     string    `json:"client_name,omitempty"`
	ClientEmail    string    `json:"client_email,omitempty"`
	OwnerID        int64     `json:"owner_id,omitempty"`
	SalonID        int64     `json:"salon_id"`
	SalonName      string    `json:"salon_name"`
	ServiceName    string    `json:"service_name"`
	SpecialistName string    `json:"specialist_name,omitempty"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Price          int64     `json:"price"`
	PaymentMethod  string    `json:"payment_method"`
	RefundNote     string    `json:"refund_note,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Recipients returns the user ids that should see the event live.
func (e Event) Recipients() []int64 {
	ids := []int64{e.ClientID}
	if e.OwnerID != 0 && e.OwnerID != e.ClientID {
		ids = append(ids, e.OwnerID)
	}
	return ids
}
