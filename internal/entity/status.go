package entity

// Status is the preparation state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusServed    Status = "served"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus is the manually recorded payment flag of an order.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// position along the forward path; cancelled sits outside it.
var statusRank = map[Status]int{
	StatusPending:   0,
	StatusPreparing: 1,
	StatusServed:    2,
	StatusCompleted: 3,
}

// Valid reports whether s is a recognised status.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok || s == StatusCancelled
}

// Attributes reports whether reaching s records the acting staff member.
func (s Status) Attributes() bool {
	return s == StatusServed || s == StatusCompleted
}

// Valid reports whether p is a recognised payment status.
func (p PaymentStatus) Valid() bool {
	return p == PaymentUnpaid || p == PaymentPaid
}

// Statuses lists every recognised status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusPreparing, StatusServed, StatusCompleted, StatusCancelled}
}

// CanTransition reports whether an order may move from one status to another.
// Forward moves (including skips) and re-applying the current status are allowed;
// cancelled is reachable from anything but completed and is terminal.
func CanTransition(from, to Status) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if from == StatusCancelled {
		return false
	}
	if to == StatusCancelled {
		return from != StatusCompleted
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	return statusRank[to] > fromRank
}
