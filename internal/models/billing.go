package models

// BillingEntry is one completed appointment inside a billing period.
type BillingEntry struct {
	Appointment Appointment `json:"appointment"`
	Price       float64     `json:"price"`
}

// BillingSummary aggregates completed appointments over a day range.
type BillingSummary struct {
	FromDay       string         `json:"from_day"`
	ToDay         string         `json:"to_day"`
	TotalRevenue  float64        `json:"total_revenue"`
	Count         int            `json:"count"`
	AverageTicket float64        `json:"average_ticket"`
	Entries       []BillingEntry `json:"entries"`
}
