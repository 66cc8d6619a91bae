package domain

import "time"

// Direction represents the side of a trade fill.
type Direction string

const (
	Long  Direction = "Long"
	Short Direction = "Short"
)

// FillStatus represents the execution status of a trade fill.
type FillStatus string

const (
	StatusFilled    FillStatus = "Filled"
	StatusPending   FillStatus = "Pending"
	StatusCancelled FillStatus = "Cancelled"
	StatusRejected  FillStatus = "Rejected"
)

// TradeFill represents a single trade execution record as logged by the
// (external) execution process. The engine only ever reads these.
type TradeFill struct {
	ID        int64      `json:"-"`
	Time      time.Time  `json:"time"`     // When the fill record was logged
	Strategy  string     `json:"strategy"` // Strategy identifier (e.g., "Drav")
	Symbol    string     `json:"symbol"`   // Instrument identifier
	Direction Direction  `json:"direction"`
	Size      string     `json:"size"` // Quantity as entered; parsed leniently, invalid reads as 0
	Price     float64    `json:"price"`
	Status    FillStatus `json:"status"`

	// Present only once the trade is closed. A fill is considered
	// closed/completed iff Win is non-nil.
	PNL       *float64   `json:"pnl,omitempty"`
	RMultiple *float64   `json:"rMultiple,omitempty"`
	Win       *bool      `json:"win,omitempty"`
	EntryTime *time.Time `json:"entryTime,omitempty"`
	ExitTime  *time.Time `json:"exitTime,omitempty"`
}

// IsClosed reports whether the fill belongs to a completed trade.
func (f *TradeFill) IsClosed() bool {
	return f.Win != nil
}
