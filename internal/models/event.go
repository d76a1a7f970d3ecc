package models

// BorrowEvent is published to Kafka after every successful borrow
// ledger mutation. Publishing is best-effort and never fails a request.
type BorrowEvent struct {
	EventID      string `json:"event_id"`
	RecordID     int64  `json:"record_id"`
	UserID       int64  `json:"user_id"`
	BookID       int64  `json:"book_id"`
	BorrowStatus string `json:"borrow_status"`
	Timestamp    int64  `json:"timestamp"`
}
