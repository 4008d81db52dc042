package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/core"
)

// TransactionMessage carries one appended ledger row to the mirror worker.
// It is self-contained (full record, not just the sequence number) because
// the worker has no read access to the CSV ledger on the consume path.
type TransactionMessage struct {
	Seq         int64     `json:"seq"`
	Date        string    `json:"date"` // DD-MM-YYYY
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewTransactionMessage builds a message from a ledger sequence number and
// the transaction it refers to.
func NewTransactionMessage(seq int64, tx core.Transaction) *TransactionMessage {
	return &TransactionMessage{
		Seq:         seq,
		Date:        tx.Date.String(),
		Amount:      tx.Amount.String(),
		Category:    tx.Category.String(),
		Description: tx.Description,
		Timestamp:   time.Now(),
	}
}

// Transaction reconstructs the domain transaction carried by the message.
func (m *TransactionMessage) Transaction() (core.Transaction, error) {
	date, err := core.ParseDate(m.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseAmount(m.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	cat := core.Category(m.Category)
	if err := cat.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Date:        date,
		Amount:      amount,
		Category:    cat,
		Description: m.Description,
	}, nil
}

// ToJSON converts the message to JSON bytes
func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionMessageFromJSON creates a message from JSON bytes
func TransactionMessageFromJSON(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
