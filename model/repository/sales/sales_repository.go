package sales

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"cavina.GO/core/apperr"
	salesEntity "cavina.GO/model/entity/sales"
)

// SalesRepository owns the terminal, sale_event and sale_line tables.
type SalesRepository struct {
	db *gorm.DB
}

func NewSalesRepository(db *gorm.DB) *SalesRepository {
	return &SalesRepository{db: db}
}

// FindEventByEventID returns the sale event for an idempotency key, or nil
// when it has never been ingested.
func (r *SalesRepository) FindEventByEventID(tx *gorm.DB, eventID string) (*salesEntity.SaleEvent, error) {
	var ev salesEntity.SaleEvent
	err := tx.Where("event_id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// CreateEvent persists a new sale event. A unique-key violation on event_id
// maps to an idempotency error, so a race between two ingestions of the
// same event loses cleanly instead of leaking a driver error.
func (r *SalesRepository) CreateEvent(tx *gorm.DB, ev *salesEntity.SaleEvent) error {
	if err := tx.Create(ev).Error; err != nil {
		if isDuplicateKey(err) {
			return apperr.Idempotency("sale event %s already ingested", ev.EventID)
		}
		return err
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "Duplicate entry")
}

// CreateLines persists the normalized lines of an event.
func (r *SalesRepository) CreateLines(tx *gorm.DB, lines []salesEntity.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}
	return tx.Create(&lines).Error
}

// ConfirmEvents transitions the given event ids to confirmed in one update.
func (r *SalesRepository) ConfirmEvents(tx *gorm.DB, eventIDs []string, at time.Time) error {
	if len(eventIDs) == 0 {
		return nil
	}
	return tx.Model(&salesEntity.SaleEvent{}).
		Where("event_id IN ?", eventIDs).
		Updates(map[string]interface{}{"status": salesEntity.StatusConfirmed, "confirmed_at": at}).Error
}

// LinesOf returns the lines of a sale event.
func (r *SalesRepository) LinesOf(tx *gorm.DB, saleEventID uint) ([]salesEntity.SaleLine, error) {
	var lines []salesEntity.SaleLine
	err := tx.Where("sale_event_id = ?", saleEventID).Order("id").Find(&lines).Error
	return lines, err
}

// FindTerminal returns a terminal by its public identifier, or nil.
func (r *SalesRepository) FindTerminal(terminalID string) (*salesEntity.Terminal, error) {
	var t salesEntity.Terminal
	err := r.db.Where("terminal_id = ?", terminalID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTerminal provisions a terminal.
func (r *SalesRepository) CreateTerminal(t *salesEntity.Terminal) error {
	return r.db.Create(t).Error
}
