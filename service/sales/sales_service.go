package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cavina.GO/core/apperr"
	salesEntity "cavina.GO/model/entity/sales"
	salesRepo "cavina.GO/model/repository/sales"
	stockService "cavina.GO/service/stock"
)

const reconcileLockTTL = 30 * time.Second

// Service owns the terminal-facing sale lifecycle: idempotent ingestion of
// raw events and the daily reconciliation that turns pending events into
// stock movements.
type Service struct {
	db       *gorm.DB
	events   *salesRepo.SalesRepository
	expander *Expander
	ledger   *stockService.Ledger
	locker   *redislock.Client
	validate *validator.Validate
	log      *logrus.Logger
}

func NewService(db *gorm.DB, events *salesRepo.SalesRepository, expander *Expander, ledger *stockService.Ledger, locker *redislock.Client, log *logrus.Logger) *Service {
	return &Service{
		db:       db,
		events:   events,
		expander: expander,
		ledger:   ledger,
		locker:   locker,
		validate: validator.New(),
		log:      log,
	}
}

// IngestSale records one terminal event in pending state. The payload is
// stored verbatim and stock is not touched; reconciliation does that later.
// A replayed event id is rejected so retrying terminals cannot double-book.
func (s *Service) IngestSale(terminal *salesEntity.Terminal, input *EventInput) (*salesEntity.SaleEvent, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, apperr.Validation("invalid sale event: %v", err)
	}
	var event *salesEntity.SaleEvent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		event, err = s.ingestTx(tx, terminal, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"event_id":    input.EventID,
		"terminal_id": terminal.TerminalID,
		"location_id": terminal.LocationID,
		"lines":       len(input.Lines),
	}).Info("sale_ingested")
	return event, nil
}

func (s *Service) ingestTx(tx *gorm.DB, terminal *salesEntity.Terminal, input *EventInput) (*salesEntity.SaleEvent, error) {
	existing, err := s.events.FindEventByEventID(tx, input.EventID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Idempotency("sale event %s already ingested", input.EventID)
	}
	event := &salesEntity.SaleEvent{
		EventID:    input.EventID,
		TerminalID: terminal.ID,
		LocationID: terminal.LocationID,
		Payload:    datatypes.JSON(input.Raw),
		Status:     salesEntity.StatusPending,
	}
	if err := s.events.CreateEvent(tx, event); err != nil {
		return nil, err
	}
	lines := make([]salesEntity.SaleLine, 0, len(input.Lines))
	for _, l := range input.Lines {
		lines = append(lines, salesEntity.SaleLine{
			SaleEventID: event.ID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitCode:    l.UnitCode,
			Currency:    l.Currency,
			Price:       l.Price,
		})
	}
	if err := s.events.CreateLines(tx, lines); err != nil {
		return nil, err
	}
	return event, nil
}

// ReconcileResult summarizes one daily-log run.
type ReconcileResult struct {
	Ingested  int `json:"ingested"`
	Skipped   int `json:"skipped"`
	Confirmed int `json:"confirmed"`

	// ConfirmedEventIDs and TouchedProductIDs describe what the run applied.
	ConfirmedEventIDs []string `json:"confirmed_event_ids"`
	TouchedProductIDs []uint   `json:"touched_product_ids"`
}

// ReconcileDaily processes a terminal's end-of-day log: events already
// confirmed are skipped, events never seen are ingested, and every pending
// event's lines are expanded and applied to stock as one all-or-nothing
// transaction. Only a fully applied batch gets its events confirmed; any
// failure — insufficient stock included — leaves the whole day pending.
func (s *Service) ReconcileDaily(ctx context.Context, terminal *salesEntity.Terminal, inputs []*EventInput) (*ReconcileResult, error) {
	locationID := terminal.LocationID
	if s.locker != nil {
		lock, err := s.locker.Obtain(ctx, fmt.Sprintf("reconcile:location:%d", locationID), reconcileLockTTL, nil)
		if err != nil {
			return nil, apperr.Conflict("reconciliation already running for location %d", locationID)
		}
		defer lock.Release(ctx)
	}

	result := &ReconcileResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		pending := make([]*salesEntity.SaleEvent, 0, len(inputs))
		for _, input := range inputs {
			if err := s.validate.Struct(input); err != nil {
				return apperr.Validation("invalid sale event %s: %v", input.EventID, err)
			}
			existing, err := s.events.FindEventByEventID(tx, input.EventID)
			if err != nil {
				return err
			}
			if existing != nil {
				if existing.Status == salesEntity.StatusConfirmed {
					result.Skipped++
					continue
				}
				pending = append(pending, existing)
				continue
			}
			event, err := s.ingestTx(tx, terminal, input)
			if err != nil {
				return err
			}
			result.Ingested++
			pending = append(pending, event)
		}

		acc := newAccumulator()
		parents := newAccumulator()
		eventIDs := make([]string, 0, len(pending))
		for _, event := range pending {
			lines, err := s.events.LinesOf(tx, event.ID)
			if err != nil {
				return err
			}
			for _, line := range lines {
				deltas, err := s.expander.Expand(tx, line.ProductID, line.Quantity, line.UnitCode)
				if err != nil {
					return err
				}
				for _, d := range deltas {
					acc.add(d.ProductID, d.Quantity, d.UnitCode)
				}
				if len(deltas) != 1 || deltas[0].ProductID != line.ProductID {
					// Composite: its own stock also moves, but only when the
					// location tracks it. Netted across the batch like the
					// component deltas.
					parents.add(line.ProductID, line.Quantity, line.UnitCode)
				}
			}
			eventIDs = append(eventIDs, event.EventID)
		}
		seen := map[uint]bool{}
		touch := func(productID uint) {
			if !seen[productID] {
				seen[productID] = true
				result.TouchedProductIDs = append(result.TouchedProductIDs, productID)
			}
		}
		for _, d := range acc.deltas() {
			if _, err := s.ledger.Adjust(tx, locationID, d.ProductID, d.Quantity.Neg(), d.UnitCode); err != nil {
				return err
			}
			touch(d.ProductID)
		}
		for _, d := range parents.deltas() {
			applied, err := s.ledger.AdjustIfTracked(tx, locationID, d.ProductID, d.Quantity.Neg(), d.UnitCode)
			if err != nil {
				return err
			}
			if applied {
				touch(d.ProductID)
			}
		}
		if len(eventIDs) > 0 {
			if err := s.events.ConfirmEvents(tx, eventIDs, time.Now().UTC()); err != nil {
				return err
			}
		}
		result.Confirmed = len(eventIDs)
		result.ConfirmedEventIDs = eventIDs
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"terminal_id": terminal.TerminalID,
		"location_id": locationID,
		"ingested":    result.Ingested,
		"skipped":     result.Skipped,
		"confirmed":   result.Confirmed,
	}).Info("daily_log_reconciled")
	return result, nil
}
