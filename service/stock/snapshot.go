package stock

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	stockEntity "cavina.GO/model/entity/stock"
)

type snapshotLine struct {
	ProductID uint   `json:"product_id"`
	Quantity  string `json:"quantity"`
	UnitCode  string `json:"unit_code"`
}

// TakeSnapshot records the current stock of one location as a JSON document,
// keyed by a correlation id so a full sweep across locations can be grouped.
func (l *Ledger) TakeSnapshot(locationID uint, correlationID string) (*stockEntity.InventorySnapshot, error) {
	rows, err := l.stocks.ByLocation(locationID)
	if err != nil {
		return nil, err
	}
	lines := make([]snapshotLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, snapshotLine{ProductID: r.ProductID, Quantity: r.Quantity.String(), UnitCode: r.UnitCode})
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return nil, err
	}
	snap := &stockEntity.InventorySnapshot{
		LocationID:    locationID,
		CorrelationID: correlationID,
		TakenAt:       time.Now().UTC(),
		Data:          datatypes.JSON(data),
	}
	if err := l.stocks.CreateSnapshot(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// SnapshotAll sweeps every active location under one correlation id.
func (l *Ledger) SnapshotAll() (string, error) {
	locations, err := l.stocks.ActiveLocations()
	if err != nil {
		return "", err
	}
	correlationID := uuid.NewString()
	for _, loc := range locations {
		if _, err := l.TakeSnapshot(loc.ID, correlationID); err != nil {
			return correlationID, err
		}
	}
	l.log.WithFields(logrus.Fields{
		"correlation_id": correlationID,
		"locations":      len(locations),
	}).Info("inventory_snapshot_taken")
	return correlationID, nil
}
