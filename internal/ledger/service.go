package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/treasury-ledger/treasury/internal/auditlog"
	"github.com/treasury-ledger/treasury/internal/backup"
	"github.com/treasury-ledger/treasury/internal/id"
	"github.com/treasury-ledger/treasury/internal/model"
)

// Slot is the durable location the store is written to.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

// Recorder receives an audit entry per applied mutation.
type Recorder interface {
	Record(e auditlog.Entry) error
}

// Catalog is the category lookup the service validates against.
type Catalog interface {
	CategoryChecker
	Default(kind model.Kind) string
}

// Options configures a Service.
type Options struct {
	Slot       Slot
	Catalog    Catalog          // nil skips category checks
	Recorder   Recorder         // nil disables auditing
	Clock      func() time.Time // nil means time.Now
	DateLayout string           // layout for Transaction.Date, default "2/1/2006"
	Logger     zerolog.Logger
}

// DefaultDateLayout renders dates as day/month/year without padding.
const DefaultDateLayout = "2/1/2006"

// Service owns the active store and writes it to the slot after every change.
type Service struct {
	slot       Slot
	catalog    Catalog
	recorder   Recorder
	clock      func() time.Time
	ids        *id.Generator
	dateLayout string
	log        zerolog.Logger

	store model.Store
}

// Open loads the store from the slot. An empty slot yields an empty store; a slot
// holding unreadable data is a backup.FormatError.
func Open(ctx context.Context, opts Options) (*Service, error) {
	s := newService(opts)

	data, err := s.slot.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	if data == nil {
		return s, nil
	}

	store, err := backup.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	s.store = store
	s.ids.Seed(store.MaxID())
	s.log.Debug().Int("months", len(store)).Msg("ledger loaded")
	return s, nil
}

// OpenEmpty returns a Service with an empty store that never reads the slot.
// It is for Replace and Reset, which overwrite the slot wholesale and so must
// work when the stored data is unreadable.
func OpenEmpty(opts Options) *Service {
	return newService(opts)
}

func newService(opts Options) *Service {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	layout := opts.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}

	return &Service{
		slot:       opts.Slot,
		catalog:    opts.Catalog,
		recorder:   opts.Recorder,
		clock:      clock,
		ids:        id.NewGenerator(clock),
		dateLayout: layout,
		log:        opts.Logger.With().Str("component", "ledger").Logger(),
		store:      model.Store{},
	}
}

// Store returns the active store. Callers must treat it as read-only.
func (s *Service) Store() model.Store {
	return s.store
}

// Summary returns the dashboard totals for key.
func (s *Service) Summary(key id.MonthKey) model.Summary {
	return MonthSummary(s.store, key)
}

// List returns key's transactions, most recent first.
func (s *Service) List(key id.MonthKey, f Filter) []model.Transaction {
	return ListTransactions(s.store, key, f)
}

// Find returns the transaction with txID in key's month.
func (s *Service) Find(key id.MonthKey, txID int64) (model.Transaction, bool) {
	return FindTransaction(s.store, key, txID)
}

// Add records a new transaction in key's month. An empty category takes the
// kind's default.
func (s *Service) Add(ctx context.Context, key id.MonthKey, kind model.Kind, p Params) (model.Transaction, error) {
	if p.Category == "" && s.catalog != nil {
		p.Category = s.catalog.Default(kind)
	}
	if err := Validate(kind, p, s.catalog); err != nil {
		return model.Transaction{}, err
	}

	txID, at := s.ids.Next()
	next, tx, err := AddTransaction(s.store, key, kind, p, Stamp{ID: txID, Date: at.Format(s.dateLayout)})
	if err != nil {
		return model.Transaction{}, err
	}
	s.store = next

	s.log.Info().
		Str("op", "add").
		Str("month", key.String()).
		Int64("transaction_id", tx.ID).
		Str("kind", string(kind)).
		Str("amount", tx.Amount.StringFixed(2)).
		Msg("transaction added")
	s.record(auditlog.ActionAdd, key.String(), tx.ID, describe(tx))

	return tx, s.Save(ctx)
}

// Edit changes amount, description and category of an existing transaction.
func (s *Service) Edit(ctx context.Context, key id.MonthKey, txID int64, p Params) (model.Transaction, error) {
	existing, ok := s.Find(key, txID)
	if !ok {
		return model.Transaction{}, NotFoundError{Month: key, ID: txID}
	}
	// A category that is kept as is stays valid even if the catalog dropped it since.
	var cats CategoryChecker
	if s.catalog != nil && p.Category != existing.Category {
		cats = s.catalog
	}
	if err := Validate(existing.Kind, p, cats); err != nil {
		return model.Transaction{}, err
	}

	next, tx, err := EditTransaction(s.store, key, txID, p)
	if err != nil {
		return model.Transaction{}, err
	}
	s.store = next

	s.log.Info().
		Str("op", "edit").
		Str("month", key.String()).
		Int64("transaction_id", tx.ID).
		Msg("transaction edited")
	s.record(auditlog.ActionEdit, key.String(), tx.ID, describe(existing)+" -> "+describe(tx))

	return tx, s.Save(ctx)
}

// Delete removes a transaction. Reports false, with no error and no save, when
// the ID is not in key's month.
func (s *Service) Delete(ctx context.Context, key id.MonthKey, txID int64) (bool, error) {
	existing, _ := s.Find(key, txID)
	next, removed := DeleteTransaction(s.store, key, txID)
	if !removed {
		s.log.Debug().Str("op", "delete").Str("month", key.String()).Int64("transaction_id", txID).Msg("nothing to delete")
		return false, nil
	}
	s.store = next

	s.log.Info().
		Str("op", "delete").
		Str("month", key.String()).
		Int64("transaction_id", txID).
		Msg("transaction deleted")
	s.record(auditlog.ActionDelete, key.String(), txID, describe(existing))

	return true, s.Save(ctx)
}

// Replace swaps in a whole new store, as an imported backup does. No merge.
func (s *Service) Replace(ctx context.Context, store model.Store) error {
	if store == nil {
		store = model.Store{}
	}
	s.store = store
	s.ids.Seed(store.MaxID())

	s.log.Info().Str("op", "import").Int("months", len(store)).Msg("ledger replaced")
	s.record(auditlog.ActionImport, "", 0, fmt.Sprintf("%d months imported", len(store)))

	return s.Save(ctx)
}

// Reset empties the slot and the in-memory store.
func (s *Service) Reset(ctx context.Context) error {
	s.store = model.Store{}
	s.log.Info().Str("op", "reset").Msg("ledger cleared")
	s.record(auditlog.ActionReset, "", 0, "all data cleared")

	if err := s.slot.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Str("op", "reset").Msg("slot not cleared")
		return SaveWarning{Err: err}
	}
	return nil
}

// Save writes the active store to the slot. A failure is returned as a
// SaveWarning; the in-memory store is kept either way.
func (s *Service) Save(ctx context.Context) error {
	data, err := backup.Encode(s.store)
	if err != nil {
		return SaveWarning{Err: err}
	}
	if err := s.slot.Save(ctx, data); err != nil {
		s.log.Warn().Err(err).Msg("ledger not saved")
		return SaveWarning{Err: err}
	}
	return nil
}

func (s *Service) record(action auditlog.Action, month string, txID int64, details string) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.Record(auditlog.Entry{
		Timestamp:     s.clock().UTC(),
		Action:        action,
		Month:         month,
		TransactionID: txID,
		Details:       details,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("action", string(action)).Msg("audit entry not written")
	}
}

func describe(t model.Transaction) string {
	return fmt.Sprintf("%s %s %s: %s", t.Kind, t.Amount.StringFixed(2), t.Category, t.Description)
}
