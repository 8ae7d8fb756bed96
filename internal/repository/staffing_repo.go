package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/newwebie/admin-apontamentos/config"
	"github.com/newwebie/admin-apontamentos/internal/model"
	"github.com/newwebie/admin-apontamentos/internal/sheet"
	"github.com/newwebie/admin-apontamentos/internal/storage"
	"github.com/newwebie/admin-apontamentos/internal/workbook"
)

// StaffingBook is the parsed staffing workbook: the slot ledger and the
// roster, plus every other sheet the file happens to carry so a save
// never drops them.
type StaffingBook struct {
	Sheets []workbook.Sheet
	Slots  *sheet.Table
	Roster *sheet.Table
}

// StaffingRepository owns the staffing workbook.
//
// Update re-downloads the freshest copy, hands it to mutate, and only
// then serializes and uploads — so a save of one sheet never clobbers
// concurrent edits to the other. The serialized payload is fixed before
// the lock-retry loop starts; retries re-send the same bytes.
type StaffingRepository interface {
	Load(ctx context.Context) (*StaffingBook, error)
	Update(ctx context.Context, mutate func(*StaffingBook) error) error
}

type staffingRepo struct {
	gw     storage.Gateway
	path   string
	retry  *config.RetryConfig
	cache  *byteCache
	logger *zap.Logger
}

// NewStaffingRepo creates a StaffingRepository.
func NewStaffingRepo(gw storage.Gateway, st *config.StorageConfig, retry *config.RetryConfig, logger *zap.Logger) StaffingRepository {
	return &staffingRepo{
		gw:     gw,
		path:   st.StaffingPath,
		retry:  retry,
		cache:  newByteCache(st.CacheTTL),
		logger: logger,
	}
}

func (r *staffingRepo) Load(ctx context.Context) (*StaffingBook, error) {
	if data, ok := r.cache.get(); ok {
		return parseStaffing(data)
	}

	data, err := r.gw.Download(ctx, r.path)
	if err != nil {
		return nil, err
	}
	r.cache.put(data)

	return parseStaffing(data)
}

func (r *staffingRepo) Update(ctx context.Context, mutate func(*StaffingBook) error) error {
	// Always mutate the freshest copy, never the cached one.
	data, err := r.gw.Download(ctx, r.path)
	if err != nil {
		return err
	}
	book, err := parseStaffing(data)
	if err != nil {
		return err
	}

	if err := mutate(book); err != nil {
		return err
	}

	payload, err := workbook.Serialize(book.Sheets)
	if err != nil {
		return err
	}

	err = storage.WithLockRetry(ctx, r.retry, r.logger, func() error {
		return r.gw.Upload(ctx, r.path, payload, true)
	})
	if err != nil {
		return err
	}

	r.cache.invalidate()
	return nil
}

func parseStaffing(data []byte) (*StaffingBook, error) {
	sheets, err := workbook.Parse(data)
	if err != nil {
		return nil, err
	}

	slots, ok := workbook.FindSheet(sheets, model.SheetSlots)
	if !ok {
		return nil, fmt.Errorf("staffing workbook has no sheet %q", model.SheetSlots)
	}
	roster, ok := workbook.FindSheet(sheets, model.SheetRoster)
	if !ok {
		return nil, fmt.Errorf("staffing workbook has no sheet %q", model.SheetRoster)
	}

	// A freshly provisioned workbook may carry header-less sheets.
	if len(slots.Columns) == 0 {
		slots.Columns = model.SlotColumns()
	}
	if len(roster.Columns) == 0 {
		roster.Columns = model.PersonColumns()
	}

	return &StaffingBook{Sheets: sheets, Slots: slots, Roster: roster}, nil
}
