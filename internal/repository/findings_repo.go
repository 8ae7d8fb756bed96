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

// FindingsRepository owns the apontamentos workbook. Same
// read-modify-write discipline as the staffing repository.
type FindingsRepository interface {
	Load(ctx context.Context) (*sheet.Table, error)
	Update(ctx context.Context, mutate func(*sheet.Table) error) error
}

type findingsRepo struct {
	gw     storage.Gateway
	path   string
	retry  *config.RetryConfig
	cache  *byteCache
	logger *zap.Logger
}

// NewFindingsRepo creates a FindingsRepository.
func NewFindingsRepo(gw storage.Gateway, st *config.StorageConfig, retry *config.RetryConfig, logger *zap.Logger) FindingsRepository {
	return &findingsRepo{
		gw:     gw,
		path:   st.FindingsPath,
		retry:  retry,
		cache:  newByteCache(st.CacheTTL),
		logger: logger,
	}
}

func (r *findingsRepo) Load(ctx context.Context) (*sheet.Table, error) {
	if data, ok := r.cache.get(); ok {
		_, table, err := parseFindings(data)
		return table, err
	}

	data, err := r.gw.Download(ctx, r.path)
	if err != nil {
		return nil, err
	}
	r.cache.put(data)

	_, table, err := parseFindings(data)
	return table, err
}

func (r *findingsRepo) Update(ctx context.Context, mutate func(*sheet.Table) error) error {
	data, err := r.gw.Download(ctx, r.path)
	if err != nil {
		return err
	}
	sheets, table, err := parseFindings(data)
	if err != nil {
		return err
	}

	if err := mutate(table); err != nil {
		return err
	}

	payload, err := workbook.Serialize(sheets)
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

// parseFindings accepts the findings table on the sheet named
// "Apontamentos" or, failing that, on the first sheet — the legacy file
// predates the naming convention.
func parseFindings(data []byte) ([]workbook.Sheet, *sheet.Table, error) {
	sheets, err := workbook.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("findings workbook has no sheets")
	}

	table, ok := workbook.FindSheet(sheets, model.SheetFindings)
	if !ok {
		table = sheets[0].Table
	}
	if len(table.Columns) == 0 {
		table.Columns = model.FindingColumns()
	}

	return sheets, table, nil
}
