package core

import (
	"context"
	"fmt"
	"io"

	"github.com/JonMunkholm/tabular/internal/logging"
	"github.com/JonMunkholm/tabular/internal/table"
	"github.com/dustin/go-humanize"
)

// Sources recorded in TableInfo.
const (
	SourceInput  = "input"
	SourceReader = "upload"
	SourceURL    = "url"
)

// Options configures a Service. Nil fields get defaults.
type Options struct {
	Store   *Store
	Fetcher table.Fetcher
	Limiter *FetchLimiter
	Audit   *AuditLog
	// DefaultFormat applies to uploads and fetches that leave Format as auto.
	DefaultFormat table.Format
	// Limits caps every stored table, at creation and on each update.
	Limits table.Limits
}

// Service owns the stored tables and serializes access to each one.
type Service struct {
	store         *Store
	fetcher       table.Fetcher
	limiter       *FetchLimiter
	audit         *AuditLog
	defaultFormat table.Format
	limits        table.Limits
}

// NewService creates a Service.
func NewService(opts Options) *Service {
	s := &Service{
		store:         opts.Store,
		fetcher:       opts.Fetcher,
		limiter:       opts.Limiter,
		audit:         opts.Audit,
		defaultFormat: opts.DefaultFormat,
		limits:        opts.Limits,
	}
	if s.store == nil {
		s.store = NewStore(0)
	}
	if s.fetcher == nil {
		s.fetcher = NewHTTPFetcher(0, 0, "")
	}
	if s.limiter == nil {
		s.limiter = NewFetchLimiter(0, 0)
	}
	if s.audit == nil {
		s.audit = NewAuditLog(0)
	}
	return s
}

// Limiter returns the fetch limiter, for health reporting and shutdown.
func (s *Service) Limiter() *FetchLimiter { return s.limiter }

// Audit returns the change log.
func (s *Service) Audit() *AuditLog { return s.audit }

// History returns the recorded changes to one table, newest first. It
// works for deleted tables too.
func (s *Service) History(id string, limit int) []AuditEntry {
	return s.audit.Query(AuditFilter{TableID: id, Limit: limit})
}

// CreateFromInput classifies args, builds a table and stores it.
func (s *Service) CreateFromInput(ctx context.Context, name string, args ...any) (TableInfo, error) {
	t, err := table.Build(args...)
	if err != nil {
		return TableInfo{}, err
	}
	return s.put(ctx, name, SourceInput, t)
}

// CreateFromReader builds a table from delimited text read from r. A
// leading BOM is dropped and invalid UTF-8 is replaced.
func (s *Service) CreateFromReader(ctx context.Context, name string, r io.Reader, cfg table.Config) (TableInfo, error) {
	if cfg.Format == table.FormatAuto {
		cfg.Format = s.defaultFormat
	}

	counted := WrapForStreaming(r)
	t, err := table.FromReader(counted, cfg)
	if err != nil {
		return TableInfo{}, err
	}

	logging.FromContext(ctx).Debug("table text read", "size", humanize.Bytes(uint64(counted.BytesRead)), "name", name)
	return s.put(ctx, name, SourceReader, t)
}

// CreateFromURL fetches delimited text and stores the table built from it.
// At most the limiter's number of fetches run at once.
func (s *Service) CreateFromURL(ctx context.Context, name, url string, cfg table.Config) (TableInfo, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return TableInfo{}, err
	}
	defer s.limiter.Release()

	if cfg.Format == table.FormatAuto {
		cfg.Format = s.defaultFormat
	}

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return TableInfo{}, err
	}
	defer body.Close()

	counted := WrapForStreaming(body)
	t, err := table.FromReader(counted, cfg)
	if err != nil {
		return TableInfo{}, err
	}

	logging.FromContext(ctx).Info("table fetched", "url", url, "size", humanize.Bytes(uint64(counted.BytesRead)))
	return s.put(ctx, name, SourceURL+":"+url, t)
}

func (s *Service) put(ctx context.Context, name, source string, t *table.Table) (TableInfo, error) {
	if err := t.SetLimits(s.limits); err != nil {
		return TableInfo{}, err
	}
	info, err := s.store.Put(name, source, t)
	if err != nil {
		return TableInfo{}, err
	}

	s.audit.Record(ctx, AuditLogParams{
		Action:    ActionCreate,
		TableID:   info.ID,
		TableName: info.Name,
		Rows:      info.Rows,
		Columns:   info.Columns,
		Reason:    source,
	})
	logging.WithFields(ctx, "table_id", info.ID, "table", info.Name).Info("table created",
		"source", source,
		"rows", info.Rows,
		"columns", info.Columns,
		"client_ip", ClientIPFromContext(ctx),
	)
	return info, nil
}

// Info describes one stored table.
func (s *Service) Info(id string) (TableInfo, error) {
	return s.store.Info(id)
}

// List describes every stored table.
func (s *Service) List() []TableInfo {
	return s.store.List()
}

// Count returns the number of stored tables.
func (s *Service) Count() int {
	return s.store.Count()
}

// View runs fn with shared access to a table. fn must not keep t or
// modify it.
func (s *Service) View(id string, fn func(t *table.Table) error) error {
	e, err := s.store.get(id)
	if err != nil {
		return err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return fn(e.tbl)
}

// Update runs fn with exclusive access to a copy of a table. The copy
// replaces the stored table only when fn succeeds, so a failed update
// leaves the table unchanged.
func (s *Service) Update(ctx context.Context, id string, fn func(t *table.Table) error) (TableInfo, error) {
	e, err := s.store.get(id)
	if err != nil {
		return TableInfo{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	work := e.tbl.Clone()
	if err := fn(work); err != nil {
		s.audit.Record(ctx, AuditLogParams{
			Action:    ActionUpdateRejected,
			TableID:   id,
			TableName: e.name,
			Rows:      e.tbl.NumRows(),
			Columns:   e.tbl.NumColumns(),
			Reason:    err.Error(),
		})
		return TableInfo{}, err
	}
	e.tbl = work
	e.updated = s.store.now()

	info := e.info()
	s.audit.Record(ctx, AuditLogParams{
		Action:    ActionUpdate,
		TableID:   id,
		TableName: info.Name,
		Rows:      info.Rows,
		Columns:   info.Columns,
	})
	logging.WithFields(ctx, "table_id", id).Debug("table updated", "rows", info.Rows, "columns", info.Columns)
	return info, nil
}

// Delete removes a table.
func (s *Service) Delete(ctx context.Context, id string) error {
	info, err := s.store.Info(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditLogParams{
		Action:    ActionDelete,
		TableID:   id,
		TableName: info.Name,
		Rows:      info.Rows,
		Columns:   info.Columns,
	})
	logging.WithFields(ctx, "table_id", id).Info("table deleted")
	return nil
}

// Shutdown waits for in-flight fetches to finish or ctx to end.
func (s *Service) Shutdown(ctx context.Context) error {
	if err := s.limiter.WaitForDrain(ctx); err != nil {
		return fmt.Errorf("wait for fetches: %w", err)
	}
	return nil
}
