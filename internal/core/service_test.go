package core

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/tabular/internal/table"
)

func newTestService() *Service {
	return NewService(Options{
		Store:   NewStore(0),
		Fetcher: NewHTTPFetcher(time.Second, 1<<20, "test"),
		Limiter: NewFetchLimiter(2, time.Second),
	})
}

func TestService_CreateFromInput(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	info, err := s.CreateFromInput(ctx, "points", map[string]any{"headers": []any{"x", "y"}}, 1, 2)
	if err != nil {
		t.Fatalf("CreateFromInput() error = %v", err)
	}
	if info.Rows != 1 || info.Columns != 2 || info.Source != SourceInput {
		t.Errorf("info = %+v", info)
	}

	if _, err := s.CreateFromInput(ctx, "bad", 1, map[string]any{}); !errors.Is(err, table.ErrUnrecognizedInput) {
		t.Errorf("CreateFromInput() error = %v, want ErrUnrecognizedInput", err)
	}
	if got := s.Count(); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}
}

func TestService_CreateFromReader(t *testing.T) {
	s := newTestService()
	text := "\xEF\xBB\xBFcity,pop\nOslo,700\n"

	info, err := s.CreateFromReader(context.Background(), "cities", strings.NewReader(text), table.Config{})
	if err != nil {
		t.Fatalf("CreateFromReader() error = %v", err)
	}
	if len(info.Headers) != 2 || info.Headers[0] != "city" {
		t.Errorf("Headers = %q, want BOM stripped", info.Headers)
	}
}

func TestService_DefaultFormat(t *testing.T) {
	s := NewService(Options{DefaultFormat: table.FormatTSV})

	info, err := s.CreateFromReader(context.Background(), "", strings.NewReader("a,b\tc"), table.Config{})
	if err != nil {
		t.Fatalf("CreateFromReader() error = %v", err)
	}
	if info.Columns != 2 {
		t.Errorf("Columns = %d, want 2", info.Columns)
	}

	info, err = s.CreateFromReader(context.Background(), "", strings.NewReader("a,b"), table.Config{Format: table.FormatCSV})
	if err != nil {
		t.Fatalf("CreateFromReader() error = %v", err)
	}
	if info.Columns != 2 {
		t.Errorf("explicit CSV Columns = %d, want 2", info.Columns)
	}
}

func TestService_CreateFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ok.csv" {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		io.WriteString(w, "a,b\n1,2\n3,4")
	}))
	defer srv.Close()

	s := newTestService()
	info, err := s.CreateFromURL(context.Background(), "remote", srv.URL+"/ok.csv", table.Config{})
	if err != nil {
		t.Fatalf("CreateFromURL() error = %v", err)
	}
	if info.Rows != 2 || !strings.HasPrefix(info.Source, SourceURL+":") {
		t.Errorf("info = %+v", info)
	}

	_, err = s.CreateFromURL(context.Background(), "broken", srv.URL+"/fail", table.Config{})
	if !errors.Is(err, table.ErrFetch) {
		t.Errorf("CreateFromURL() error = %v, want ErrFetch", err)
	}
	if got := s.Limiter().ActiveCount(); got != 0 {
		t.Errorf("limiter ActiveCount = %d after fetches, want 0", got)
	}
}

func TestService_CreateFromURL_Busy(t *testing.T) {
	s := NewService(Options{Limiter: NewFetchLimiter(1, 10*time.Millisecond)})
	s.Limiter().TryAcquire()
	defer s.Limiter().Release()

	_, err := s.CreateFromURL(context.Background(), "x", "http://127.0.0.1:1/x.csv", table.Config{})
	if !errors.Is(err, ErrTooManyFetches) {
		t.Errorf("CreateFromURL() error = %v, want ErrTooManyFetches", err)
	}
}

func TestService_UpdateIsAllOrNothing(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	info, err := s.CreateFromInput(ctx, "t", "name,score\nann,1")
	if err != nil {
		t.Fatalf("CreateFromInput() error = %v", err)
	}

	_, err = s.Update(ctx, info.ID, func(tbl *table.Table) error {
		if err := tbl.SetCell(table.Pos(0), table.Name("score"), table.Number(99)); err != nil {
			return err
		}
		return tbl.SetRow(table.Pos(7), []any{"x"})
	})
	if !errors.Is(err, table.ErrRowNotFound) {
		t.Fatalf("Update() error = %v, want ErrRowNotFound", err)
	}

	err = s.View(info.ID, func(tbl *table.Table) error {
		v, err := tbl.Cell(table.Pos(0), table.Name("score"))
		if err != nil {
			return err
		}
		if !v.Equal(table.Number(1)) {
			t.Errorf("score = %v after failed update, want 1", v)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}

	updated, err := s.Update(ctx, info.ID, func(tbl *table.Table) error {
		_, err := tbl.AddRow(table.String("bob"), table.Number(2))
		return err
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Rows != 2 {
		t.Errorf("Rows = %d, want 2", updated.Rows)
	}
}

func TestService_Limits(t *testing.T) {
	s := NewService(Options{Limits: table.Limits{MaxRows: 3, MaxColumns: 2}})
	ctx := context.Background()

	if _, err := s.CreateFromInput(ctx, "wide", "a,b,c\n1,2,3"); !errors.Is(err, table.ErrTooLarge) {
		t.Fatalf("CreateFromInput() error = %v, want ErrTooLarge", err)
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}

	info, err := s.CreateFromInput(ctx, "small", "a,b\n1,2")
	if err != nil {
		t.Fatalf("CreateFromInput() error = %v", err)
	}

	_, err = s.Update(ctx, info.ID, func(tbl *table.Table) error {
		return tbl.SetCell(table.Pos(5_000_000), table.Pos(0), table.String("x"))
	})
	if !errors.Is(err, table.ErrTooLarge) {
		t.Fatalf("Update() far row error = %v, want ErrTooLarge", err)
	}
	_, err = s.Update(ctx, info.ID, func(tbl *table.Table) error {
		return tbl.SetCell(table.Pos(0), table.Pos(8000), table.String("x"))
	})
	if !errors.Is(err, table.ErrTooLarge) {
		t.Fatalf("Update() far column error = %v, want ErrTooLarge", err)
	}

	updated, err := s.Update(ctx, info.ID, func(tbl *table.Table) error {
		return tbl.SetCell(table.Pos(2), table.Pos(1), table.Number(9))
	})
	if err != nil {
		t.Fatalf("Update() within limits error = %v", err)
	}
	if updated.Rows != 3 || updated.Columns != 2 {
		t.Errorf("size = %dx%d, want 3x2", updated.Rows, updated.Columns)
	}
}

func TestService_ConcurrentUpdates(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	info, err := s.CreateFromInput(ctx, "counter", map[string]any{"headers": []any{"n"}})
	if err != nil {
		t.Fatalf("CreateFromInput() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, info.ID, func(tbl *table.Table) error {
				_, err := tbl.AddRow(table.Number(1))
				return err
			})
			if err != nil {
				t.Errorf("Update() error = %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.Info(info.ID)
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if got.Rows != 20 {
		t.Errorf("Rows = %d, want 20", got.Rows)
	}
}

func TestService_Delete(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	info, _ := s.CreateFromInput(ctx, "t", "1,2")

	if err := s.Delete(ctx, info.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.View(info.ID, func(*table.Table) error { return nil }); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("View() after Delete error = %v, want ErrTableNotFound", err)
	}
	if len(s.List()) != 0 {
		t.Errorf("List() not empty after Delete")
	}
}

func TestService_Shutdown(t *testing.T) {
	s := newTestService()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
