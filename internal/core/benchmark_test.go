package core

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"testing"

	"github.com/JonMunkholm/tabular/internal/table"
)

// ============================================================================
// Streaming Benchmarks
// ============================================================================

// BenchmarkWrapForStreaming_Valid benchmarks the common case: clean UTF-8.
func BenchmarkWrapForStreaming_Valid(b *testing.B) {
	// Generate 10KB of valid UTF-8
	data := bytes.Repeat([]byte("Valid UTF-8 line with numbers 12345\n"), 300)

	b.ResetTimer()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		io.Copy(io.Discard, WrapForStreaming(bytes.NewReader(data)))
	}
}

// BenchmarkWrapForStreaming_Invalid benchmarks input that needs repair.
func BenchmarkWrapForStreaming_Invalid(b *testing.B) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, bytes.Repeat([]byte("bad \xff\xfe byte\n"), 600)...)

	b.ResetTimer()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		io.Copy(io.Discard, WrapForStreaming(bytes.NewReader(data)))
	}
}

// ============================================================================
// Service Benchmarks
// ============================================================================

// BenchmarkService_CreateFromReader benchmarks the upload path end to end.
func BenchmarkService_CreateFromReader(b *testing.B) {
	var buf bytes.Buffer
	buf.WriteString("id,amount\n")
	for i := 0; i < 1000; i++ {
		buf.WriteString(strconv.Itoa(i) + "," + strconv.Itoa(i*3) + "\n")
	}
	data := buf.Bytes()

	s := NewService(Options{})
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		info, err := s.CreateFromReader(ctx, "bench", bytes.NewReader(data), table.Config{})
		if err != nil {
			b.Fatal(err)
		}
		s.store.Delete(info.ID)
	}
}

// BenchmarkService_UpdateParallel benchmarks contended updates on one table.
func BenchmarkService_UpdateParallel(b *testing.B) {
	s := NewService(Options{})
	ctx := context.Background()
	info, err := s.CreateFromInput(ctx, "bench", "n\n0")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s.Update(ctx, info.ID, func(t *table.Table) error {
				return t.SetCell(table.Pos(0), table.Pos(0), table.Number(1))
			})
		}
	})
}

// BenchmarkService_ViewParallel benchmarks concurrent readers.
func BenchmarkService_ViewParallel(b *testing.B) {
	s := NewService(Options{})
	info, err := s.CreateFromInput(context.Background(), "bench", "a,b\n1,2\n3,4")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s.View(info.ID, func(t *table.Table) error {
				_, err := t.Describe(table.AxisColumn, table.Name("a"))
				return err
			})
		}
	})
}
