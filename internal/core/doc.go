// Package core holds named tables in memory and is the entry point used by
// the web and CLI layers.
//
// It is independent of any transport: handlers and commands call the
// Service, which builds tables with package table, stores them under
// generated ids and serializes access to each one.
//
// # Creating tables
//
// Tables come from three places:
//
//   - [Service.CreateFromInput]: dynamically typed arguments such as decoded
//     JSON, classified by table.Classify
//   - [Service.CreateFromReader]: delimited text, passed through
//     [WrapForStreaming] to drop a BOM and repair invalid UTF-8
//   - [Service.CreateFromURL]: delimited text fetched by an [HTTPFetcher],
//     with at most [FetchLimiter] capacity fetches in flight
//
// # Access
//
// [Service.View] grants shared read access. [Service.Update] runs a
// mutation against a copy and stores the copy only on success. Every
// stored table carries the [Options] Limits, so no write can grow it past
// them.
//
// # History
//
// Every create, update, rejected update and delete is appended to an
// [AuditLog] along with the caller address and operation carried by the
// context. [Service.StartAuditPruner] drops entries past their retention.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code for support reference:
//
//   - TBL001-TBL009: construction, storage and size limits
//   - REF001-REF003: row and column references
//   - VAL001-VAL004: request payloads
//   - FETCH001-FETCH005: remote fetches
//   - RATE001: throttling
package core
