// Package ingestion turns dialogue turns into stored memory entries.
//
// For every submitted turn the Pipeline:
//   - asks the extractor for a self-contained restatement and enrichments
//   - merges in the enrichments supplied by the caller
//   - embeds the restatement
//   - persists the entry in its own transaction
//
// Extraction and embedding run concurrently on a worker pool. Entries are
// written in submission order once every item has been prepared, so a batch
// keeps its order in the table. A failing item does not stop the others;
// Ingest reports what was stored and joins the per-item errors.
package ingestion
