// Package adapter defines the storage contract behind the HTTP service and
// its implementations.
//
// New picks the implementation from Config.DBType:
//
//	"badger", "lancedb"  Local, an embedded badger table driven by memvault.Database
//	"neo4j"              Graph, a placeholder whose operations return ErrNotImplemented
//
// The returned adapter is not initialized; call Initialize before use.
package adapter
