// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/poiesic/memvault/core"
	"github.com/poiesic/memvault/storage"
)

// Key layout. Every key of a table starts with "tbl:<name>:" followed by
// one of the kinds below.
const (
	tablePrefix      = "tbl"
	recordKind       = "rec"   // rec:<id BE> -> entry
	orderKind        = "ord"   // ord:<seq BE> -> id
	keywordKind      = "kw"    // kw:<term>\x00<id BE> -> empty
	checkpointKind   = "chkpt" // chkpt:<processor> -> checkpoint
	sequenceKind     = "seq"
	keywordSeparator = 0x00
)

// tableKeys builds keys for a single table.
type tableKeys struct {
	root string
}

// newTableKeys validates the table name and returns its key builder.
func newTableKeys(table string) (tableKeys, error) {
	if table == "" || strings.ContainsAny(table, ":\x00") {
		return tableKeys{}, fmt.Errorf("%w: %q", storage.ErrInvalidTable, table)
	}
	return tableKeys{root: tablePrefix + ":" + table + ":"}, nil
}

// prefix returns the key prefix for a kind of key.
func (k tableKeys) prefix(kind string) []byte {
	return []byte(k.root + kind + ":")
}

// withUint64 appends v in big-endian order so lexicographic sort matches numeric sort.
func withUint64(prefix []byte, v uint64) []byte {
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], v)
	return buf
}

// record generates the key of an entry.
func (k tableKeys) record(id core.ID) []byte {
	return withUint64(k.prefix(recordKind), uint64(id))
}

// order generates the key of the insertion-order index.
func (k tableKeys) order(seq uint64) []byte {
	return withUint64(k.prefix(orderKind), seq)
}

// keywordScan generates the partial key covering every entry indexed under term.
func (k tableKeys) keywordScan(term string) []byte {
	prefix := k.prefix(keywordKind)
	buf := make([]byte, 0, len(prefix)+len(term)+1)
	buf = append(buf, prefix...)
	buf = append(buf, term...)
	return append(buf, keywordSeparator)
}

// keyword generates the composite key of the keyword index.
// Format: prefix:term\x00id
func (k tableKeys) keyword(term string, id core.ID) []byte {
	return withUint64(k.keywordScan(term), uint64(id))
}

// idFromKeyTail decodes the ID stored in the last 8 bytes of a key.
func idFromKeyTail(key []byte) (core.ID, error) {
	if len(key) < 8 {
		return 0, fmt.Errorf("%w: key too short", storage.ErrSerializationFailed)
	}
	return storage.UnmarshalID(key[len(key)-8:])
}

// sequence generates the key of the table's ID sequence.
func (k tableKeys) sequence() []byte {
	return []byte(k.root + sequenceKind)
}

// checkpoint generates the key for a processor checkpoint.
func (k tableKeys) checkpoint(processorType string) []byte {
	return []byte(k.root + checkpointKind + ":" + processorType)
}

// clearable lists the prefixes removed when the table is cleared.
// The sequence key is kept so insertion order stays monotonic.
func (k tableKeys) clearable() [][]byte {
	return [][]byte{
		k.prefix(recordKind),
		k.prefix(orderKind),
		k.prefix(keywordKind),
		[]byte(k.root + checkpointKind + ":"),
	}
}
