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


package adapter

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/memvault"
)

// Backend type names accepted by New.
const (
	TypeBadger  = "badger"
	TypeLanceDB = "lancedb"
	TypeNeo4j   = "neo4j"
)

// Option configures an adapter.
type Option func(*options)

type options struct {
	logger *slog.Logger
	dbOpts []memvault.DatabaseOption
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDatabaseOptions passes extra options to the local database, such as
// memvault.WithInMemory or memvault.WithProvider.
func WithDatabaseOptions(opts ...memvault.DatabaseOption) Option {
	return func(o *options) {
		o.dbOpts = append(o.dbOpts, opts...)
	}
}

func applyOptions(opts []Option) *options {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// New returns an uninitialized adapter for config.DBType.
// Unknown types fail immediately with ErrUnsupportedBackend.
func New(config Config, opts ...Option) (Adapter, error) {
	config.DBType = strings.ToLower(strings.TrimSpace(config.DBType))
	switch config.DBType {
	case TypeBadger, TypeLanceDB:
		return NewLocal(config, opts...), nil
	case TypeNeo4j:
		return NewGraph(config, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, config.DBType)
	}
}
