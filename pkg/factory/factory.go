// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

// Package factory creates storage backends by name. Backends register
// themselves in init functions so the caller only needs the type string
// and its settings map.
package factory

import (
	"sort"

	"github.com/objsweep/go-objsweep/pkg/common"
)

// StorageCreator is a function that creates a storage backend.
type StorageCreator func(settings map[string]string) (common.Storage, error)

var storageRegistry = make(map[string]StorageCreator)

// RegisterStorage registers a storage backend creator.
func RegisterStorage(backendType string, creator StorageCreator) {
	storageRegistry[backendType] = creator
}

// NewStorage creates a new storage backend based on the given type.
func NewStorage(backendType string, settings map[string]string) (common.Storage, error) {
	creator, exists := storageRegistry[backendType]
	if !exists {
		return nil, ErrUnknownBackend
	}
	return creator(settings)
}

// Backends returns the registered backend type names in sorted order.
func Backends() []string {
	names := make([]string, 0, len(storageRegistry))
	for name := range storageRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
