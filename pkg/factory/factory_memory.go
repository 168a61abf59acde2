// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package factory

import (
	"github.com/objsweep/go-objsweep/pkg/common"
	"github.com/objsweep/go-objsweep/pkg/memory"
)

func init() {
	RegisterStorage("memory", func(settings map[string]string) (common.Storage, error) {
		storage := memory.New()
		if err := storage.Configure(settings); err != nil {
			return nil, err
		}
		return storage, nil
	})
}
