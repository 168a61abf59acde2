// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package factory

import "errors"

// ErrUnknownBackend is returned when an unknown backend type is specified.
var ErrUnknownBackend = errors.New("unknown backend type")
