// Copyright 2025 Inkline Labs
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

package types

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Decimal is a fixed-point currency amount stored as its exact string
// representation. Floating point must never touch persisted revenue amounts.
//
//nolint:recvcheck
type Decimal struct {
	decimal.Decimal
}

func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{Decimal: d}
}

func (d Decimal) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Decimal) Scan(val any) error {
	v, ok := val.(string)
	if !ok {
		return fmt.Errorf(
			"value was not expected type, wanted string, got %T",
			val,
		)
	}
	tmpDec, err := decimal.NewFromString(v)
	if err != nil {
		return fmt.Errorf("failed to set decimal value from string: %w", err)
	}
	d.Decimal = tmpDec
	return nil
}

// ErrContentKeyNotFound is returned by content store operations when a digest is missing
var ErrContentKeyNotFound = errors.New("content key not found")

// ErrContentStoreUnavailable is returned when the content store cannot be accessed
var ErrContentStoreUnavailable = errors.New("content store unavailable")

// ErrNoStoreAvailable is returned when no content or metadata store is available
var ErrNoStoreAvailable = errors.New("no store available")
