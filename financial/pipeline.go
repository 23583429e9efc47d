// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package financial

import (
	"context"
	"slices"
	"time"

	"github.com/dart-vault/dartdata/data"
)

// Source supplies the two upstream fetches the orchestrators need: the
// structured single-account financial statements and the provisional
// earnings fallback. A logical no-data response is an empty slice (or
// nil record) with a nil error; only transport failures return errors.
type Source interface {
	Financials(ctx context.Context, corpCode string, year int, code data.ReportCode) ([]data.RawLineItem, error)
	Provisional(ctx context.Context, corpCode string, year int, quarter data.Quarter) (*data.FinancialRecord, error)
}

// Clock supplies the current time. Report availability depends on the
// calendar, so orchestrators read time through this indirection and
// tests pin it to exercise month-boundary branches.
type Clock func() time.Time

// Pipeline reconciles heterogeneous DART filings into a single
// chronological series of per-period financial records.
type Pipeline struct {
	source Source
	now    Clock
}

// NewPipeline builds a pipeline over source using the system clock.
func NewPipeline(source Source) *Pipeline {
	return &Pipeline{source: source, now: time.Now}
}

// WithClock replaces the pipeline clock.
func (p *Pipeline) WithClock(clock Clock) *Pipeline {
	p.now = clock
	return p
}

// sortChronological orders records ascending by (year, quarter), with
// quarterless yearly records sorting as full years.
func sortChronological(records []*data.FinancialRecord) {
	slices.SortFunc(records, func(a, b *data.FinancialRecord) int {
		if a.Year != b.Year {
			return a.Year - b.Year
		}

		return a.Quarter.Order() - b.Quarter.Order()
	})
}
