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
	"github.com/dart-vault/dartdata/data"
)

// ConvertCumulativeToStandalone rewrites, in place, the income-statement
// figures of every non-provisional 4Q record from full-year cumulative
// totals to standalone fourth-quarter values by subtracting the same
// year's 1Q, 2Q, and 3Q standalone figures.
//
// Quarterly filings already report standalone figures, and balance-sheet
// accounts are point-in-time, so only the 4Q income keys change. The
// quarter snapshot is taken before any mutation. When any of the four
// operands for a key is nil the result for that key is nil; when any of
// the three quarter records is entirely missing the cumulative value
// passes through unchanged.
func ConvertCumulativeToStandalone(records []*data.FinancialRecord) {
	type incomeValues map[data.AccountKey]*float64

	snapshot := make(map[int]map[data.Quarter]incomeValues)

	for _, record := range records {
		if record.IsProvisional {
			continue
		}

		switch record.Quarter {
		case data.Q1, data.Q2, data.Q3:
		default:
			continue
		}

		values := make(incomeValues, 3)
		for _, key := range data.IncomeKeys() {
			values[key] = record.Account(key)
		}

		if snapshot[record.Year] == nil {
			snapshot[record.Year] = make(map[data.Quarter]incomeValues, 3)
		}
		snapshot[record.Year][record.Quarter] = values
	}

	for _, record := range records {
		if record.Quarter != data.Q4 || record.IsProvisional {
			continue
		}

		quarters := snapshot[record.Year]
		q1, okQ1 := quarters[data.Q1]
		q2, okQ2 := quarters[data.Q2]
		q3, okQ3 := quarters[data.Q3]
		if !okQ1 || !okQ2 || !okQ3 {
			// documented limitation: without all three preceding
			// quarters the cumulative figure passes through
			continue
		}

		for _, key := range data.IncomeKeys() {
			annual := record.Account(key)
			if annual == nil || q1[key] == nil || q2[key] == nil || q3[key] == nil {
				record.SetAccount(key, nil)
				continue
			}

			record.SetAccount(key, data.Float(*annual-*q1[key]-*q2[key]-*q3[key]))
		}
	}
}
