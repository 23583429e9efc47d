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
	"slices"
	"strconv"

	"github.com/dart-vault/dartdata/data"
)

// selectStatement applies the all-or-nothing statement preference: every
// consolidated (CFS) item when any exist, otherwise every separate (OFS)
// item. The two are never mixed within one formatted result.
func selectStatement(items []data.RawLineItem) []data.RawLineItem {
	var consolidated, separate []data.RawLineItem

	for _, item := range items {
		switch item.FsDiv {
		case data.FsConsolidated:
			consolidated = append(consolidated, item)
		case data.FsSeparate:
			separate = append(separate, item)
		}
	}

	if len(consolidated) > 0 {
		return consolidated
	}

	return separate
}

// groupByYear fans a filing's three simultaneous periods (current, prior,
// two-priors) out into sparse per-year account maps. The base fiscal year
// is inferred from the first selected item. Unmapped line-item labels are
// silently dropped; the first value seen for a (year, account) pair wins.
func groupByYear(items []data.RawLineItem) map[int]map[data.AccountKey]*float64 {
	if len(items) == 0 {
		return nil
	}

	baseYear, err := strconv.Atoi(items[0].BsnsYear)
	if err != nil {
		return nil
	}

	amounts := make(map[int]map[data.AccountKey]*float64, 3)

	set := func(year int, key data.AccountKey, raw string) {
		value := data.ParseAmount(raw)
		if value == nil {
			return
		}

		if amounts[year] == nil {
			amounts[year] = make(map[data.AccountKey]*float64)
		}

		if _, ok := amounts[year][key]; !ok {
			amounts[year][key] = value
		}
	}

	for _, item := range items {
		key, ok := data.FindAccountKey(item.AccountNm)
		if !ok {
			continue
		}

		set(baseYear, key, item.ThstrmAmount)
		set(baseYear-1, key, item.FrmtrmAmount)
		set(baseYear-2, key, item.BfefrmtrmAmount)
	}

	return amounts
}

func buildRecord(year int, quarter data.Quarter, code data.ReportCode, accounts map[data.AccountKey]*float64) *data.FinancialRecord {
	record := &data.FinancialRecord{
		Year:       year,
		Quarter:    quarter,
		ReportCode: code,
		Label:      data.RecordLabel(year, quarter),
	}

	for key, value := range accounts {
		record.SetAccount(key, value)
	}

	return record
}

// FormatYearlyFinancials turns one annual filing's line items into up to
// three per-year records (the filing reports the base year and the two
// preceding years). Records carry no quarter and are sorted descending
// by year. An empty or unusable batch yields an empty slice.
func FormatYearlyFinancials(items []data.RawLineItem, code data.ReportCode) []*data.FinancialRecord {
	amounts := groupByYear(selectStatement(items))

	records := make([]*data.FinancialRecord, 0, len(amounts))
	for year, accounts := range amounts {
		records = append(records, buildRecord(year, "", code, accounts))
	}

	slices.SortFunc(records, func(a, b *data.FinancialRecord) int {
		return b.Year - a.Year
	})

	return records
}

// FormatQuarterlyFinancial turns one filing's line items into the single
// record for the filing's base fiscal year, with the report code's
// quarter attached. It returns nil when no line items matched after
// statement selection.
func FormatQuarterlyFinancial(items []data.RawLineItem, code data.ReportCode) *data.FinancialRecord {
	selected := selectStatement(items)
	amounts := groupByYear(selected)
	if len(amounts) == 0 {
		return nil
	}

	baseYear, err := strconv.Atoi(selected[0].BsnsYear)
	if err != nil {
		return nil
	}

	accounts, ok := amounts[baseYear]
	if !ok {
		return nil
	}

	return buildRecord(baseYear, code.Quarter(), code, accounts)
}
