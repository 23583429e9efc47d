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
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dart-vault/dartdata/data"
)

// maxYearlyRecords caps the number of authoritative annual records kept
// before the provisional fallback is spliced in.
const maxYearlyRecords = 6

// latestAnnualYear returns the most recent fiscal year whose annual
// report has been filed. Annual reports for year Y arrive around March
// of Y+1, so before April the newest available report covers Y-2.
func latestAnnualYear(now time.Time) int {
	if now.Month() >= time.April {
		return now.Year() - 1
	}

	return now.Year() - 2
}

// Yearly produces the annual time series for one corp. Two annual-report
// fetches anchored three years apart cover six distinct fiscal years
// through the API's three-period response shape; a provisional
// disclosure fills in the year whose annual report does not exist yet.
func (p *Pipeline) Yearly(ctx context.Context, corpCode string) (*data.FinancialResponse, error) {
	logger := zerolog.Ctx(ctx)

	latest := latestAnnualYear(p.now())
	anchors := []int{latest, latest - 3}

	batches := make([][]*data.FinancialRecord, len(anchors))
	errs := make([]error, len(anchors))

	var wg sync.WaitGroup
	for i, year := range anchors {
		wg.Add(1)

		go func(i, year int) {
			defer wg.Done()

			items, err := p.source.Financials(ctx, corpCode, year, data.ReportAnnual)
			if err != nil {
				errs[i] = err
				return
			}

			batches[i] = FormatYearlyFinancials(items, data.ReportAnnual)
		}(i, year)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	// merge the two windows by year; on collision the record with the
	// higher report code wins so the outcome stays deterministic
	merged := make(map[int]*data.FinancialRecord, maxYearlyRecords)
	for _, batch := range batches {
		for _, record := range batch {
			existing, ok := merged[record.Year]
			if !ok || record.ReportCode > existing.ReportCode {
				merged[record.Year] = record
			}
		}
	}

	records := make([]*data.FinancialRecord, 0, len(merged))
	for _, record := range merged {
		records = append(records, record)
	}

	sortChronological(records)

	if len(records) > maxYearlyRecords {
		records = records[len(records)-maxYearlyRecords:]
	}

	// the year after the newest annual report has no official filing
	// yet; a provisional earnings disclosure stands in when available
	provisional, err := p.source.Provisional(ctx, corpCode, latest+1, data.Q4)
	switch {
	case err != nil:
		logger.Warn().Err(err).Str("CorpCode", corpCode).Int("Year", latest+1).
			Msg("provisional fallback failed, continuing without it")
	case provisional != nil:
		provisional.Quarter = ""
		provisional.Label = data.RecordLabel(provisional.Year, "")
		records = append(records, provisional)
		sortChronological(records)
	}

	return &data.FinancialResponse{
		CorpCode: corpCode,
		Mode:     data.ModeYearly,
		Data:     records,
	}, nil
}
