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

// quarterlyWindow is the number of periodic reports walked backward from
// the most recently published one.
const quarterlyWindow = 8

// reportTarget anchors one structured-filing fetch.
type reportTarget struct {
	year int
	code data.ReportCode
}

// latestPublishedReport returns the periodic report most recently
// published as of now. DART publication months: 1Q reports around May,
// half-year around August, 3Q around November, and the annual report
// around March of the following year covering the prior year.
func latestPublishedReport(now time.Time) reportTarget {
	year, month := now.Year(), now.Month()

	switch {
	case month >= time.November:
		return reportTarget{year: year, code: data.ReportQ3}
	case month >= time.August:
		return reportTarget{year: year, code: data.ReportHalf}
	case month >= time.May:
		return reportTarget{year: year, code: data.ReportQ1}
	case month >= time.March:
		return reportTarget{year: year - 1, code: data.ReportAnnual}
	default:
		return reportTarget{year: year - 1, code: data.ReportQ3}
	}
}

// previousReport steps one periodic report backward in publication order.
func previousReport(target reportTarget) reportTarget {
	switch target.code {
	case data.ReportQ1:
		return reportTarget{year: target.year - 1, code: data.ReportAnnual}
	case data.ReportAnnual:
		return reportTarget{year: target.year, code: data.ReportQ3}
	case data.ReportQ3:
		return reportTarget{year: target.year, code: data.ReportHalf}
	default:
		return reportTarget{year: target.year, code: data.ReportQ1}
	}
}

// recentReportTargets lists the quarterlyWindow most recent (year,
// report code) pairs, newest first.
func recentReportTargets(now time.Time) []reportTarget {
	targets := make([]reportTarget, 0, quarterlyWindow)

	target := latestPublishedReport(now)
	for len(targets) < quarterlyWindow {
		targets = append(targets, target)
		target = previousReport(target)
	}

	return targets
}

// Quarterly produces the per-quarter time series for one corp: the eight
// most recent periodic reports fetched in parallel, annual cumulative
// figures converted to standalone 4Q values, and a provisional
// disclosure covering the quarter no official filing exists for yet.
func (p *Pipeline) Quarterly(ctx context.Context, corpCode string) (*data.FinancialResponse, error) {
	logger := zerolog.Ctx(ctx)

	targets := recentReportTargets(p.now())

	formatted := make([]*data.FinancialRecord, len(targets))
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)

		go func(i int, target reportTarget) {
			defer wg.Done()

			items, err := p.source.Financials(ctx, corpCode, target.year, target.code)
			if err != nil {
				errs[i] = err
				return
			}

			formatted[i] = FormatQuarterlyFinancial(items, target.code)
		}(i, target)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	records := make([]*data.FinancialRecord, 0, len(formatted))
	for _, record := range formatted {
		if record != nil {
			records = append(records, record)
		}
	}

	sortChronological(records)

	// conversion runs before the provisional fallback is added so the
	// quarter snapshot sees only authoritative values
	ConvertCumulativeToStandalone(records)

	if len(records) > 0 {
		newest := records[len(records)-1]
		provYear, provQuarter := newest.Quarter.Next(newest.Year)

		provisional, err := p.source.Provisional(ctx, corpCode, provYear, provQuarter)
		switch {
		case err != nil:
			logger.Warn().Err(err).Str("CorpCode", corpCode).Int("Year", provYear).
				Str("Quarter", string(provQuarter)).Msg("provisional fallback failed, continuing without it")
		case provisional != nil:
			records = append(records, provisional)
			sortChronological(records)
		}
	}

	return &data.FinancialResponse{
		CorpCode: corpCode,
		Mode:     data.ModeQuarterly,
		Data:     records,
	}, nil
}
