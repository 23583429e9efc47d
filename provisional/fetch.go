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
package provisional

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dart-vault/dartdata/dart"
	"github.com/dart-vault/dartdata/data"
)

// reportNameMarker identifies provisional performance disclosures in the
// filing list (영업(잠정)실적 and variants).
const reportNameMarker = "잠정실적"

// correctionMarker prefixes re-filed corrections (기재정정).
const correctionMarker = "기재정정"

// searchWindowMonths bounds the disclosure search after the period end.
// Provisional announcements arrive within weeks of the quarter closing.
const searchWindowMonths = 4

// Fetcher locates and parses the provisional earnings disclosure for a
// target period.
type Fetcher struct {
	client *dart.Client
}

func NewFetcher(client *dart.Client) *Fetcher {
	return &Fetcher{client: client}
}

// quarterEnd returns the last day of the quarter.
func quarterEnd(year int, quarter data.Quarter) time.Time {
	firstOfLastMonth := time.Date(year, time.Month(quarter.Order()*3), 1, 0, 0, 0, 0, time.UTC)
	return firstOfLastMonth.AddDate(0, 1, -1)
}

// Fetch searches DART exchange filings for a provisional performance
// disclosure covering (year, quarter), downloads candidates newest
// first, and returns the first one that parses to the target period.
// Candidates are walked sequentially with an early return so no
// download is wasted once a match is found. A nil record with a nil
// error means no usable disclosure exists.
func (f *Fetcher) Fetch(ctx context.Context, corpCode string, year int, quarter data.Quarter) (*data.FinancialRecord, error) {
	logger := zerolog.Ctx(ctx)

	begin := quarterEnd(year, quarter)
	end := begin.AddDate(0, searchWindowMonths, 0)

	disclosures, err := f.client.Disclosures(ctx, corpCode, begin, end)
	if err != nil {
		return nil, err
	}

	candidates := make([]dart.Disclosure, 0, len(disclosures))
	for _, disclosure := range disclosures {
		if strings.Contains(disclosure.ReportNm, reportNameMarker) {
			candidates = append(candidates, disclosure)
		}
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	// newest first; a same-day correction outranks the original filing
	slices.SortFunc(candidates, func(a, b dart.Disclosure) int {
		if a.RceptDt != b.RceptDt {
			return strings.Compare(b.RceptDt, a.RceptDt)
		}

		aCorrection := strings.Contains(a.ReportNm, correctionMarker)
		bCorrection := strings.Contains(b.ReportNm, correctionMarker)
		switch {
		case aCorrection && !bCorrection:
			return -1
		case bCorrection && !aCorrection:
			return 1
		}

		return 0
	})

	// one candidate per received date, keeping the preferred entry
	seen := make(map[string]bool, len(candidates))
	deduped := candidates[:0]
	for _, candidate := range candidates {
		if seen[candidate.RceptDt] {
			continue
		}

		seen[candidate.RceptDt] = true
		deduped = append(deduped, candidate)
	}

	for _, candidate := range deduped {
		archive, err := f.client.Document(ctx, candidate.RceptNo)
		if err != nil {
			logger.Warn().Err(err).Str("RceptNo", candidate.RceptNo).
				Msg("could not download provisional disclosure, trying next candidate")
			continue
		}

		record := Parse(archive)
		if record == nil {
			logger.Debug().Str("RceptNo", candidate.RceptNo).Msg("provisional disclosure did not parse")
			continue
		}

		if record.Year == year && record.Quarter == quarter {
			return record, nil
		}

		logger.Debug().Str("RceptNo", candidate.RceptNo).Int("Year", record.Year).
			Str("Quarter", string(record.Quarter)).Msg("provisional disclosure covers a different period")
	}

	return nil, nil
}
