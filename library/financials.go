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
package library

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/dart-vault/dartdata/data"
)

// SaveFinancials upserts every record of a pipeline response. Records
// are keyed by (corp, mode, year, quarter) so re-running a fetch
// refreshes the stored series in place.
func (myLibrary *Library) SaveFinancials(ctx context.Context, response *data.FinancialResponse) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	for _, record := range response.Data {
		_, err := conn.Exec(ctx, `INSERT INTO financial_records (
	corp_code, mode, year, quarter, report_code, label,
	revenue, operating_profit, net_income,
	total_assets, total_liabilities, total_equity,
	is_provisional, fetched_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (corp_code, mode, year, quarter) DO UPDATE SET
	report_code=$5, label=$6, revenue=$7, operating_profit=$8,
	net_income=$9, total_assets=$10, total_liabilities=$11,
	total_equity=$12, is_provisional=$13, fetched_at=$14`,
			response.CorpCode, response.Mode, record.Year, record.Quarter,
			record.ReportCode, record.Label,
			record.Revenue, record.OperatingProfit, record.NetIncome,
			record.TotalAssets, record.TotalLiabilities, record.TotalEquity,
			record.IsProvisional, time.Now())
		if err != nil {
			return err
		}
	}

	return nil
}

// Financials loads the stored series for one corp and mode, oldest
// first.
func (myLibrary *Library) Financials(ctx context.Context, corpCode string, mode data.Mode) ([]*data.FinancialRecord, error) {
	rows, err := myLibrary.Pool.Query(ctx, `SELECT
	year, quarter, report_code, label,
	revenue, operating_profit, net_income,
	total_assets, total_liabilities, total_equity,
	is_provisional
FROM financial_records
WHERE corp_code=$1 AND mode=$2
ORDER BY year, CASE WHEN quarter='' THEN 4 WHEN quarter='1Q' THEN 1 WHEN quarter='2Q' THEN 2 WHEN quarter='3Q' THEN 3 ELSE 4 END`,
		corpCode, mode)
	if err != nil {
		return nil, err
	}

	var records []*data.FinancialRecord
	if err := pgxscan.ScanAll(&records, rows); err != nil {
		return nil, err
	}

	return records, nil
}

// SaveRunSummary stores one pipeline run.
func (myLibrary *Library) SaveRunSummary(ctx context.Context, summary *data.RunSummary) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `INSERT INTO pipeline_runs (id, corp_code, mode, start_time, end_time, num_records, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		summary.ID, summary.CorpCode, summary.Mode, summary.StartTime,
		summary.EndTime, summary.NumRecords, summary.Status)
	return err
}

// RecentRuns returns the newest pipeline runs, most recent first.
func (myLibrary *Library) RecentRuns(ctx context.Context, limit int) ([]*data.RunSummary, error) {
	rows, err := myLibrary.Pool.Query(ctx, `SELECT id, corp_code, mode, start_time, end_time, num_records, status
FROM pipeline_runs ORDER BY end_time DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}

	var runs []*data.RunSummary
	if err := pgxscan.ScanAll(&runs, rows); err != nil {
		return nil, err
	}

	return runs, nil
}
