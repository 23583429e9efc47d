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
package corpcode

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// LoadCacheFromDB fills the in-memory map from previously persisted
// corp codes so a fresh download is not needed on every run.
func LoadCacheFromDB(ctx context.Context, pool *pgxpool.Pool) {
	rows, err := pool.Query(ctx, "SELECT corp_code, corp_name, stock_code, modify_date FROM corp_codes WHERE stock_code <> ''")
	if err != nil {
		log.Error().Err(err).Msg("could not query corp codes from database")
		return
	}

	var entries []*Entry
	if err := pgxscan.ScanAll(&entries, rows); err != nil {
		log.Error().Err(err).Msg("error when scanning values into corp code entries")
		return
	}

	load(entries)
}

// SaveToDB upserts the corp-code index.
func SaveToDB(ctx context.Context, pool *pgxpool.Pool, entries []*Entry) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	for _, entry := range entries {
		_, err := conn.Exec(ctx, `INSERT INTO corp_codes (corp_code, corp_name, stock_code, modify_date)
VALUES ($1, $2, $3, $4)
ON CONFLICT (corp_code) DO UPDATE SET corp_name=$2, stock_code=$3, modify_date=$4`,
			entry.CorpCode, entry.CorpName, entry.StockCode, entry.ModifyDate)
		if err != nil {
			return err
		}
	}

	return nil
}
