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

	"github.com/dart-vault/dartdata/dart"
	"github.com/dart-vault/dartdata/data"
	"github.com/dart-vault/dartdata/provisional"
)

// DartSource adapts the DART client and the provisional fetcher to the
// pipeline's Source interface.
type DartSource struct {
	Client       *dart.Client
	Provisionals *provisional.Fetcher
}

// NewDartSource wires a pipeline source over a single DART client.
func NewDartSource(client *dart.Client) *DartSource {
	return &DartSource{
		Client:       client,
		Provisionals: provisional.NewFetcher(client),
	}
}

func (s *DartSource) Financials(ctx context.Context, corpCode string, year int, code data.ReportCode) ([]data.RawLineItem, error) {
	return s.Client.Financials(ctx, corpCode, year, code)
}

func (s *DartSource) Provisional(ctx context.Context, corpCode string, year int, quarter data.Quarter) (*data.FinancialRecord, error) {
	return s.Provisionals.Fetch(ctx, corpCode, year, quarter)
}
