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
package data

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
)

// RunSummary describes one execution of the financial pipeline for a
// single corporation.
type RunSummary struct {
	ID         uuid.UUID `db:"id"`
	CorpCode   string    `db:"corp_code"`
	Mode       Mode      `db:"mode"`
	StartTime  time.Time `db:"start_time"`
	EndTime    time.Time `db:"end_time"`
	NumRecords int       `db:"num_records"`
	Status     RunStatus `db:"status"`
}

// NewRunSummary starts a summary for a pipeline run.
func NewRunSummary(corpCode string, mode Mode) *RunSummary {
	return &RunSummary{
		ID:        uuid.New(),
		CorpCode:  corpCode,
		Mode:      mode,
		StartTime: time.Now(),
		Status:    RunSuccess,
	}
}

// Finish records the end time and final record count.
func (rs *RunSummary) Finish(numRecords int) {
	rs.EndTime = time.Now()
	rs.NumRecords = numRecords
}
