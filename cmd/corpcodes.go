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
package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dart-vault/dartdata/corpcode"
	"github.com/dart-vault/dartdata/library"
)

// corpcodesCmd represents the corpcodes command
var corpcodesCmd = &cobra.Command{
	Use:   "corpcodes",
	Short: "Refresh the stock-code to corp-code index",
	Long: `DART addresses companies by an 8-digit corp code rather than the exchange
stock code. The corpcodes sub-command downloads the regulator's full company
index and stores it in the data library so fetch can resolve stock codes.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		apiKey := viper.GetString("dart.api_key")
		if apiKey == "" {
			log.Fatal().Msg("dart.api_key is not configured")
		}

		entries, err := corpcode.Download(ctx, apiKey)
		if err != nil {
			log.Fatal().Err(err).Msg("could not download corp code index")
		}

		dbURL := viper.GetString("db.url")
		if dbURL == "" {
			log.Warn().Msg("db.url is not configured, corp codes were not persisted")
			return
		}

		myLibrary, err := library.NewFromDB(ctx, dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to library")
		}
		defer myLibrary.Close()

		if err := corpcode.SaveToDB(ctx, myLibrary.Pool, entries); err != nil {
			log.Fatal().Err(err).Msg("could not save corp codes to library")
		}

		log.Info().Int("Count", len(entries)).Msg("corp code index saved")
	},
}

func init() {
	rootCmd.AddCommand(corpcodesCmd)
}
