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
	"errors"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dart-vault/dartdata/db"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Bring an existing data library schema up to date",
	Run: func(cmd *cobra.Command, args []string) {
		dbURL := viper.GetString("db.url")
		if dbURL == "" {
			log.Fatal().Msg("db.url is not configured")
		}

		dbURL = strings.Replace(dbURL, "postgres://", "pgx5://", -1)
		if err := db.Migrate(dbURL); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("error running database migration")
		}

		log.Info().Msg("database schema is up to date")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
