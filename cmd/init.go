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
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dart-vault/dartdata/db"
	"github.com/dart-vault/dartdata/library"
)

var (
	initName  string
	initOwner string
	initDBUrl string
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema and save connection settings",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myLibrary := &library.Library{
			Name:  initName,
			Owner: initOwner,
			DBUrl: initDBUrl,
		}

		if _, err := pgx.ParseConfig(myLibrary.DBUrl); err != nil {
			log.Fatal().Err(err).Msg("database DSN is not valid")
		}

		log.Info().Msg("creating database tables")

		// run migration
		dbURL := strings.Replace(myLibrary.DBUrl, "postgres://", "pgx5://", -1)
		err := db.Migrate(dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("error running database migration")
		}

		log.Info().Msg("database tables created")
		log.Info().Msg("Saving library name and owner to database")

		// save library name and owner to database
		if err := myLibrary.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer myLibrary.Close()

		err = myLibrary.SaveDB(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("error saving library settings to database")
		}

		// save database settings to config file
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("could not determine user home directory")
		}

		configFN := filepath.Join(home, ".dartdata.toml")
		log.Info().Str("ConfigFile", configFN).Msg("Saving database connection info to config file")
		configData, err := toml.Marshal(myLibrary)
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration data")
		}

		err = os.WriteFile(configFN, configData, 0644)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration to file")
		}

		log.Info().Msg("Your data library has been initialized")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initName, "name", "dart data library", "name for the data library")
	initCmd.Flags().StringVar(&initOwner, "owner", "", "who owns the library")
	initCmd.Flags().StringVar(&initDBUrl, "db", "", "PostgreSQL DSN (postgres://[user[:password]@][netloc][:port][/dbname])")

	if err := initCmd.MarkFlagRequired("db"); err != nil {
		log.Panic().Err(err).Msg("MarkFlagRequired for db failed")
	}
}
