// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/bootstrap"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/config"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/database"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
)

func newDatabaseCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newInitDBCommand(ctx),
		newSeedCommand(ctx, "seed", "Insert the small smoke-test dataset", database.SeedSmall, true),
		newSeedCommand(ctx, "seed-search", "Insert the search demo dataset", database.SeedSearch, false),
		newSeedFullCommand(ctx),
		newCreateUserCommand(ctx),
	}
}

func newInitDBCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDB(func(cfg *config.Config, _ *database.DB) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Database ready at %s.\n", cfg.Database.Path)
				return nil
			})
		},
	}
}

// newSeedCommand builds a seeding command. clearByDefault decides whether
// existing series are wiped unless --no-clear or --clear says otherwise.
func newSeedCommand(ctx *commandContext, use, short string, data []models.SeriesCreate, clearByDefault bool) *cobra.Command {
	var noClear, clear bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			wipe := clearByDefault
			if noClear {
				wipe = false
			}
			if clear {
				wipe = true
			}
			return ctx.withDB(func(_ *config.Config, db *database.DB) error {
				n, err := db.Seed(cmd.Context(), data, wipe)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seed data inserted (%d series).\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noClear, "no-clear", false, "Keep existing series")
	cmd.Flags().BoolVar(&clear, "clear", false, "Wipe existing series first")
	return cmd
}

func newSeedFullCommand(ctx *commandContext) *cobra.Command {
	var (
		noClear       bool
		adminUsername string
		adminPassword string
		adminRole     string
	)

	cmd := &cobra.Command{
		Use:   "seed-full",
		Short: "Insert the full demo dataset and an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDB(func(_ *config.Config, db *database.DB) error {
				n, err := db.Seed(cmd.Context(), database.SeedFull, !noClear)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				created, err := bootstrap.EnsureAccount(cmd.Context(), db, adminUsername, adminPassword, adminRole)
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(out, "Created user '%s' with role '%s'.\n", adminUsername, adminRole)
				} else {
					fmt.Fprintf(out, "User '%s' already exists.\n", adminUsername)
				}
				fmt.Fprintf(out, "Full seed data inserted (%d series).\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noClear, "no-clear", false, "Keep existing series")
	cmd.Flags().StringVar(&adminUsername, "admin-username", "admin", "Admin username to create if missing")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "admin-pass", "Admin password")
	cmd.Flags().StringVar(&adminRole, "admin-role", models.RoleAdmin, "Role for the admin user")
	return cmd
}

func newCreateUserCommand(ctx *commandContext) *cobra.Command {
	var username, password, role string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account with the given role",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDB(func(_ *config.Config, db *database.DB) error {
				created, err := bootstrap.EnsureAccount(cmd.Context(), db, username, password, role)
				if err != nil {
					return err
				}
				if !created {
					return fmt.Errorf("user '%s' already exists", username)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user '%s' with role '%s'.\n", username, role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Username for the new account")
	cmd.Flags().StringVar(&password, "password", "", "Plaintext password to hash")
	cmd.Flags().StringVar(&role, "role", models.RoleViewer, "Role: admin, worker or viewer")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
