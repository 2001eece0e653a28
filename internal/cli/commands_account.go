// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-secure-vault/internal/service"
	"github.com/MKhiriev/go-secure-vault/internal/tui"
	"github.com/MKhiriev/go-secure-vault/models"
)

func (c *CLI) keygenCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "keygen",
		Short:       "Generate the key-deriving key",
		Long:        "Generate a random key-deriving key and store it in --key-file. Losing it makes every vault unreadable.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationOffline: "true"},
		RunE: func(*cobra.Command, []string) error {
			if err := writeKeyFile(c.opts.Keys, c.keyFile, force); err != nil {
				return err
			}
			c.print(fmt.Sprintf("key written to %s\n", c.keyFile))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing key file")
	return cmd
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationOffline: "true"},
		Run: func(*cobra.Command, []string) {
			c.print(tui.RenderBuildInfo(c.opts.BuildInfo))
		},
	}
}

func (c *CLI) registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create the vault user of the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			key, passwords, release, err := c.credentials(ctx, "Choose a vault password",
				tui.Field{Label: "Password"},
				tui.Field{Label: "Repeat password", Repeat: true},
			)
			if err != nil {
				return err
			}
			defer release()

			uid, err := service.Await(ctx, func(done service.Completion[string]) error {
				return c.client().Register(ctx, key, passwords[0], done)
			})
			if err != nil {
				return err
			}

			c.print(fmt.Sprintf("registered vault user %s\n", uid))
			return nil
		},
	}
}

func (c *CLI) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the signed-in user is registered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			data, err := service.Await(ctx, func(done service.Completion[*models.InitializationData]) error {
				return c.client().GetInitializationData(ctx, done)
			})
			if err != nil {
				return err
			}

			if data == nil {
				c.print("not registered\n")
				return nil
			}
			c.print(fmt.Sprintf("registered as %s (pbkdf rounds %d)\n", data.Owner, data.PbkdfRounds))
			return nil
		},
	}
}

func (c *CLI) changePasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "change-password",
		Short: "Change the vault password and re-encrypt every vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := c.ensureRegistered(ctx); err != nil {
				return err
			}

			key, passwords, release, err := c.credentials(ctx, "Change vault password",
				tui.Field{Label: "Current password"},
				tui.Field{Label: "New password"},
				tui.Field{Label: "Repeat new password", Repeat: true},
			)
			if err != nil {
				return err
			}
			defer release()

			migrated, err := service.Await(ctx, func(done service.Completion[[]models.VaultMetadata]) error {
				return c.client().ChangeVaultPassword(ctx, key, passwords[0], passwords[1], done)
			})
			if err != nil {
				return err
			}

			c.print(fmt.Sprintf("password changed, %d vault(s) re-encrypted\n", len(migrated)))
			if len(migrated) > 0 {
				c.print(tui.RenderMetadataTable(migrated))
			}
			return nil
		},
	}
}

func (c *CLI) deregisterCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "deregister",
		Short: "Delete the vault user and all of its vaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := c.confirm(ctx, yes, "Delete the vault user and every vault it owns?"); err != nil {
				return err
			}

			username, err := service.Await(ctx, func(done service.Completion[string]) error {
				return c.client().Deregister(ctx, done)
			})
			if err != nil {
				return err
			}

			c.print(fmt.Sprintf("deregistered %s\n", username))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (c *CLI) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the cached responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.client().Reset(cmd.Context()); err != nil {
				return err
			}
			c.print("client state cleared\n")
			return nil
		},
	}
}
