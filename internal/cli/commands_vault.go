// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-secure-vault/internal/adapter"
	"github.com/MKhiriev/go-secure-vault/internal/service"
	"github.com/MKhiriev/go-secure-vault/internal/tui"
	"github.com/MKhiriev/go-secure-vault/models"
)

var writeClipboard = clipboard.WriteAll

var unlockField = tui.Field{Label: "Vault password"}

// blobInput is the --data / --file pair of create and update.
type blobInput struct {
	data   string
	file   string
	format string
}

func (b *blobInput) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&b.data, "data", "d", "", "Blob content")
	cmd.Flags().StringVarP(&b.file, "file", "f", "", "Read the blob from a file ('-' for stdin)")
	cmd.Flags().StringVar(&b.format, "format", "raw", "Blob format label stored with the vault")
}

func (c *CLI) readBlob(b *blobInput) ([]byte, error) {
	switch {
	case b.data != "" && b.file != "":
		return nil, ErrTooManyBlobInput
	case b.data != "":
		return []byte(b.data), nil
	case b.file == "-":
		if c.passwordStdin {
			return nil, ErrStdinInUse
		}
		return io.ReadAll(c.opts.In)
	case b.file != "":
		return os.ReadFile(b.file)
	}
	return nil, ErrNoBlobInput
}

func (c *CLI) createCommand() *cobra.Command {
	var (
		input  blobInput
		proofs []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			blob, err := c.readBlob(&input)
			if err != nil {
				return err
			}
			defer memguard.WipeBytes(blob)

			if err = c.ensureRegistered(ctx); err != nil {
				return err
			}
			key, passwords, release, err := c.credentials(ctx, "Unlock vault", unlockField)
			if err != nil {
				return err
			}
			defer release()

			meta, err := service.Await(ctx, func(done service.Completion[models.VaultMetadata]) error {
				return c.client().CreateVault(ctx, key, passwords[0], blob, input.format, proofs, done)
			})
			if err != nil {
				return err
			}

			c.print(tui.RenderMetadata(meta))
			return nil
		},
	}
	input.register(cmd)
	cmd.Flags().StringSliceVar(&proofs, "proof", nil, "Ownership proof token (repeatable)")
	return cmd
}

func (c *CLI) getCommand() *cobra.Command {
	var copyBlob bool

	cmd := &cobra.Command{
		Use:   "get <vault-id>",
		Short: "Fetch and decrypt a vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.ensureRegistered(ctx); err != nil {
				return err
			}
			key, passwords, release, err := c.credentials(ctx, "Unlock vault", unlockField)
			if err != nil {
				return err
			}
			defer release()

			vault, err := service.Await(ctx, func(done service.Completion[*models.Vault]) error {
				return c.client().GetVault(ctx, key, passwords[0], args[0], done)
			})
			if err != nil {
				return err
			}
			if vault == nil {
				return fmt.Errorf("%w: %s", ErrVaultNotFound, args[0])
			}
			defer memguard.WipeBytes(vault.Blob)

			if copyBlob {
				if err = writeClipboard(string(vault.Blob)); err != nil {
					return fmt.Errorf("error copying to clipboard: %w", err)
				}
				c.print(tui.RenderMetadata(vault.VaultMetadata))
				c.print("blob copied to clipboard\n")
				return nil
			}

			c.print(tui.RenderVault(*vault))
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyBlob, "copy", false, "Copy the blob to the clipboard instead of printing it")
	return cmd
}

func (c *CLI) updateCommand() *cobra.Command {
	var (
		input   blobInput
		version int
	)

	cmd := &cobra.Command{
		Use:   "update <vault-id>",
		Short: "Replace the blob of a vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			blob, err := c.readBlob(&input)
			if err != nil {
				return err
			}
			defer memguard.WipeBytes(blob)

			if err = c.ensureRegistered(ctx); err != nil {
				return err
			}
			key, passwords, release, err := c.credentials(ctx, "Unlock vault", unlockField)
			if err != nil {
				return err
			}
			defer release()

			meta, err := service.Await(ctx, func(done service.Completion[models.VaultMetadata]) error {
				return c.client().UpdateVault(ctx, key, passwords[0], args[0], version, blob, input.format, done)
			})
			if err != nil {
				return err
			}

			c.print(tui.RenderMetadata(meta))
			return nil
		},
	}
	input.register(cmd)
	cmd.Flags().IntVar(&version, "version", 0, "Version the update is based on")
	_ = cmd.MarkFlagRequired("version")
	return cmd
}

func (c *CLI) deleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <vault-id>",
		Short: "Delete a vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.confirm(ctx, yes, fmt.Sprintf("Delete vault %s?", args[0])); err != nil {
				return err
			}

			meta, err := service.Await(ctx, func(done service.Completion[models.VaultMetadata]) error {
				return c.client().DeleteVault(ctx, args[0], done)
			})
			if err != nil {
				return err
			}

			c.print(fmt.Sprintf("deleted vault %s (version %d)\n", meta.ID, meta.Version))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (c *CLI) listCommand() *cobra.Command {
	var showContent bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List and decrypt every vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := c.ensureRegistered(ctx); err != nil {
				return err
			}
			key, passwords, release, err := c.credentials(ctx, "Unlock vaults", unlockField)
			if err != nil {
				return err
			}
			defer release()

			vaults, err := service.Await(ctx, func(done service.Completion[[]models.Vault]) error {
				return c.client().ListVaults(ctx, key, passwords[0], done)
			})
			if err != nil {
				return err
			}
			defer func() {
				for _, v := range vaults {
					memguard.WipeBytes(v.Blob)
				}
			}()

			if !showContent {
				metadata := make([]models.VaultMetadata, 0, len(vaults))
				for _, v := range vaults {
					metadata = append(metadata, v.VaultMetadata)
				}
				c.print(tui.RenderMetadataTable(metadata))
				return nil
			}

			for i, v := range vaults {
				if i > 0 {
					c.print("\n")
				}
				c.print(tui.RenderVault(v))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showContent, "show-content", false, "Print the decrypted blobs")
	return cmd
}

func (c *CLI) listMetadataCommand() *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "list-metadata",
		Short: "List vault metadata without decrypting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			policy := adapter.FetchIgnoringCacheData
			if cached {
				policy = adapter.ReturnCacheDataDontFetch
			}

			metadata, err := service.Await(ctx, func(done service.Completion[[]models.VaultMetadata]) error {
				return c.client().ListVaultsMetadataOnlyWithPolicy(ctx, policy, done)
			})
			if err != nil {
				return err
			}

			c.print(tui.RenderMetadataTable(metadata))
			return nil
		},
	}
	cmd.Flags().BoolVar(&cached, "cached", false, "Answer from the response cache only")
	return cmd
}

func (c *CLI) watchCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print vault metadata changes until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if interval <= 0 {
				interval = c.cfg.Workers.WatchInterval
			}

			watcher := c.services.Watcher
			watcher.Start(ctx, interval, func(changes models.VaultChanges) {
				c.print(tui.RenderChanges(time.Now(), changes))
			})
			defer watcher.Stop()

			c.log.Info().Dur("interval", interval).Msg("watching vault metadata")
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "Poll interval (defaults to the configured watch interval)")
	return cmd
}
