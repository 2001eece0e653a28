// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-secure-vault/internal/config"
	"github.com/MKhiriev/go-secure-vault/internal/crypto"
	"github.com/MKhiriev/go-secure-vault/internal/logger"
	"github.com/MKhiriev/go-secure-vault/internal/service"
	"github.com/MKhiriev/go-secure-vault/internal/tui"
	"github.com/MKhiriev/go-secure-vault/models"
)

const (
	flagKeyFile       = "key-file"
	flagPasswordStdin = "password-stdin"

	// annotationOffline marks commands that run without configuration.
	annotationOffline = "vaultctl/offline"
)

// Options are the process-level inputs of the command tree. Zero values
// fall back to the real terminal and collaborators.
type Options struct {
	BuildInfo models.AppBuildInfo

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Prompter overrides the interactive terminal prompts.
	Prompter Prompter
	Connect  ConnectFunc
	Keys     crypto.KeyManager
}

// CLI owns the command tree and whatever the running command connected.
type CLI struct {
	opts Options

	keyFile       string
	passwordStdin bool

	cfg      *config.ClientConfig
	log      *logger.Logger
	services *service.ClientServices
	closers  []io.Closer
	stdin    *stdinPasswords
}

func New(opts Options) *CLI {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Connect == nil {
		opts.Connect = Connect
	}
	if opts.Keys == nil {
		opts.Keys = crypto.NewKeyManager()
	}
	return &CLI{opts: opts, log: logger.Nop()}
}

// Command builds the vaultctl command tree.
func (c *CLI) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "vaultctl",
		Short:         "Client for the secure vault service",
		Long:          "vaultctl stores client-side encrypted blobs in the secure vault service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationOffline] != "" {
				return nil
			}
			return c.connect(cmd)
		},
	}
	root.SetIn(c.opts.In)
	root.SetOut(c.opts.Out)
	root.SetErr(c.opts.Err)

	pf := root.PersistentFlags()
	config.RegisterFlags(pf)
	pf.StringVar(&c.keyFile, flagKeyFile, defaultKeyFile(), "File holding the key-deriving key")
	pf.BoolVar(&c.passwordStdin, flagPasswordStdin, false, "Read passwords from stdin, one per line")

	root.AddCommand(
		c.keygenCommand(),
		c.versionCommand(),
		c.registerCommand(),
		c.statusCommand(),
		c.createCommand(),
		c.getCommand(),
		c.updateCommand(),
		c.deleteCommand(),
		c.listCommand(),
		c.listMetadataCommand(),
		c.changePasswordCommand(),
		c.deregisterCommand(),
		c.resetCommand(),
		c.watchCommand(),
	)
	return root
}

// Execute runs the command tree with args and renders a returned error.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.Command()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprint(c.opts.Err, tui.RenderError(err))
	}
	return err
}

// Close releases what the command connected.
func (c *CLI) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *CLI) connect(cmd *cobra.Command) error {
	cfg, err := config.GetClientConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}
	c.cfg = cfg

	log, logCloser, err := logger.NewClientLogger("vaultctl", cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, logCloser)
	c.log = log

	services, closer, err := c.opts.Connect(cmd.Context(), cfg, c.opts.BuildInfo, log)
	if err != nil {
		log.Err(err).Msg("error connecting client")
		return err
	}
	c.closers = append(c.closers, closer)
	c.services = services

	log.Debug().Str("command", cmd.Name()).Msg("client connected")
	return nil
}

func (c *CLI) client() service.SecureVaultClient {
	return c.services.VaultClient
}

func (c *CLI) prompter() Prompter {
	if c.passwordStdin {
		if c.stdin == nil {
			c.stdin = newStdinPasswords(c.opts.In)
		}
		return c.stdin
	}
	if c.opts.Prompter != nil {
		return c.opts.Prompter
	}
	return tui.NewPrompter(c.opts.In, c.opts.Err)
}

// credentials reads the key file and prompts for the passwords described by
// fields. The returned release wipes everything.
func (c *CLI) credentials(ctx context.Context, title string, fields ...tui.Field) ([]byte, [][]byte, func(), error) {
	key, err := readKeyFile(c.keyFile)
	if err != nil {
		return nil, nil, nil, err
	}

	passwords, err := c.prompter().Passwords(ctx, title, fields...)
	if err != nil {
		wipeAll([][]byte{key})
		return nil, nil, nil, err
	}

	return key, passwords, func() { wipeAll(append(passwords, key)) }, nil
}

// ensureRegistered loads the initialization data the content calls need.
func (c *CLI) ensureRegistered(ctx context.Context) error {
	registered, err := service.Await(ctx, func(done service.Completion[bool]) error {
		return c.client().IsRegistered(ctx, done)
	})
	if err != nil {
		return err
	}
	if !registered {
		return models.ErrNotRegistered
	}
	return nil
}

func (c *CLI) confirm(ctx context.Context, yes bool, message string) error {
	if yes {
		return nil
	}
	ok, err := c.prompter().Confirm(ctx, message)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

func (c *CLI) print(s string) {
	fmt.Fprint(c.opts.Out, s)
}
