// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-secure-vault/internal/operation"
	"github.com/MKhiriev/go-secure-vault/models"
)

func (c *secureVaultClient) Register(ctx context.Context, key, password []byte, completion Completion[string]) error {
	c.logger.Info().Msg("performing registration")

	uid, err := c.subject()
	if err != nil {
		return err
	}
	idToken, err := c.session.GetIDToken()
	if err != nil || idToken == "" {
		return &models.VaultError{Kind: models.KindNotSignedIn, Cause: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.registerQueue.OperationCount() != 0 {
		return models.ErrRegisterOperationAlreadyInProgress
	}

	if err = c.resetLocked(ctx); err != nil {
		return err
	}

	authenticationSalt, err := c.keys.RandomBytes(saltSize)
	if err != nil {
		return models.WrapFatal("failed to generate authentication salt", err)
	}
	encryptionSalt, err := c.keys.RandomBytes(saltSize)
	if err != nil {
		return models.WrapFatal("failed to generate encryption salt", err)
	}

	rounds := c.pbkdfRounds
	secret, err := c.deriveSecret(key, password, authenticationSalt, rounds)
	if err != nil {
		return err
	}

	op := operation.NewRegister(c.identity, uid, secret, idToken, authenticationSalt, encryptionSalt, rounds, c.logger)
	op.SetCompletion(func() {
		secret.Destroy()

		if err := op.Err(); err != nil {
			completion("", err)
			return
		}

		c.mu.Lock()
		c.initData = &models.InitializationData{
			Owner:              op.UID,
			AuthenticationSalt: authenticationSalt,
			EncryptionSalt:     encryptionSalt,
			PbkdfRounds:        rounds,
		}
		c.mu.Unlock()

		completion(op.UID, nil)
	})

	c.registerQueue.Add(ctx, op.Operation)
	return nil
}

func (c *secureVaultClient) IsRegistered(ctx context.Context, completion Completion[bool]) error {
	c.mu.Lock()
	cached := c.initData != nil
	c.mu.Unlock()

	if cached {
		completion(true, nil)
		return nil
	}

	return c.GetInitializationData(ctx, func(data *models.InitializationData, err error) {
		completion(err == nil && data != nil, err)
	})
}

func (c *secureVaultClient) GetInitializationData(ctx context.Context, completion Completion[*models.InitializationData]) error {
	c.logger.Info().Msg("retrieving client initialization data")

	if err := c.signedIn(); err != nil {
		return err
	}

	op := operation.NewGetInitializationData(c.graphQL, c.logger)
	op.SetCompletion(func() {
		if err := op.Err(); err != nil {
			completion(nil, err)
			return
		}

		if op.Data != nil {
			c.mu.Lock()
			c.initData = op.Data
			c.mu.Unlock()
		}
		completion(op.Data, nil)
	})

	c.apiQueue.Add(ctx, op.Operation)
	return nil
}

func (c *secureVaultClient) Deregister(ctx context.Context, completion Completion[string]) error {
	c.logger.Info().Msg("deregistering")

	if err := c.signedIn(); err != nil {
		return err
	}

	op := operation.NewDeregister(c.graphQL, c.logger)
	op.SetCompletion(func() {
		if err := op.Err(); err != nil {
			completion("", err)
			return
		}

		c.mu.Lock()
		c.initData = nil
		c.mu.Unlock()

		completion(op.Username, nil)
	})

	c.apiQueue.Add(ctx, op.Operation)
	return nil
}
