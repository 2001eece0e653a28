// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package operation

import (
	"context"
	"encoding/base64"

	"github.com/MKhiriev/go-secure-vault/internal/adapter"
	"github.com/MKhiriev/go-secure-vault/internal/logger"
	"github.com/MKhiriev/go-secure-vault/models"
)

// Deregister removes the signed-in user's vault account and every vault it
// owns.
type Deregister struct {
	*Operation

	Username string
}

func NewDeregister(client adapter.GraphQLClient, log *logger.Logger) *Deregister {
	op := &Deregister{}
	op.Operation = newOperation("Deregister", log, func(ctx context.Context) error {
		res, err := checkResult(client.Perform(ctx, adapter.NewDeregisterMutation()))
		if err != nil {
			return err
		}

		var rec adapter.DeregisterRecord
		found, err := decodeField(res, adapter.FieldDeregister, &rec)
		if err != nil {
			return err
		}
		if !found || rec.Username == "" {
			return models.ErrResultMissing
		}

		op.Username = rec.Username
		return nil
	})
	return op
}

// GetInitializationData fetches the registration record of the signed-in
// user. Data stays nil when the user is not registered.
type GetInitializationData struct {
	*Operation

	Data *models.InitializationData
}

func NewGetInitializationData(client adapter.GraphQLClient, log *logger.Logger) *GetInitializationData {
	op := &GetInitializationData{}
	op.Operation = newOperation("GetInitializationData", log, func(ctx context.Context) error {
		res, err := checkResult(client.Fetch(ctx, adapter.NewGetInitializationDataQuery(), adapter.FetchIgnoringCacheData))
		if err != nil {
			return err
		}

		var rec adapter.InitializationDataRecord
		found, err := decodeField(res, adapter.FieldGetInitializationData, &rec)
		if err != nil || !found {
			return err
		}

		data, err := initializationData(rec)
		if err != nil {
			return err
		}

		op.Data = data
		return nil
	})
	return op
}

func initializationData(rec adapter.InitializationDataRecord) (*models.InitializationData, error) {
	authSalt, err := base64.StdEncoding.DecodeString(rec.AuthenticationSalt)
	if err != nil {
		return nil, models.WrapFatal("authentication salt is not valid base64", err)
	}
	encSalt, err := base64.StdEncoding.DecodeString(rec.EncryptionSalt)
	if err != nil {
		return nil, models.WrapFatal("encryption salt is not valid base64", err)
	}
	if rec.PbkdfRounds < 1 {
		return nil, models.NewFatalError("pbkdf rounds must be positive")
	}

	return &models.InitializationData{
		Owner:              rec.Owner,
		AuthenticationSalt: authSalt,
		EncryptionSalt:     encSalt,
		PbkdfRounds:        uint32(rec.PbkdfRounds),
	}, nil
}
