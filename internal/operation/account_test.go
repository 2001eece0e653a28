// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package operation

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-secure-vault/internal/adapter"
	"github.com/MKhiriev/go-secure-vault/internal/mock"
	"github.com/MKhiriev/go-secure-vault/models"
)

func TestDeregister(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockGraphQLClient(ctrl)

	client.EXPECT().Perform(gomock.Any(), adapter.NewDeregisterMutation()).Return(&adapter.Result{
		Data: map[string]any{adapter.FieldDeregister: map[string]any{"username": "uid"}},
	}, nil)

	op := NewDeregister(client, nil)
	op.Start(context.Background())

	assert.NoError(t, op.Err())
	assert.Equal(t, "uid", op.Username)
}

func TestDeregister_MissingResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockGraphQLClient(ctrl)
	client.EXPECT().Perform(gomock.Any(), gomock.Any()).Return(&adapter.Result{Data: map[string]any{}}, nil)

	op := NewDeregister(client, nil)
	op.Start(context.Background())

	assert.ErrorIs(t, op.Err(), models.ErrResultMissing)
}

func TestDeregister_GraphQLError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockGraphQLClient(ctrl)
	client.EXPECT().Perform(gomock.Any(), gomock.Any()).Return(&adapter.Result{
		Errors: []adapter.GraphQLError{{Message: "nope", ErrorType: "sudoplatform.vault.NotAuthorizedError"}},
	}, nil)

	op := NewDeregister(client, nil)
	op.Start(context.Background())

	assert.ErrorIs(t, op.Err(), models.ErrNotAuthorized)
}

func TestGetInitializationData(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockGraphQLClient(ctrl)

	authSalt, encSalt := []byte("auth-salt"), []byte("enc-salt")
	client.EXPECT().Fetch(gomock.Any(), adapter.NewGetInitializationDataQuery(), adapter.FetchIgnoringCacheData).Return(&adapter.Result{
		Data: map[string]any{adapter.FieldGetInitializationData: map[string]any{
			"owner":              "owner-1",
			"authenticationSalt": base64.StdEncoding.EncodeToString(authSalt),
			"encryptionSalt":     base64.StdEncoding.EncodeToString(encSalt),
			"pbkdfRounds":        float64(10000),
		}},
	}, nil)

	op := NewGetInitializationData(client, nil)
	op.Start(context.Background())

	require.NoError(t, op.Err())
	assert.Equal(t, &models.InitializationData{
		Owner:              "owner-1",
		AuthenticationSalt: authSalt,
		EncryptionSalt:     encSalt,
		PbkdfRounds:        10000,
	}, op.Data)
}

func TestGetInitializationData_NotRegistered(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockGraphQLClient(ctrl)
	client.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(&adapter.Result{
		Data: map[string]any{adapter.FieldGetInitializationData: nil},
	}, nil)

	op := NewGetInitializationData(client, nil)
	op.Start(context.Background())

	assert.NoError(t, op.Err())
	assert.Nil(t, op.Data)
}

func TestGetInitializationData_BadSalt(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockGraphQLClient(ctrl)
	client.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(&adapter.Result{
		Data: map[string]any{adapter.FieldGetInitializationData: map[string]any{
			"owner":              "owner-1",
			"authenticationSalt": "%%%",
			"encryptionSalt":     "",
			"pbkdfRounds":        float64(1),
		}},
	}, nil)

	op := NewGetInitializationData(client, nil)
	op.Start(context.Background())

	assert.ErrorIs(t, op.Err(), models.ErrFatal)
	assert.Nil(t, op.Data)
}

func TestGetInitializationData_TransportError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockGraphQLClient(ctrl)
	client.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, adapter.ErrRequestFailed)

	op := NewGetInitializationData(client, nil)
	op.Start(context.Background())

	assert.ErrorIs(t, op.Err(), models.ErrRequestFailed)
}
