// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"

	"github.com/MKhiriev/go-secure-vault/internal/adapter"
	"github.com/MKhiriev/go-secure-vault/internal/crypto"
	"github.com/MKhiriev/go-secure-vault/internal/identity"
	"github.com/MKhiriev/go-secure-vault/internal/logger"
	"github.com/MKhiriev/go-secure-vault/internal/operation"
	"github.com/MKhiriev/go-secure-vault/internal/session"
	"github.com/MKhiriev/go-secure-vault/models"
)

// saltSize is the size of each registration salt.
const saltSize = 32

// ClientDependencies are the collaborators of the vault client.
type ClientDependencies struct {
	Identity identity.Provider
	GraphQL  adapter.GraphQLClient
	Session  session.UserClient
	Keys     crypto.KeyManager

	// PbkdfRounds is the password stretching work factor used for new
	// registrations. Existing users keep the rounds of their
	// initialization data.
	PbkdfRounds uint32
	// MaxConcurrent bounds the operations the API queue runs at once.
	MaxConcurrent int
	BuildInfo     models.AppBuildInfo
}

type secureVaultClient struct {
	identity    identity.Provider
	graphQL     adapter.GraphQLClient
	session     session.UserClient
	keys        crypto.KeyManager
	cipher      *crypto.BlobCipher
	pbkdfRounds uint32
	buildInfo   models.AppBuildInfo

	// mu guards initData and makes precondition checks, chain building and
	// submission atomic.
	mu       sync.Mutex
	initData *models.InitializationData

	registerQueue *operation.Queue
	apiQueue      *operation.Queue

	// derived, when set, sees every secret right after derivation.
	derived func(*crypto.Secret)

	logger *logger.Logger
}

func NewSecureVaultClient(deps ClientDependencies, log *logger.Logger) (SecureVaultClient, error) {
	var errs []error
	if deps.Identity == nil {
		errs = append(errs, ErrNoIdentityProvider)
	}
	if deps.GraphQL == nil {
		errs = append(errs, ErrNoGraphQLClient)
	}
	if deps.Session == nil {
		errs = append(errs, ErrNoUserClient)
	}
	if deps.Keys == nil {
		errs = append(errs, ErrNoKeyManager)
	}
	if deps.PbkdfRounds == 0 {
		errs = append(errs, ErrInvalidPbkdfRounds)
	}
	if len(errs) > 0 {
		return nil, &models.VaultError{Kind: models.KindInvalidConfig, Cause: errors.Join(errs...)}
	}

	log = logger.OrNop(log)
	maxConcurrent := deps.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &secureVaultClient{
		identity:      deps.Identity,
		graphQL:       deps.GraphQL,
		session:       deps.Session,
		keys:          deps.Keys,
		cipher:        crypto.NewBlobCipher(deps.Keys),
		pbkdfRounds:   deps.PbkdfRounds,
		buildInfo:     deps.BuildInfo,
		registerQueue: operation.NewQueue("register", 1, log),
		apiQueue:      operation.NewQueue("api", maxConcurrent, log),
		logger:        log,
	}, nil
}

func (c *secureVaultClient) Version() string {
	return c.buildInfo.BuildVersion()
}

func (c *secureVaultClient) Close() {
	c.registerQueue.Close()
	c.apiQueue.Close()
}

// signedIn fails with models.ErrNotSignedIn unless the session has a user.
func (c *secureVaultClient) signedIn() error {
	if !c.session.IsSignedIn() {
		return models.ErrNotSignedIn
	}
	return nil
}

// subject returns the signed-in user id, which is also the vault user name.
func (c *secureVaultClient) subject() (string, error) {
	if err := c.signedIn(); err != nil {
		return "", err
	}
	sub, err := c.session.GetSubject()
	if err != nil || sub == "" {
		return "", &models.VaultError{Kind: models.KindNotSignedIn, Cause: err}
	}
	return sub, nil
}

// registered returns the cached initialization data. Must be called with
// c.mu held.
func (c *secureVaultClient) registered() (*models.InitializationData, error) {
	if c.initData == nil {
		return nil, models.ErrNotRegistered
	}
	return c.initData, nil
}

// secrets is the authentication and encryption secret pair of one password.
type secrets struct {
	auth *crypto.Secret
	enc  *crypto.Secret
}

func (s secrets) destroy() {
	s.auth.Destroy()
	s.enc.Destroy()
}

func (c *secureVaultClient) deriveSecret(key, password, salt []byte, rounds uint32) (*crypto.Secret, error) {
	secret, err := crypto.DeriveSecret(c.keys, key, password, salt, rounds)
	if err != nil {
		return nil, err
	}
	if c.derived != nil {
		c.derived(secret)
	}
	return secret, nil
}

func (c *secureVaultClient) deriveSecrets(key, password []byte, data *models.InitializationData) (secrets, error) {
	auth, err := c.deriveSecret(key, password, data.AuthenticationSalt, data.PbkdfRounds)
	if err != nil {
		return secrets{}, err
	}
	enc, err := c.deriveSecret(key, password, data.EncryptionSalt, data.PbkdfRounds)
	if err != nil {
		auth.Destroy()
		return secrets{}, err
	}
	return secrets{auth: auth, enc: enc}, nil
}

// submitSignedIn queues SignIn(auth) followed by op, which receives the
// vault user token as input. The secrets are wiped once op settles and
// deliver gets the first error of the pair.
func (c *secureVaultClient) submitSignedIn(ctx context.Context, uid string, s secrets, op *operation.Operation, deliver func(err error)) {
	signIn := operation.NewSignIn(c.identity, uid, s.auth, c.logger)
	op.AddDependency(signIn.Operation)
	op.SetCopyDependenciesOutputAsInput(true)
	op.SetCompletion(func() {
		s.destroy()
		deliver(firstError(signIn.Operation, op))
	})

	c.apiQueue.Add(ctx, signIn.Operation, op)
}

// firstError returns the first error among ops in chain order.
func firstError(ops ...*operation.Operation) error {
	for _, op := range ops {
		if err := op.Err(); err != nil {
			return err
		}
	}
	return nil
}

// resetLocked must be called with c.mu held.
func (c *secureVaultClient) resetLocked(ctx context.Context) error {
	c.initData = nil
	if err := c.graphQL.ClearCaches(ctx); err != nil {
		c.logger.Err(err).Msg("failed to clear transport caches")
		return models.WrapFatal("failed to clear caches", err)
	}
	return nil
}

func (c *secureVaultClient) Reset(ctx context.Context) error {
	c.logger.Info().Msg("resetting client")

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resetLocked(ctx)
}
