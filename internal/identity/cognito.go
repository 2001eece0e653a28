// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-secure-vault/internal/config"
	"github.com/MKhiriev/go-secure-vault/internal/logger"
	"github.com/MKhiriev/go-secure-vault/internal/utils"
	"github.com/MKhiriev/go-secure-vault/models"
)

const (
	targetPrefix = "AWSCognitoIdentityProviderService."
	contentType  = "application/x-amz-json-1.1"

	// Markers the vault pre-sign-up trigger puts in error messages.
	decodingErrorMarker     = "sudoplatform.DecodingError"
	serviceErrorMarker      = "sudoplatform.ServiceError"
	alreadyRegisteredMarker = "sudoplatform.vault.AlreadyRegistered"
)

// Validation data attribute names read by the pre-sign-up trigger.
const (
	validationIDToken            = "idToken"
	validationAuthenticationSalt = "authenticationSalt"
	validationEncryptionSalt     = "encryptionSalt"
	validationPbkdfRounds        = "pbkdfRounds"
)

type attribute struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

type signUpRequest struct {
	ClientID       string      `json:"ClientId"`
	Username       string      `json:"Username"`
	Password       string      `json:"Password"`
	ValidationData []attribute `json:"ValidationData"`
}

type signUpResponse struct {
	UserConfirmed *bool  `json:"UserConfirmed"`
	UserSub       string `json:"UserSub"`
}

type initiateAuthRequest struct {
	AuthFlow       string            `json:"AuthFlow"`
	ClientID       string            `json:"ClientId"`
	AuthParameters map[string]string `json:"AuthParameters"`
}

type authenticationResult struct {
	IDToken      string `json:"IdToken"`
	AccessToken  string `json:"AccessToken"`
	RefreshToken string `json:"RefreshToken"`
	ExpiresIn    int    `json:"ExpiresIn"`
}

type initiateAuthResponse struct {
	AuthenticationResult *authenticationResult `json:"AuthenticationResult"`
	ChallengeName        string                `json:"ChallengeName"`
}

type changePasswordRequest struct {
	AccessToken      string `json:"AccessToken"`
	PreviousPassword string `json:"PreviousPassword"`
	ProposedPassword string `json:"ProposedPassword"`
}

type deleteUserRequest struct {
	AccessToken string `json:"AccessToken"`
}

type errorResponse struct {
	Type    string `json:"__type"`
	Message string `json:"message"`
}

type cognitoProvider struct {
	client   *utils.HTTPClient
	endpoint string
	clientID string

	logger *logger.Logger
}

// NewCognitoProvider returns a [Provider] speaking the user pool JSON API.
// The endpoint is serviceCfg.IdentityEndpoint when set, otherwise the
// regional endpoint of serviceCfg.Region.
//
// Returns [ErrInvalidConfig] when the client id or both endpoint sources are
// missing.
func NewCognitoProvider(serviceCfg config.ClientService, log *logger.Logger) (Provider, error) {
	if serviceCfg.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client id", ErrInvalidConfig)
	}

	endpoint := serviceCfg.IdentityEndpoint
	if endpoint == "" {
		if serviceCfg.Region == "" {
			return nil, fmt.Errorf("%w: missing region", ErrInvalidConfig)
		}
		endpoint = fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/", serviceCfg.Region)
	}

	return &cognitoProvider{
		client:   utils.NewHTTPClient(serviceCfg.RequestTimeout),
		endpoint: endpoint,
		clientID: serviceCfg.ClientID,
		logger:   logger.OrNop(log).Named("identity"),
	}, nil
}

func (p *cognitoProvider) Register(ctx context.Context, uid, password, token, authenticationSalt, encryptionSalt string, pbkdfRounds uint32) (string, error) {
	req := signUpRequest{
		ClientID: p.clientID,
		Username: uid,
		Password: password,
		ValidationData: []attribute{
			{Name: validationIDToken, Value: token},
			{Name: validationAuthenticationSalt, Value: authenticationSalt},
			{Name: validationEncryptionSalt, Value: encryptionSalt},
			{Name: validationPbkdfRounds, Value: strconv.FormatUint(uint64(pbkdfRounds), 10)},
		},
	}

	p.logger.Debug().Str("func", "cognitoProvider.Register").Str("uid", uid).Msg("signing up vault user")

	var resp signUpResponse
	if err := p.call(ctx, "SignUp", req, &resp); err != nil {
		return "", err
	}
	if resp.UserConfirmed == nil {
		return "", fmt.Errorf("%w: sign up result did not contain user confirmation status", ErrMissingResult)
	}
	if !*resp.UserConfirmed {
		return "", ErrIdentityNotConfirmed
	}

	return uid, nil
}

func (p *cognitoProvider) SignIn(ctx context.Context, uid, password string) (models.AuthenticationTokens, error) {
	result, err := p.initiateAuth(ctx, uid, password)
	if err != nil {
		return models.AuthenticationTokens{}, err
	}

	if result.IDToken == "" || result.AccessToken == "" || result.RefreshToken == "" {
		return models.AuthenticationTokens{}, ErrAuthTokenMissing
	}

	return models.AuthenticationTokens{
		IDToken:      result.IDToken,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		Lifetime:     result.ExpiresIn,
	}, nil
}

func (p *cognitoProvider) ChangePassword(ctx context.Context, uid, oldPassword, newPassword string) (string, error) {
	result, err := p.initiateAuth(ctx, uid, oldPassword)
	if err != nil {
		return "", err
	}
	if result.AccessToken == "" {
		return "", ErrAuthTokenMissing
	}

	req := changePasswordRequest{
		AccessToken:      result.AccessToken,
		PreviousPassword: oldPassword,
		ProposedPassword: newPassword,
	}
	if err = p.call(ctx, "ChangePassword", req, nil); err != nil {
		return "", err
	}

	return uid, nil
}

func (p *cognitoProvider) Deregister(ctx context.Context, uid, accessToken string) (string, error) {
	if err := p.call(ctx, "DeleteUser", deleteUserRequest{AccessToken: accessToken}, nil); err != nil {
		return "", err
	}
	return uid, nil
}

func (p *cognitoProvider) initiateAuth(ctx context.Context, uid, password string) (*authenticationResult, error) {
	req := initiateAuthRequest{
		AuthFlow: "USER_PASSWORD_AUTH",
		ClientID: p.clientID,
		AuthParameters: map[string]string{
			"USERNAME": uid,
			"PASSWORD": password,
		},
	}

	var resp initiateAuthResponse
	if err := p.call(ctx, "InitiateAuth", req, &resp); err != nil {
		return nil, err
	}
	if resp.AuthenticationResult == nil {
		if resp.ChallengeName != "" {
			return nil, fmt.Errorf("%w: unsupported challenge %s", ErrNotAuthorized, resp.ChallengeName)
		}
		return nil, fmt.Errorf("%w: sign in completed successfully but result is missing", ErrMissingResult)
	}

	return resp.AuthenticationResult, nil
}

// call posts body to the given API action and decodes the response into out
// when out is not nil.
func (p *cognitoProvider) call(ctx context.Context, action string, body, out any) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("X-Amz-Target", targetPrefix+action).
		SetBody(body).
		Post(p.endpoint)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRequestFailed, action, err)
	}

	if resp.IsError() {
		svcErr := mapServiceError(resp.StatusCode(), resp.Body())
		p.logger.Debug().Err(svcErr).Str("func", "cognitoProvider.call").Str("action", action).Msg("identity request rejected")
		return svcErr
	}

	if out == nil {
		return nil
	}
	if err = json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %s: decode response: %w", ErrRequestFailed, action, err)
	}

	return nil
}

func mapServiceError(status int, body []byte) error {
	var payload errorResponse
	_ = json.Unmarshal(body, &payload)

	errType := payload.Type
	if i := strings.LastIndex(errType, "#"); i >= 0 {
		errType = errType[i+1:]
	}

	svcErr := &ServiceError{StatusCode: status, Type: errType, Message: payload.Message}

	switch {
	case strings.Contains(payload.Message, alreadyRegisteredMarker):
		svcErr.Err = ErrAlreadyRegistered
	case strings.Contains(payload.Message, decodingErrorMarker):
		svcErr.Err = ErrInvalidInput
	case strings.Contains(payload.Message, serviceErrorMarker):
		svcErr.Err = ErrServiceError
	case errType == "NotAuthorizedException":
		svcErr.Err = ErrNotAuthorized
	case errType == "UserNotConfirmedException":
		svcErr.Err = ErrIdentityNotConfirmed
	case errType == "UsernameExistsException":
		svcErr.Err = ErrAlreadyRegistered
	case errType == "InvalidParameterException", errType == "InvalidPasswordException":
		svcErr.Err = ErrInvalidInput
	case status >= http.StatusInternalServerError:
		svcErr.Err = ErrServiceError
	default:
		svcErr.Err = ErrRequestFailed
	}

	return svcErr
}
