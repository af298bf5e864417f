package api

import (
	"context"

	apierrors "github.com/luminalabs/lumina-cli/internal/errors"
	"github.com/luminalabs/lumina-cli/internal/models"
)

// Login exchanges an email and password for a bearer token. Storing the
// token is the caller's job; the gateway only transports it. A wrong
// password surfaces as an AuthError without touching stored credentials.
func (c *LuminaClient) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		// The token endpoint reads the email from the form's username field
		SetFormData(map[string]string{
			"username": email,
			"password": password,
		}).
		Post(PathToken)
	if err != nil {
		return "", apierrors.NewNetworkError(PathToken, err)
	}
	if !resp.IsSuccess() {
		return "", c.apiError(resp, PathToken)
	}

	var tok tokenResponse
	if err := decodeJSON(resp, PathToken, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", apierrors.NewDecodeError(PathToken, "missing access_token", nil)
	}

	return tok.AccessToken, nil
}

// Register creates a new account. The service rejects duplicate emails
// with a 400 whose detail is surfaced on the returned error.
func (c *LuminaClient) Register(ctx context.Context, email, password, fullName string) (models.User, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(registerRequest{Email: email, Password: password, FullName: fullName}).
		Post(PathRegister)
	if err != nil {
		return models.User{}, apierrors.NewNetworkError(PathRegister, err)
	}
	if !resp.IsSuccess() {
		return models.User{}, c.apiError(resp, PathRegister)
	}

	var user userResponse
	if err := decodeJSON(resp, PathRegister, &user); err != nil {
		return models.User{}, err
	}
	if user.Email == "" {
		return models.User{}, apierrors.NewDecodeError(PathRegister, "missing email", nil)
	}

	return models.User{Email: user.Email, FullName: user.FullName}, nil
}

// CurrentUser fetches the signed-in account
func (c *LuminaClient) CurrentUser(ctx context.Context) (models.User, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(PathMe)
	if err != nil {
		return models.User{}, apierrors.NewNetworkError(PathMe, err)
	}
	if !resp.IsSuccess() {
		return models.User{}, c.apiError(resp, PathMe)
	}

	var user userResponse
	if err := decodeJSON(resp, PathMe, &user); err != nil {
		return models.User{}, err
	}
	if user.Email == "" {
		return models.User{}, apierrors.NewDecodeError(PathMe, "missing email", nil)
	}

	return models.User{Email: user.Email, FullName: user.FullName}, nil
}

// FetchProfile fetches the long-term memory the service keeps for the user
func (c *LuminaClient) FetchProfile(ctx context.Context) (models.Profile, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(PathProfile)
	if err != nil {
		return models.Profile{}, apierrors.NewNetworkError(PathProfile, err)
	}
	if !resp.IsSuccess() {
		return models.Profile{}, c.apiError(resp, PathProfile)
	}

	var profile profileResponse
	if err := decodeJSON(resp, PathProfile, &profile); err != nil {
		return models.Profile{}, err
	}

	return models.Profile{Text: profile.ProfileText, Facts: profile.Facts}, nil
}
